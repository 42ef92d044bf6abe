package usecase

import (
	"context"
	"testing"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/dto/request"
	"film-catalog/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(entity.RoleUser)
	m := f.movie("Heat")

	resp, err := f.svc.Watch.MarkWatched(ctx, u.UserID, m)
	require.NoError(t, err)
	assert.Equal(t, m, resp.MovieID)
	assert.False(t, resp.WatchedAt.IsZero())

	watched, err := f.svc.Watch.HasWatched(ctx, u.UserID, m)
	require.NoError(t, err)
	assert.True(t, watched)

	require.NoError(t, f.svc.Watch.UnmarkWatched(ctx, u.UserID, m))

	watched, err = f.svc.Watch.HasWatched(ctx, u.UserID, m)
	require.NoError(t, err)
	assert.False(t, watched)
}

func TestMarkWatchedTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(entity.RoleUser)
	m := f.movie("Heat")

	_, err := f.svc.Watch.MarkWatched(ctx, u.UserID, m)
	require.NoError(t, err)

	_, err = f.svc.Watch.MarkWatched(ctx, u.UserID, m)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestMarkWatchedUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(entity.RoleUser)

	_, err := f.svc.Watch.MarkWatched(ctx, u.UserID, uuid.NewString())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = f.svc.Watch.MarkWatched(ctx, uuid.New(), f.movie("Ronin"))
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = f.svc.Watch.MarkWatched(ctx, u.UserID, "not-a-uuid")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestUnmarkWatchedMissing(t *testing.T) {
	f := newFixture(t)
	u := f.user(entity.RoleUser)

	err := f.svc.Watch.UnmarkWatched(context.Background(), u.UserID, f.movie("Heat"))
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestUnmarkWatchedRejectedWhileReviewed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(entity.RoleUser)
	m := f.movie("Heat")
	f.reviewed(t, u, m)

	err := f.svc.Watch.UnmarkWatched(ctx, u.UserID, m)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	watched, err := f.svc.Watch.HasWatched(ctx, u.UserID, m)
	require.NoError(t, err)
	assert.True(t, watched)
}

func TestListWatched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(entity.RoleUser)

	for _, title := range []string{"Heat", "Ronin", "Thief"} {
		_, err := f.svc.Watch.MarkWatched(ctx, u.UserID, f.movie(title))
		require.NoError(t, err)
	}

	page, err := f.svc.Watch.ListWatched(ctx, u.UserID, &request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.IsLast)

	page, err = f.svc.Watch.ListWatched(ctx, u.UserID, &request.PaginatedRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.True(t, page.Pagination.IsLast)
}
