package usecase

import (
	"context"
	"sync"
	"testing"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/dto/request"
	"film-catalog/internal/events"
	"film-catalog/pkg/apperrors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewRequiresWatch(t *testing.T) {
	f := newFixture(t)
	u := f.user(entity.RoleUser)
	m := f.movie("Alien")

	_, err := f.svc.Review.CreateReview(context.Background(), u, m, validReview())

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindPreconditionFailed))
}

func TestCreateReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(entity.RoleUser)
	m := f.movie("Alien")

	_, err := f.svc.Watch.MarkWatched(ctx, u.UserID, m)
	require.NoError(t, err)

	review, err := f.svc.Review.CreateReview(ctx, u, m, validReview())
	require.NoError(t, err)

	assert.Equal(t, u.UserID.String()+":"+m, review.ID)
	assert.Zero(t, review.LikesCount)
	assert.False(t, review.Hidden)
	assert.Equal(t, 8, review.Scores.General)
	assert.Equal(t, []events.Type{events.ReviewCreated}, f.publisher.types())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReviewsCreated))

	_, err = f.svc.Review.CreateReview(ctx, u, m, validReview())
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestCreateReviewValidation(t *testing.T) {
	f := newFixture(t)
	u := f.user(entity.RoleUser)
	req := validReview()
	req.Scores.Direction = 11
	req.Content = ""

	_, err := f.svc.Review.CreateReview(context.Background(), u, f.movie("Alien"), req)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields(), "Direction")
	assert.Contains(t, appErr.Fields(), "Content")
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(entity.RoleUser)
	other := f.user(entity.RoleUser)
	id := f.reviewed(t, author, f.movie("Alien"))

	_, err := f.svc.Review.LikeReview(ctx, other, id)
	require.NoError(t, err)

	update := &request.UpdateReviewRequest{
		Content: "Better on a second viewing.",
		Scores:  request.ScoresRequest{Direction: 9, Screenplay: 9, Cinematography: 10, General: 9},
	}

	_, err = f.svc.Review.UpdateReview(ctx, other, id, update)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	updated, err := f.svc.Review.UpdateReview(ctx, author, id, update)
	require.NoError(t, err)
	assert.Equal(t, "Better on a second viewing.", updated.Content)
	assert.Equal(t, 9, updated.Scores.General)
	assert.Equal(t, int64(1), updated.LikesCount)
}

func TestDeleteReviewKeepsWatchedRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(entity.RoleUser)
	reporter := f.user(entity.RoleUser)
	m := f.movie("Alien")
	id := f.reviewed(t, author, m)

	_, err := f.svc.Moderation.FlagReview(ctx, reporter.UserID, id, &request.FlagReviewRequest{Reason: "spoilers"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Review.DeleteReview(ctx, author, id))

	page, err := f.svc.Review.GetMovieReviews(ctx, author, m, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	watched, err := f.svc.Watch.HasWatched(ctx, author.UserID, m)
	require.NoError(t, err)
	assert.True(t, watched)

	// The author can review again; the old flags are gone with the old review.
	id = f.reviewedAgain(t, author, m)
	admin := f.user(entity.RoleAdmin)
	flags, err := f.svc.Moderation.ListFlags(ctx, admin, id, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, flags.Pagination.Total)
}

func (f *fixture) reviewedAgain(t *testing.T, caller Caller, movieID string) string {
	t.Helper()
	review, err := f.svc.Review.CreateReview(context.Background(), caller, movieID, validReview())
	require.NoError(t, err)
	return review.ID
}

func TestDeleteReviewPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(entity.RoleUser)
	stranger := f.user(entity.RoleUser)
	admin := f.user(entity.RoleAdmin)
	id := f.reviewed(t, author, f.movie("Alien"))

	err := f.svc.Review.DeleteReview(ctx, stranger, id)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	require.NoError(t, f.svc.Review.DeleteReview(ctx, admin, id))

	err = f.svc.Review.DeleteReview(ctx, author, id)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestConcurrentLikesAreNotLost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(entity.RoleUser)
	fan := f.user(entity.RoleUser)
	id := f.reviewed(t, author, f.movie("Alien"))

	const n = 64
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Review.LikeReview(ctx, fan, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	review, err := f.svc.Review.GetReview(ctx, fan, id)
	require.NoError(t, err)
	assert.Equal(t, int64(n), review.LikesCount)
	assert.Equal(t, float64(n), testutil.ToFloat64(f.metrics.ReviewLikes))
}

func TestHiddenReviewVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(entity.RoleUser)
	stranger := f.user(entity.RoleUser)
	admin := f.user(entity.RoleAdmin)
	m := f.movie("Alien")
	id := f.reviewed(t, author, m)

	_, err := f.svc.Moderation.Hide(ctx, admin, id)
	require.NoError(t, err)

	_, err = f.svc.Review.GetReview(ctx, stranger, id)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = f.svc.Review.LikeReview(ctx, stranger, id)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	own, err := f.svc.Review.GetReview(ctx, author, id)
	require.NoError(t, err)
	assert.True(t, own.Hidden)

	page := &request.PaginatedRequest{Page: 1, PerPage: 10}
	public, err := f.svc.Review.GetMovieReviews(ctx, stranger, m, page)
	require.NoError(t, err)
	assert.Empty(t, public.Data)
	assert.Zero(t, public.Pagination.Total)

	byUser, err := f.svc.Review.GetUserReviews(ctx, stranger, author.UserID.String(), page)
	require.NoError(t, err)
	assert.Empty(t, byUser.Data)

	moderated, err := f.svc.Review.GetMovieReviews(ctx, admin, m, page)
	require.NoError(t, err)
	require.Len(t, moderated.Data, 1)
	assert.True(t, moderated.Data[0].Hidden)
}

func TestGetMovieReviewsSortedByLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.movie("Alien")
	fan := f.user(entity.RoleUser)

	var ids []string
	for range 3 {
		ids = append(ids, f.reviewed(t, f.user(entity.RoleUser), m))
	}
	for i := 0; i < 2; i++ {
		_, err := f.svc.Review.LikeReview(ctx, fan, ids[1])
		require.NoError(t, err)
	}
	_, err := f.svc.Review.LikeReview(ctx, fan, ids[2])
	require.NoError(t, err)

	page, err := f.svc.Review.GetMovieReviews(ctx, fan, m, &request.PaginatedRequest{Page: 1, PerPage: 10, Sort: "likes"})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, ids[1], page.Data[0].ID)
	assert.Equal(t, ids[2], page.Data[1].ID)
	assert.Equal(t, ids[0], page.Data[2].ID)
	assert.Equal(t, "likes", page.Pagination.Sort)

	_, err = f.svc.Review.GetMovieReviews(ctx, fan, m, &request.PaginatedRequest{Page: 1, PerPage: 10, Sort: "title"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestUserReviewStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(entity.RoleUser)
	fan := f.user(entity.RoleUser)

	first := f.reviewed(t, u, f.movie("Alien"))
	m2 := f.movie("Aliens")
	_, err := f.svc.Watch.MarkWatched(ctx, u.UserID, m2)
	require.NoError(t, err)
	req := validReview()
	req.Scores = request.ScoresRequest{Direction: 6, Screenplay: 5, Cinematography: 7, General: 6}
	_, err = f.svc.Review.CreateReview(ctx, u, m2, req)
	require.NoError(t, err)
	_, err = f.svc.Review.LikeReview(ctx, fan, first)
	require.NoError(t, err)

	stats, err := f.svc.Review.GetUserReviewStats(ctx, u.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ReviewCount)
	assert.Equal(t, int64(1), stats.TotalLikes)
	assert.InDelta(t, 7.0, stats.AvgDirectionScore, 0.001)
	assert.InDelta(t, 7.0, stats.AvgGeneralScore, 0.001)
	assert.InDelta(t, 8.0, stats.AvgCinematographyScore, 0.001)
}
