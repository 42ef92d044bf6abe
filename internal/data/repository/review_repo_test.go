package repository

import (
	"context"
	"testing"
	"time"

	"film-catalog/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var reviewCols = []string{
	"user_id", "movie_id", "content", "direction_score", "screenplay_score",
	"cinematography_score", "general_score", "likes_count", "hidden", "created_at", "updated_at",
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestReviewRepositoryFindByIDNoRows(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))
	id := entity.NewUserMovieKey(uuid.New(), uuid.New())

	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE user_id = \\$1 AND movie_id = \\$2").
		WithArgs(id.UserID, id.MovieID).
		WillReturnError(pgx.ErrNoRows)

	review, err := repo.FindByID(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, review)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryCreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))
	now := time.Now()
	review := &entity.Review{
		ID:        entity.NewUserMovieKey(uuid.New(), uuid.New()),
		Content:   "Slow start, strong finish.",
		Scores:    entity.Scores{Direction: 8, Screenplay: 7, Cinematography: 9, General: 8},
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), review)

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryIncrementLikes(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))
	id := entity.NewUserMovieKey(uuid.New(), uuid.New())
	now := time.Now()

	mock.ExpectQuery("UPDATE reviews SET likes_count = likes_count \\+ 1").
		WithArgs(id.UserID, id.MovieID).
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(id.UserID, id.MovieID, "Great", 7, 7, 7, 7, int64(4), false, now, now))

	review, err := repo.IncrementLikes(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, int64(4), review.LikesCount)
	assert.Equal(t, id, review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryIncrementLikesMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))
	id := entity.NewUserMovieKey(uuid.New(), uuid.New())

	mock.ExpectQuery("UPDATE reviews SET likes_count").
		WithArgs(id.UserID, id.MovieID).
		WillReturnError(pgx.ErrNoRows)

	review, err := repo.IncrementLikes(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, review)
}

func TestReviewRepositorySetHiddenMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))
	id := entity.NewUserMovieKey(uuid.New(), uuid.New())

	mock.ExpectExec("UPDATE reviews SET hidden").
		WithArgs(id.UserID, id.MovieID, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetHidden(context.Background(), id, true)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewRepositoryFindByMovieIDOrdersWithTieBreak(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))
	movieID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("ORDER BY likes_count DESC, user_id ASC, movie_id ASC").
		WithArgs(movieID, false, 10, 0).
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(uuid.New(), movieID, "a", 5, 5, 5, 5, int64(3), false, now, now).
			AddRow(uuid.New(), movieID, "b", 6, 6, 6, 6, int64(1), false, now, now))

	reviews, err := repo.FindByMovieID(context.Background(), movieID, ReviewQuery{
		Sort:  SortLikes,
		Limit: 10,
	})

	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, "a", reviews[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryFindHeavilyFlagged(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))
	now := time.Now()
	cols := append(append([]string{}, reviewCols...), "flag_count")

	mock.ExpectQuery("HAVING COUNT\\(f.reporter_id\\) >= \\$1").
		WithArgs(int64(3), 20, 0).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(uuid.New(), uuid.New(), "spam", 1, 1, 1, 1, int64(0), true, now, now, int64(12)))

	flagged, err := repo.FindHeavilyFlagged(context.Background(), 3, 20, 0)

	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, int64(12), flagged[0].FlagCount)
	assert.True(t, flagged[0].Hidden)
}

func TestFlagRepositoryCreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFlagRepository(mock, zaptest.NewLogger(t))

	mock.ExpectExec("INSERT INTO review_flags").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.Flag{
		ReporterID: uuid.New(),
		ReviewID:   entity.NewUserMovieKey(uuid.New(), uuid.New()),
		Reason:     "spoilers",
		CreatedAt:  time.Now(),
	})

	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestWatchlistRepositoryAddEntryIdempotent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWatchlistRepository(mock, zaptest.NewLogger(t))
	entry := &entity.WatchlistEntry{WatchlistID: uuid.New(), MovieID: uuid.New(), AddedAt: time.Now()}

	mock.ExpectExec("ON CONFLICT \\(watchlist_id, movie_id\\) DO NOTHING").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("ON CONFLICT \\(watchlist_id, movie_id\\) DO NOTHING").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	added, err := repo.AddEntry(context.Background(), entry)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddEntry(context.Background(), entry)
	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryFindByIDForUpdateLocksRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))
	id := entity.NewUserMovieKey(uuid.New(), uuid.New())
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE user_id = \\$1 AND movie_id = \\$2 FOR UPDATE").
		WithArgs(id.UserID, id.MovieID).
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(id.UserID, id.MovieID, "Tense.", 7, 7, 8, 7, int64(3), false, now, now))

	review, err := repo.FindByIDForUpdate(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, id, review.ID)
	assert.EqualValues(t, 3, review.LikesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchedRepositoryCreateMissingMovie(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWatchedRepository(mock, zaptest.NewLogger(t))
	record := &entity.WatchedRecord{
		UserMovieKey: entity.NewUserMovieKey(uuid.New(), uuid.New()),
		WatchedAt:    time.Now(),
	}

	mock.ExpectExec("INSERT INTO watched_records").
		WithArgs(record.UserID, record.MovieID, record.WatchedAt).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), record)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchlistRepositoryAddEntryMissingMovie(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWatchlistRepository(mock, zaptest.NewLogger(t))
	entry := &entity.WatchlistEntry{WatchlistID: uuid.New(), MovieID: uuid.New(), AddedAt: time.Now()}

	mock.ExpectExec("INSERT INTO watchlist_entries").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	added, err := repo.AddEntry(context.Background(), entry)

	assert.False(t, added)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
