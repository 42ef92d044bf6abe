package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReview(t *testing.T, repo *repository.Repository, key entity.UserMovieKey) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.Watched.Create(ctx, &entity.WatchedRecord{UserMovieKey: key, WatchedAt: now}))
	require.NoError(t, repo.Review.Create(ctx, &entity.Review{
		ID:        key,
		Content:   "Worth a rewatch.",
		Scores:    entity.Scores{Direction: 7, Screenplay: 6, Cinematography: 9, General: 7},
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestWithinTxRollsBackAllWrites(t *testing.T) {
	store := New()
	repo := store.Repository()
	key := entity.NewUserMovieKey(uuid.New(), uuid.New())
	boom := errors.New("boom")

	err := store.Transactor().WithinTx(context.Background(), func(ctx context.Context) error {
		if err := repo.Watched.Create(ctx, &entity.WatchedRecord{UserMovieKey: key, WatchedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	exists, err := repo.Watched.Exists(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReviewCreateRequiresWatchedRecord(t *testing.T) {
	repo := New().Repository()

	err := repo.Review.Create(context.Background(), &entity.Review{
		ID: entity.NewUserMovieKey(uuid.New(), uuid.New()),
	})

	assert.Error(t, err)
}

func TestWatchedDeleteRestrictedByReview(t *testing.T) {
	repo := New().Repository()
	key := entity.NewUserMovieKey(uuid.New(), uuid.New())
	seedReview(t, repo, key)

	assert.Error(t, repo.Watched.Delete(context.Background(), key))

	require.NoError(t, repo.Review.Delete(context.Background(), key))
	assert.NoError(t, repo.Watched.Delete(context.Background(), key))
}

func TestReviewDeleteCascadesFlags(t *testing.T) {
	repo := New().Repository()
	ctx := context.Background()
	key := entity.NewUserMovieKey(uuid.New(), uuid.New())
	seedReview(t, repo, key)

	require.NoError(t, repo.Flag.Create(ctx, &entity.Flag{ReporterID: uuid.New(), ReviewID: key, Reason: "spam"}))
	require.NoError(t, repo.Review.Delete(ctx, key))

	count, err := repo.Flag.CountByReview(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConcurrentIncrementLikes(t *testing.T) {
	repo := New().Repository()
	key := entity.NewUserMovieKey(uuid.New(), uuid.New())
	seedReview(t, repo, key)

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Review.IncrementLikes(context.Background(), key)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	review, err := repo.Review.FindByID(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(n), review.LikesCount)
}

func TestFindHeavilyFlaggedOrdering(t *testing.T) {
	repo := New().Repository()
	ctx := context.Background()
	movieID := uuid.New()

	keys := make([]entity.UserMovieKey, 3)
	for i := range keys {
		keys[i] = entity.NewUserMovieKey(uuid.New(), movieID)
		seedReview(t, repo, keys[i])
	}
	flag := func(key entity.UserMovieKey, times int) {
		for range times {
			require.NoError(t, repo.Flag.Create(ctx, &entity.Flag{ReporterID: uuid.New(), ReviewID: key, Reason: "spam"}))
		}
	}
	flag(keys[0], 2)
	flag(keys[1], 5)
	flag(keys[2], 2)

	flagged, err := repo.Review.FindHeavilyFlagged(ctx, 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, flagged, 3)
	assert.Equal(t, keys[1], flagged[0].ID)
	assert.Equal(t, int64(5), flagged[0].FlagCount)
	assert.Negative(t, flagged[1].ID.Compare(flagged[2].ID))

	count, err := repo.Review.CountHeavilyFlagged(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestWatchlistAddEntryIsIdempotent(t *testing.T) {
	repo := New().Repository()
	ctx := context.Background()
	wl := &entity.Watchlist{UserID: uuid.New(), Name: "Weekend"}
	wl.ID = uuid.New()
	require.NoError(t, repo.Watchlist.Create(ctx, wl))

	entry := &entity.WatchlistEntry{WatchlistID: wl.ID, MovieID: uuid.New(), AddedAt: time.Now()}
	added, err := repo.Watchlist.AddEntry(ctx, entry)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Watchlist.AddEntry(ctx, entry)
	require.NoError(t, err)
	assert.False(t, added)

	found, err := repo.Watchlist.FindByID(ctx, wl.ID)
	require.NoError(t, err)
	assert.Len(t, found.Entries, 1)
}

func TestReadWaitsForOpenTransaction(t *testing.T) {
	store := New()
	repo := store.Repository()
	key := entity.NewUserMovieKey(uuid.New(), uuid.New())

	written := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- store.Transactor().WithinTx(context.Background(), func(ctx context.Context) error {
			if err := repo.Watched.Create(ctx, &entity.WatchedRecord{UserMovieKey: key, WatchedAt: time.Now()}); err != nil {
				return err
			}
			exists, err := repo.Watched.Exists(ctx, key)
			if err != nil {
				return err
			}
			if !exists {
				return errors.New("own write not visible inside transaction")
			}
			close(written)
			<-release
			return nil
		})
	}()
	<-written

	seen := make(chan bool, 1)
	go func() {
		exists, err := repo.Watched.Exists(context.Background(), key)
		assert.NoError(t, err)
		seen <- exists
	}()

	select {
	case <-seen:
		t.Fatal("read returned while the transaction was still open")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-txDone)
	assert.True(t, <-seen)
}
