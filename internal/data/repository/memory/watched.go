package memory

import (
	"context"
	"fmt"
	"slices"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"
	"film-catalog/pkg/utils"

	"github.com/google/uuid"
)

type watchedRepository struct{ s *Store }

func (r *watchedRepository) Create(ctx context.Context, record *entity.WatchedRecord) error {
	return r.s.write(ctx, func(t *tables) error {
		if _, ok := t.watched[record.UserMovieKey]; ok {
			return repository.ErrDuplicate
		}
		t.watched[record.UserMovieKey] = *record
		return nil
	})
}

func (r *watchedRepository) FindByKey(ctx context.Context, key entity.UserMovieKey) (*entity.WatchedRecord, error) {
	var record *entity.WatchedRecord
	r.s.read(ctx, func(t *tables) {
		if rec, ok := t.watched[key]; ok {
			record = &rec
		}
	})
	return record, nil
}

// FindByKeyForUpdate needs no row lock: transactions already run one at a time.
func (r *watchedRepository) FindByKeyForUpdate(ctx context.Context, key entity.UserMovieKey) (*entity.WatchedRecord, error) {
	return r.FindByKey(ctx, key)
}

func (r *watchedRepository) Exists(ctx context.Context, key entity.UserMovieKey) (bool, error) {
	var ok bool
	r.s.read(ctx, func(t *tables) { _, ok = t.watched[key] })
	return ok, nil
}

func (r *watchedRepository) Delete(ctx context.Context, key entity.UserMovieKey) error {
	return r.s.write(ctx, func(t *tables) error {
		if _, ok := t.watched[key]; !ok {
			return fmt.Errorf("watched record %s: %w", key.String(), repository.ErrNotFound)
		}
		if _, ok := t.reviews[key]; ok {
			return fmt.Errorf("watched record %s is still referenced by a review", key.String())
		}
		delete(t.watched, key)
		return nil
	})
}

func (r *watchedRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WatchedRecord, error) {
	var records []*entity.WatchedRecord
	r.s.read(ctx, func(t *tables) {
		for _, rec := range t.watched {
			if rec.UserID == userID {
				records = append(records, &rec)
			}
		}
	})

	slices.SortFunc(records, func(a, b *entity.WatchedRecord) int {
		if c := b.WatchedAt.Compare(a.WatchedAt); c != 0 {
			return c
		}
		return compareUUID(a.MovieID, b.MovieID)
	})

	return page(records, limit, offset), nil
}

func (r *watchedRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	r.s.read(ctx, func(t *tables) {
		for key := range t.watched {
			if key.UserID == userID {
				count++
			}
		}
	})
	return count, nil
}

// page applies LIMIT/OFFSET to an already sorted slice.
func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = len(items)
	}
	start, end := utils.PageBounds(len(items), offset, limit)
	if start == end {
		return nil
	}
	return items[start:end]
}
