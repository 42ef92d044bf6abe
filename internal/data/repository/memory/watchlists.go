package memory

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type watchlistRepository struct{ s *Store }

func (r *watchlistRepository) Create(ctx context.Context, watchlist *entity.Watchlist) error {
	return r.s.write(ctx, func(t *tables) error {
		if _, ok := t.watchlists[watchlist.ID]; ok {
			return repository.ErrDuplicate
		}
		stored := *watchlist
		stored.Entries = nil
		t.watchlists[watchlist.ID] = stored
		t.entries[watchlist.ID] = make(map[uuid.UUID]entity.WatchlistEntry)
		return nil
	})
}

func (r *watchlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Watchlist, error) {
	var watchlist *entity.Watchlist
	r.s.read(ctx, func(t *tables) {
		wl, ok := t.watchlists[id]
		if !ok {
			return
		}
		wl.Entries = sortedEntries(t.entries[id])
		watchlist = &wl
	})
	return watchlist, nil
}

func (r *watchlistRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Watchlist, error) {
	return r.FindByID(ctx, id)
}

func (r *watchlistRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Watchlist, error) {
	var watchlists []*entity.Watchlist
	r.s.read(ctx, func(t *tables) {
		for _, wl := range t.watchlists {
			if wl.UserID == userID {
				watchlists = append(watchlists, &wl)
			}
		}
	})

	slices.SortFunc(watchlists, func(a, b *entity.Watchlist) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareUUID(a.ID, b.ID)
	})

	return page(watchlists, limit, offset), nil
}

func (r *watchlistRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	r.s.read(ctx, func(t *tables) {
		for _, wl := range t.watchlists {
			if wl.UserID == userID {
				count++
			}
		}
	})
	return count, nil
}

func (r *watchlistRepository) Update(ctx context.Context, watchlist *entity.Watchlist) error {
	return r.s.write(ctx, func(t *tables) error {
		stored, ok := t.watchlists[watchlist.ID]
		if !ok {
			return fmt.Errorf("watchlist %s: %w", watchlist.ID.String(), repository.ErrNotFound)
		}
		stored.Name = watchlist.Name
		stored.Description = watchlist.Description
		stored.UpdatedAt = watchlist.UpdatedAt
		t.watchlists[watchlist.ID] = stored
		return nil
	})
}

func (r *watchlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(t *tables) error {
		if _, ok := t.watchlists[id]; !ok {
			return fmt.Errorf("watchlist %s: %w", id.String(), repository.ErrNotFound)
		}
		delete(t.watchlists, id)
		delete(t.entries, id)
		return nil
	})
}

func (r *watchlistRepository) AddEntry(ctx context.Context, entry *entity.WatchlistEntry) (bool, error) {
	var added bool
	err := r.s.write(ctx, func(t *tables) error {
		entries, ok := t.entries[entry.WatchlistID]
		if !ok {
			return fmt.Errorf("watchlist %s: %w", entry.WatchlistID.String(), repository.ErrNotFound)
		}
		if _, exists := entries[entry.MovieID]; exists {
			return nil
		}
		entries[entry.MovieID] = *entry
		added = true
		return nil
	})
	return added, err
}

func (r *watchlistRepository) FindEntry(ctx context.Context, watchlistID, movieID uuid.UUID) (*entity.WatchlistEntry, error) {
	var entry *entity.WatchlistEntry
	r.s.read(ctx, func(t *tables) {
		if e, ok := t.entries[watchlistID][movieID]; ok {
			entry = &e
		}
	})
	return entry, nil
}

func (r *watchlistRepository) RemoveEntry(ctx context.Context, watchlistID, movieID uuid.UUID) (bool, error) {
	var removed bool
	err := r.s.write(ctx, func(t *tables) error {
		if _, ok := t.entries[watchlistID][movieID]; ok {
			delete(t.entries[watchlistID], movieID)
			removed = true
		}
		return nil
	})
	return removed, err
}

func (r *watchlistRepository) RemoveAllEntries(ctx context.Context, watchlistID uuid.UUID) (int64, error) {
	var removed int64
	err := r.s.write(ctx, func(t *tables) error {
		entries, ok := t.entries[watchlistID]
		if !ok {
			return nil
		}
		removed = int64(len(entries))
		t.entries[watchlistID] = make(map[uuid.UUID]entity.WatchlistEntry)
		return nil
	})
	return removed, err
}

func (r *watchlistRepository) MarkEntryWatched(ctx context.Context, watchlistID, movieID uuid.UUID) (bool, error) {
	var changed bool
	err := r.s.write(ctx, func(t *tables) error {
		entry, ok := t.entries[watchlistID][movieID]
		if !ok || entry.Watched {
			return nil
		}
		entry.Watched = true
		t.entries[watchlistID][movieID] = entry
		changed = true
		return nil
	})
	return changed, err
}

func sortedEntries(entries map[uuid.UUID]entity.WatchlistEntry) []entity.WatchlistEntry {
	out := make([]entity.WatchlistEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b entity.WatchlistEntry) int {
		if c := a.AddedAt.Compare(b.AddedAt); c != 0 {
			return c
		}
		return compareUUID(a.MovieID, b.MovieID)
	})
	return out
}

func compareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
