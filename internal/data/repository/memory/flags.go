package memory

import (
	"context"
	"fmt"
	"slices"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"
)

type flagRepository struct{ s *Store }

func (r *flagRepository) Create(ctx context.Context, flag *entity.Flag) error {
	return r.s.write(ctx, func(t *tables) error {
		key := flag.Key()
		if _, ok := t.flags[key]; ok {
			return repository.ErrDuplicate
		}
		if _, ok := t.reviews[flag.ReviewID]; !ok {
			return fmt.Errorf("flag references missing review %s", flag.ReviewID.String())
		}
		if flag.ReporterID == flag.ReviewID.UserID {
			return fmt.Errorf("reporter %s cannot flag their own review", flag.ReporterID.String())
		}
		t.flags[key] = *flag
		return nil
	})
}

func (r *flagRepository) Exists(ctx context.Context, key entity.FlagKey) (bool, error) {
	var ok bool
	r.s.read(ctx, func(t *tables) { _, ok = t.flags[key] })
	return ok, nil
}

func (r *flagRepository) CountByReview(ctx context.Context, reviewID entity.ReviewID) (int64, error) {
	var count int64
	r.s.read(ctx, func(t *tables) {
		for key := range t.flags {
			if key.ReviewID == reviewID {
				count++
			}
		}
	})
	return count, nil
}

func (r *flagRepository) FindByReview(ctx context.Context, reviewID entity.ReviewID, limit, offset int) ([]*entity.Flag, error) {
	var flags []*entity.Flag
	r.s.read(ctx, func(t *tables) {
		for key, flag := range t.flags {
			if key.ReviewID == reviewID {
				flags = append(flags, &flag)
			}
		}
	})

	slices.SortFunc(flags, func(a, b *entity.Flag) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareUUID(a.ReporterID, b.ReporterID)
	})

	return page(flags, limit, offset), nil
}
