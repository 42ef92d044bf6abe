package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type reviewRepository struct{ s *Store }

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.s.write(ctx, func(t *tables) error {
		if _, ok := t.reviews[review.ID]; ok {
			return repository.ErrDuplicate
		}
		if _, ok := t.watched[review.ID]; !ok {
			return fmt.Errorf("review %s has no watched record", review.ID.String())
		}
		t.reviews[review.ID] = *review
		return nil
	})
}

func (r *reviewRepository) FindByID(ctx context.Context, id entity.ReviewID) (*entity.Review, error) {
	var review *entity.Review
	r.s.read(ctx, func(t *tables) {
		if rv, ok := t.reviews[id]; ok {
			review = &rv
		}
	})
	return review, nil
}

func (r *reviewRepository) FindByIDForUpdate(ctx context.Context, id entity.ReviewID) (*entity.Review, error) {
	return r.FindByID(ctx, id)
}

func (r *reviewRepository) Exists(ctx context.Context, id entity.ReviewID) (bool, error) {
	var ok bool
	r.s.read(ctx, func(t *tables) { _, ok = t.reviews[id] })
	return ok, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	return r.s.write(ctx, func(t *tables) error {
		stored, ok := t.reviews[review.ID]
		if !ok {
			return fmt.Errorf("review %s: %w", review.ID.String(), repository.ErrNotFound)
		}
		stored.Content = review.Content
		stored.Scores = review.Scores
		stored.UpdatedAt = review.UpdatedAt
		t.reviews[review.ID] = stored
		return nil
	})
}

// Delete removes the review and its flags.
func (r *reviewRepository) Delete(ctx context.Context, id entity.ReviewID) error {
	return r.s.write(ctx, func(t *tables) error {
		if _, ok := t.reviews[id]; !ok {
			return fmt.Errorf("review %s: %w", id.String(), repository.ErrNotFound)
		}
		delete(t.reviews, id)
		for key := range t.flags {
			if key.ReviewID == id {
				delete(t.flags, key)
			}
		}
		return nil
	})
}

func (r *reviewRepository) IncrementLikes(ctx context.Context, id entity.ReviewID) (*entity.Review, error) {
	var review *entity.Review
	err := r.s.write(ctx, func(t *tables) error {
		stored, ok := t.reviews[id]
		if !ok {
			return nil
		}
		stored.LikesCount++
		t.reviews[id] = stored
		review = &stored
		return nil
	})
	return review, err
}

func (r *reviewRepository) SetHidden(ctx context.Context, id entity.ReviewID, hidden bool) error {
	return r.s.write(ctx, func(t *tables) error {
		stored, ok := t.reviews[id]
		if !ok {
			return fmt.Errorf("review %s: %w", id.String(), repository.ErrNotFound)
		}
		stored.Hidden = hidden
		t.reviews[id] = stored
		return nil
	})
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID, q repository.ReviewQuery) ([]*entity.Review, error) {
	reviews := r.filter(ctx, func(rv entity.Review) bool {
		return rv.ID.MovieID == movieID && (q.IncludeHidden || !rv.Hidden)
	})
	sortReviews(reviews, q)
	return page(reviews, q.Limit, q.Offset), nil
}

func (r *reviewRepository) CountByMovieID(ctx context.Context, movieID uuid.UUID, includeHidden bool) (int64, error) {
	return int64(len(r.filter(ctx, func(rv entity.Review) bool {
		return rv.ID.MovieID == movieID && (includeHidden || !rv.Hidden)
	}))), nil
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID, q repository.ReviewQuery) ([]*entity.Review, error) {
	reviews := r.filter(ctx, func(rv entity.Review) bool {
		return rv.ID.UserID == userID && (q.IncludeHidden || !rv.Hidden)
	})
	sortReviews(reviews, q)
	return page(reviews, q.Limit, q.Offset), nil
}

func (r *reviewRepository) CountByUserID(ctx context.Context, userID uuid.UUID, includeHidden bool) (int64, error) {
	return int64(len(r.filter(ctx, func(rv entity.Review) bool {
		return rv.ID.UserID == userID && (includeHidden || !rv.Hidden)
	}))), nil
}

func (r *reviewRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (*entity.ReviewStats, error) {
	reviews := r.filter(ctx, func(rv entity.Review) bool { return rv.ID.UserID == userID })

	stats := &entity.ReviewStats{ReviewCount: int64(len(reviews))}
	if len(reviews) == 0 {
		return stats, nil
	}

	var direction, screenplay, cinematography, general int
	for _, rv := range reviews {
		stats.TotalLikes += rv.LikesCount
		direction += rv.Scores.Direction
		screenplay += rv.Scores.Screenplay
		cinematography += rv.Scores.Cinematography
		general += rv.Scores.General
	}

	n := float64(len(reviews))
	stats.AvgDirectionScore = float64(direction) / n
	stats.AvgScreenplayScore = float64(screenplay) / n
	stats.AvgCinematographyScore = float64(cinematography) / n
	stats.AvgGeneralScore = float64(general) / n
	return stats, nil
}

func (r *reviewRepository) FindHeavilyFlagged(ctx context.Context, minFlags int64, limit, offset int) ([]*entity.FlaggedReview, error) {
	var flagged []*entity.FlaggedReview
	r.s.read(ctx, func(t *tables) {
		for id, count := range flagCounts(t) {
			if count >= minFlags {
				flagged = append(flagged, &entity.FlaggedReview{Review: t.reviews[id], FlagCount: count})
			}
		}
	})

	slices.SortFunc(flagged, func(a, b *entity.FlaggedReview) int {
		if c := cmp.Compare(b.FlagCount, a.FlagCount); c != 0 {
			return c
		}
		return a.ID.Compare(b.ID)
	})

	return page(flagged, limit, offset), nil
}

func (r *reviewRepository) CountHeavilyFlagged(ctx context.Context, minFlags int64) (int64, error) {
	var count int64
	r.s.read(ctx, func(t *tables) {
		for _, n := range flagCounts(t) {
			if n >= minFlags {
				count++
			}
		}
	})
	return count, nil
}

func (r *reviewRepository) filter(ctx context.Context, keep func(entity.Review) bool) []*entity.Review {
	var reviews []*entity.Review
	r.s.read(ctx, func(t *tables) {
		for _, rv := range t.reviews {
			if keep(rv) {
				reviews = append(reviews, &rv)
			}
		}
	})
	return reviews
}

func flagCounts(t *tables) map[entity.ReviewID]int64 {
	counts := make(map[entity.ReviewID]int64)
	for key := range t.flags {
		counts[key.ReviewID]++
	}
	return counts
}

// sortReviews mirrors ReviewQuery's ORDER BY: the chosen column, then the key.
func sortReviews(reviews []*entity.Review, q repository.ReviewQuery) {
	slices.SortFunc(reviews, func(a, b *entity.Review) int {
		var c int
		switch q.Sort {
		case repository.SortLikes:
			c = cmp.Compare(a.LikesCount, b.LikesCount)
		case repository.SortGeneralScore:
			c = cmp.Compare(a.Scores.General, b.Scores.General)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if !q.Ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return a.ID.Compare(b.ID)
	})
}
