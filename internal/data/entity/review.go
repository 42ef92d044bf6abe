package entity

import (
	"time"

	"github.com/google/uuid"
)

type Scores struct {
	Direction      int `db:"direction_score"`
	Screenplay     int `db:"screenplay_score"`
	Cinematography int `db:"cinematography_score"`
	General        int `db:"general_score"`
}

// Review shares its key with the WatchedRecord it was written for.
type Review struct {
	ID         ReviewID
	Content    string `db:"content"`
	Scores     Scores
	LikesCount int64     `db:"likes_count"`
	Hidden     bool      `db:"hidden"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *Review) AuthorID() uuid.UUID {
	return r.ID.UserID
}

func (r *Review) MovieID() uuid.UUID {
	return r.ID.MovieID
}

// FlaggedReview pairs a review with its current flag count.
type FlaggedReview struct {
	Review
	FlagCount int64 `db:"flag_count"`
}

// ReviewStats aggregates one author's reviews.
type ReviewStats struct {
	ReviewCount            int64   `db:"review_count"`
	TotalLikes             int64   `db:"total_likes"`
	AvgDirectionScore      float64 `db:"avg_direction"`
	AvgScreenplayScore     float64 `db:"avg_screenplay"`
	AvgCinematographyScore float64 `db:"avg_cinematography"`
	AvgGeneralScore        float64 `db:"avg_general"`
}
