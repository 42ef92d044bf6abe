package response

import (
	"time"

	"film-catalog/internal/data/entity"
)

type ScoresResponse struct {
	Direction      int `json:"direction"`
	Screenplay     int `json:"screenplay"`
	Cinematography int `json:"cinematography"`
	General        int `json:"general"`
}

type ReviewResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	MovieID    string         `json:"movie_id"`
	Content    string         `json:"content"`
	Scores     ScoresResponse `json:"scores"`
	LikesCount int64          `json:"likes_count"`
	Hidden     bool           `json:"hidden"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type FlaggedReviewResponse struct {
	ReviewResponse
	FlagCount int64 `json:"flag_count"`
}

type FlagResponse struct {
	ReporterID string    `json:"reporter_id"`
	ReviewID   string    `json:"review_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	FlagCount  int64     `json:"flag_count,omitempty"`
	AutoHidden bool      `json:"auto_hidden,omitempty"`
}

type ReviewStatsResponse struct {
	UserID                 string  `json:"user_id"`
	ReviewCount            int64   `json:"review_count"`
	TotalLikes             int64   `json:"total_likes"`
	AvgDirectionScore      float64 `json:"avg_direction_score"`
	AvgScreenplayScore     float64 `json:"avg_screenplay_score"`
	AvgCinematographyScore float64 `json:"avg_cinematography_score"`
	AvgGeneralScore        float64 `json:"avg_general_score"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID.String(),
		UserID:  review.ID.UserID.String(),
		MovieID: review.ID.MovieID.String(),
		Content: review.Content,
		Scores: ScoresResponse{
			Direction:      review.Scores.Direction,
			Screenplay:     review.Scores.Screenplay,
			Cinematography: review.Scores.Cinematography,
			General:        review.Scores.General,
		},
		LikesCount: review.LikesCount,
		Hidden:     review.Hidden,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
}

func FlagToResponse(flag *entity.Flag) FlagResponse {
	return FlagResponse{
		ReporterID: flag.ReporterID.String(),
		ReviewID:   flag.ReviewID.String(),
		Reason:     flag.Reason,
		CreatedAt:  flag.CreatedAt,
	}
}
