package response

import (
	"time"

	"film-catalog/internal/data/entity"
)

type WatchedResponse struct {
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	WatchedAt time.Time `json:"watched_at"`
}

type WatchedStatusResponse struct {
	MovieID string `json:"movie_id"`
	Watched bool   `json:"watched"`
}

func WatchedToResponse(record *entity.WatchedRecord) WatchedResponse {
	return WatchedResponse{
		UserID:    record.UserID.String(),
		MovieID:   record.MovieID.String(),
		WatchedAt: record.WatchedAt,
	}
}
