package response

import (
	"time"

	"film-catalog/internal/data/entity"
)

type WatchlistEntryResponse struct {
	MovieID string    `json:"movie_id"`
	Watched bool      `json:"watched"`
	AddedAt time.Time `json:"added_at"`
}

type WatchlistResponse struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"user_id"`
	Name        string                   `json:"name"`
	Description *string                  `json:"description,omitempty"`
	Entries     []WatchlistEntryResponse `json:"entries,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type WatchlistContainsResponse struct {
	WatchlistID string `json:"watchlist_id"`
	MovieID     string `json:"movie_id"`
	Contains    bool   `json:"contains"`
}

type WatchlistClearedResponse struct {
	WatchlistID string `json:"watchlist_id"`
	Removed     int64  `json:"removed"`
}

func WatchlistToResponse(watchlist *entity.Watchlist) WatchlistResponse {
	resp := WatchlistResponse{
		ID:          watchlist.ID.String(),
		UserID:      watchlist.UserID.String(),
		Name:        watchlist.Name,
		Description: watchlist.Description,
		CreatedAt:   watchlist.CreatedAt,
		UpdatedAt:   watchlist.UpdatedAt,
	}
	for _, e := range watchlist.Entries {
		resp.Entries = append(resp.Entries, WatchlistEntryToResponse(&e))
	}
	return resp
}

func WatchlistEntryToResponse(entry *entity.WatchlistEntry) WatchlistEntryResponse {
	return WatchlistEntryResponse{
		MovieID: entry.MovieID.String(),
		Watched: entry.Watched,
		AddedAt: entry.AddedAt,
	}
}
