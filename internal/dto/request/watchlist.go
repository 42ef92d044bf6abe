package request

type CreateWatchlistRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type UpdateWatchlistRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type WatchlistMovieRequest struct {
	MovieID string `json:"movie_id" validate:"required,uuid"`
}
