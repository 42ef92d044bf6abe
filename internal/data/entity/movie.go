package entity

// Movie is owned by the catalog; this service only reads it.
type Movie struct {
	Row
	Title           string   `db:"title" json:"title"`
	Synopsis        *string  `db:"synopsis" json:"synopsis,omitempty"`
	ReleaseYear     int      `db:"release_year" json:"release_year"`
	DurationMinutes int      `db:"duration_minutes" json:"duration_minutes"`
	ContentRating   string   `db:"content_rating" json:"content_rating"`
	Genres          []string `json:"genres,omitempty"`
}
