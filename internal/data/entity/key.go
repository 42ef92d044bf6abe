package entity

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UserMovieKey binds a user to a movie. It identifies a WatchedRecord and,
// because a review is existence-bound to its watched record, the Review too.
type UserMovieKey struct {
	UserID  uuid.UUID `db:"user_id"`
	MovieID uuid.UUID `db:"movie_id"`
}

// ReviewID is the key of the watched record the review belongs to.
type ReviewID = UserMovieKey

func NewUserMovieKey(userID, movieID uuid.UUID) UserMovieKey {
	return UserMovieKey{UserID: userID, MovieID: movieID}
}

// String renders the key as "<userId>:<movieId>".
func (k UserMovieKey) String() string {
	return k.UserID.String() + ":" + k.MovieID.String()
}

// Compare orders keys by user id then movie id, byte-wise like Postgres uuid.
func (k UserMovieKey) Compare(o UserMovieKey) int {
	if c := bytes.Compare(k.UserID[:], o.UserID[:]); c != 0 {
		return c
	}
	return bytes.Compare(k.MovieID[:], o.MovieID[:])
}

func ParseUserMovieKey(s string) (UserMovieKey, error) {
	userPart, moviePart, ok := strings.Cut(s, ":")
	if !ok {
		return UserMovieKey{}, fmt.Errorf("invalid key %q: expected <userId>:<movieId>", s)
	}
	userID, err := uuid.Parse(userPart)
	if err != nil {
		return UserMovieKey{}, fmt.Errorf("invalid user ID in key %q: %w", s, err)
	}
	movieID, err := uuid.Parse(moviePart)
	if err != nil {
		return UserMovieKey{}, fmt.Errorf("invalid movie ID in key %q: %w", s, err)
	}
	return UserMovieKey{UserID: userID, MovieID: movieID}, nil
}

// FlagKey identifies one reporter's flag on one review.
type FlagKey struct {
	ReporterID uuid.UUID
	ReviewID   ReviewID
}
