package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMovieKeyRoundTrip(t *testing.T) {
	key := NewUserMovieKey(uuid.New(), uuid.New())

	parsed, err := ParseUserMovieKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}

func TestParseUserMovieKeyRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", uuid.NewString() + ":nope", "nope:" + uuid.NewString()} {
		_, err := ParseUserMovieKey(in)
		assert.Error(t, err, in)
	}
}

func TestUserMovieKeyCompare(t *testing.T) {
	u1 := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	u2 := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	m1 := uuid.MustParse("10000000-0000-0000-0000-000000000000")
	m2 := uuid.MustParse("20000000-0000-0000-0000-000000000000")

	assert.Negative(t, NewUserMovieKey(u1, m2).Compare(NewUserMovieKey(u2, m1)))
	assert.Negative(t, NewUserMovieKey(u1, m1).Compare(NewUserMovieKey(u1, m2)))
	assert.Zero(t, NewUserMovieKey(u1, m1).Compare(NewUserMovieKey(u1, m1)))
	assert.Positive(t, NewUserMovieKey(u2, m1).Compare(NewUserMovieKey(u1, m2)))
}
