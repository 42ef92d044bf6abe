package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryInt(t *testing.T) {
	query := url.Values{"page": {"3"}, "per_page": {"0"}, "sort": {"x"}}

	assert.Equal(t, 3, QueryInt(query, "page", 1))
	assert.Equal(t, 10, QueryInt(query, "per_page", 10))
	assert.Equal(t, 1, QueryInt(query, "sort", 1))
	assert.Equal(t, 7, QueryInt(query, "missing", 7))
}

func TestQueryIntStrict(t *testing.T) {
	query := url.Values{"min_flags": {"0"}, "bad": {"many"}}

	n, err := QueryIntStrict(query, "min_flags", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = QueryIntStrict(query, "missing", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = QueryIntStrict(query, "bad", 1)
	assert.EqualError(t, err, "bad must be an integer")
}
