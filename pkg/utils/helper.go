package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

// QueryInt reads a positive integer query parameter. Missing, malformed
// and non-positive values fall back to def.
func QueryInt(query url.Values, key string, def int) int {
	n, err := strconv.Atoi(query.Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// QueryIntStrict is QueryInt without the silent fallback: only a missing
// parameter yields def, anything unparsable is an error. Range checks are
// left to the caller.
func QueryIntStrict(query url.Values, key string, def int) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
