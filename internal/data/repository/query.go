package repository

import "strings"

type ReviewSort string

const (
	SortNewest       ReviewSort = "created_at"
	SortLikes        ReviewSort = "likes"
	SortGeneralScore ReviewSort = "general_score"
)

// ReviewQuery scopes a review listing.
type ReviewQuery struct {
	IncludeHidden bool
	Sort          ReviewSort
	Ascending     bool
	Limit         int
	Offset        int
}

// orderBy renders a whitelisted ORDER BY with the key as tie-break so pages
// stay stable.
func (q ReviewQuery) orderBy() string {
	column := "created_at"
	switch q.Sort {
	case SortLikes:
		column = "likes_count"
	case SortGeneralScore:
		column = "general_score"
	}

	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}

	var b strings.Builder
	b.WriteString("ORDER BY ")
	b.WriteString(column)
	b.WriteString(" ")
	b.WriteString(dir)
	b.WriteString(", user_id ASC, movie_id ASC")
	return b.String()
}
