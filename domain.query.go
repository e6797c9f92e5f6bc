package main

import (
	"net/url"
	"strings"
)

// BookFilter holds the optional predicates of a books listing.
// Empty strings and a nil IsRead impose no constraint.
type BookFilter struct {
	Genre  string
	IsRead *string
	Author string
}

// BookFilterFromQuery builds the filter from the url query parameters.
// The isRead parameter counts as supplied even when its value is empty.
func BookFilterFromQuery(q url.Values) BookFilter {
	f := BookFilter{
		Genre:  q.Get("genre"),
		Author: q.Get("author"),
	}
	if q.Has("isRead") {
		v := q.Get("isRead")
		f.IsRead = &v
	}
	return f
}

// Match reports whether the book satisfies every supplied predicate.
// Only the exact text "true" selects read books, any other
// value of isRead selects unread ones.
func (f BookFilter) Match(b Book) bool {
	if f.Genre != "" && !strings.EqualFold(b.Genre, f.Genre) {
		return false
	}
	if f.IsRead != nil && b.IsRead != (*f.IsRead == "true") {
		return false
	}
	if f.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(f.Author)) {
		return false
	}
	return true
}

// Query returns the books matching the filter, keeping their order.
// The result is never nil.
func Query(books []Book, f BookFilter) []Book {
	matched := make([]Book, 0, len(books))
	for _, b := range books {
		if f.Match(b) {
			matched = append(matched, b)
		}
	}
	return matched
}
