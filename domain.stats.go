package main

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// RecentWindowDays is the size of the trailing window used for `recentlyAdded`.
const RecentWindowDays = 30

// NoGenre is reported as the most popular genre of an empty library.
const NoGenre = "None"

// Stats is the aggregated summary of the library.
type Stats struct {
	Summary  SummaryStats  `json:"summary"`
	Ratings  RatingStats   `json:"ratings"`
	Genres   GenreStats    `json:"genres"`
	Activity ActivityStats `json:"activity"`
}

type SummaryStats struct {
	TotalBooks      int `json:"totalBooks"`
	ReadBooks       int `json:"readBooks"`
	UnreadBooks     int `json:"unreadBooks"`
	ReadingProgress int `json:"readingProgress"`
}

type RatingStats struct {
	AverageRating float64 `json:"averageRating"`
	RatedBooks    int     `json:"ratedBooks"`
	UnratedBooks  int     `json:"unratedBooks"`
}

type GenreStats struct {
	Breakdown   GenreBreakdown `json:"breakdown"`
	MostPopular string         `json:"mostPopular"`
}

type ActivityStats struct {
	RecentlyAdded int `json:"recentlyAdded"`
}

// GenreCount is the number of books of a genre.
type GenreCount struct {
	Genre string
	Count int
}

// GenreBreakdown lists genre counts in order of first occurrence.
// It is encoded as a json object which keeps that order.
type GenreBreakdown []GenreCount

// Count returns the number of books of the given genre.
func (gb GenreBreakdown) Count(genre string) int {
	for _, gc := range gb {
		if gc.Genre == genre {
			return gc.Count
		}
	}
	return 0
}

func (gb GenreBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, gc := range gb {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(gc.Genre)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(gc.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summarize computes the library statistics over books at the instant now.
func Summarize(books []Book, now time.Time) Stats {
	var stats Stats
	total := len(books)

	read, rated, ratingSum, recent := 0, 0, 0, 0
	cutoff := now.AddDate(0, 0, -RecentWindowDays)
	breakdown := GenreBreakdown{}
	index := make(map[string]int)

	for _, b := range books {
		if b.IsRead {
			read++
		}
		if b.Rating != nil {
			rated++
			ratingSum += *b.Rating
		}

		if i, ok := index[b.Genre]; ok {
			breakdown[i].Count++
		} else {
			index[b.Genre] = len(breakdown)
			breakdown = append(breakdown, GenreCount{Genre: b.Genre, Count: 1})
		}

		// unparsable dates never count as recent.
		if added, err := time.Parse(DateLayout, b.DateAdded); err == nil && !added.Before(cutoff) {
			recent++
		}
	}

	stats.Summary = SummaryStats{
		TotalBooks:  total,
		ReadBooks:   read,
		UnreadBooks: total - read,
	}
	if total > 0 {
		stats.Summary.ReadingProgress = int(math.Round(float64(read) / float64(total) * 100))
	}

	stats.Ratings = RatingStats{RatedBooks: rated, UnratedBooks: total - rated}
	if rated > 0 {
		stats.Ratings.AverageRating = math.Round(float64(ratingSum)/float64(rated)*10) / 10
	}

	stats.Genres = GenreStats{Breakdown: breakdown, MostPopular: mostPopularGenre(breakdown)}
	stats.Activity = ActivityStats{RecentlyAdded: recent}
	return stats
}

// mostPopularGenre walks the breakdown in order. A later genre takes
// the lead only when its count is strictly greater.
func mostPopularGenre(breakdown GenreBreakdown) string {
	if len(breakdown) == 0 {
		return NoGenre
	}
	leader := breakdown[0]
	for _, gc := range breakdown[1:] {
		if gc.Count > leader.Count {
			leader = gc
		}
	}
	return leader.Genre
}
