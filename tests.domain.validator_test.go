package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validatorNow = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

func validPayload() BookPayload {
	return BookPayload{
		Title:  "Dune",
		Author: "Frank Herbert",
		Genre:  "Sci-Fi",
		Year:   float64(1965),
	}
}

// TestValidateRequiredFields ensures any falsy required field fails with a single report.
func TestValidateRequiredFields(t *testing.T) {
	assert.NoError(t, ValidateRequiredFields(validPayload()))

	testCases := []struct {
		name   string
		mutate func(p *BookPayload)
	}{
		{"missing title", func(p *BookPayload) { p.Title = nil }},
		{"empty author", func(p *BookPayload) { p.Author = "" }},
		{"false genre", func(p *BookPayload) { p.Genre = false }},
		{"zero year", func(p *BookPayload) { p.Year = float64(0) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			tc.mutate(&p)
			err := ValidateRequiredFields(p)
			require.Error(t, err)
			assert.Equal(t, MissingField, KindOf(err))
			assert.Equal(t, "Title, author, genre, and year are required", err.Error())
		})
	}
}

// TestValidateRequiredText ensures text fields are trimmed and must carry content.
func TestValidateRequiredText(t *testing.T) {
	s, err := ValidateRequiredText("Title", "  Dune  ")
	require.NoError(t, err)
	assert.Equal(t, "Dune", s)

	_, err = ValidateRequiredText("Title", "   ")
	require.Error(t, err)
	assert.Equal(t, EmptyString, KindOf(err))
	assert.Equal(t, "Title must be a non-empty string", err.Error())

	_, err = ValidateRequiredText("Author", float64(42))
	require.Error(t, err)
	assert.Equal(t, "Author must be a non-empty string", err.Error())
}

// TestValidateGenre ensures only the listed genres are accepted, case-sensitively.
func TestValidateGenre(t *testing.T) {
	for _, g := range Genres {
		got, err := ValidateGenre(g)
		assert.NoError(t, err)
		assert.Equal(t, g, got)
	}

	for _, v := range []any{"fiction", "Poetry", float64(1), "Sci Fi"} {
		_, err := ValidateGenre(v)
		require.Error(t, err)
		assert.Equal(t, InvalidGenre, KindOf(err))
		assert.Equal(t, "Genre must be one of: Fiction, Non-Fiction, Mystery, Romance, Sci-Fi, Biography", err.Error())
	}
}

// TestValidateYear ensures the year is a whole number between 1000 and the current year.
func TestValidateYear(t *testing.T) {
	for _, v := range []any{float64(1000), float64(1965), float64(2024), 1999} {
		_, err := ValidateYear(v, validatorNow)
		assert.NoError(t, err, v)
	}

	for _, v := range []any{float64(999), float64(2025), float64(1965.5), "1965"} {
		_, err := ValidateYear(v, validatorNow)
		require.Error(t, err, v)
		assert.Equal(t, InvalidYear, KindOf(err))
		assert.Equal(t, "Year must be between 1000 and 2024", err.Error())
	}
}

// TestValidateRating ensures null is allowed and other values must be integers from 1 to 5.
func TestValidateRating(t *testing.T) {
	r, err := ValidateRating(nil)
	assert.NoError(t, err)
	assert.Nil(t, r)

	r, err = ValidateRating(float64(3))
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 3, *r)

	for _, v := range []any{float64(0), float64(6), float64(4.5), "4", true} {
		_, err = ValidateRating(v)
		assert.True(t, errors.Is(err, ErrInvalidRating), v)
		assert.Equal(t, "Rating must be between 1 and 5, or null", err.Error())
	}
}

// TestValidateNoDuplicate ensures title and author are compared ignoring case.
func TestValidateNoDuplicate(t *testing.T) {
	books := SeedBooks()

	err := ValidateNoDuplicate("the great gatsby", "F. SCOTT FITZGERALD", books, 0)
	assert.True(t, errors.Is(err, ErrDuplicateBook))
	assert.Equal(t, Duplicate, KindOf(err))

	assert.NoError(t, ValidateNoDuplicate("The Great Gatsby", "Someone Else", books, 0))
	assert.NoError(t, ValidateNoDuplicate("The Great Gatsby", "F. Scott Fitzgerald", books, 1))
}

// TestValidateBookPayload ensures the checks run in order and return cleaned fields.
func TestValidateBookPayload(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		read := true
		p := validPayload()
		p.Title = " Dune "
		p.IsRead = &read
		fields, err := ValidateBookPayload(p, validatorNow)
		require.NoError(t, err)
		assert.Equal(t, BookFields{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: 1965, IsRead: true}, fields)
	})

	t.Run("missing fields reported before text checks", func(t *testing.T) {
		p := validPayload()
		p.Title = "  "
		p.Year = nil
		_, err := ValidateBookPayload(p, validatorNow)
		assert.Equal(t, MissingField, KindOf(err))
	})

	t.Run("genre reported before year", func(t *testing.T) {
		p := validPayload()
		p.Genre = "Poetry"
		p.Year = float64(3000)
		_, err := ValidateBookPayload(p, validatorNow)
		assert.Equal(t, InvalidGenre, KindOf(err))
	})
}

// TestErrorKindHTTPStatus ensures every kind maps to its response code.
func TestErrorKindHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, MissingField.HTTPStatus())
	assert.Equal(t, 400, EmptyString.HTTPStatus())
	assert.Equal(t, 400, InvalidGenre.HTTPStatus())
	assert.Equal(t, 400, InvalidYear.HTTPStatus())
	assert.Equal(t, 400, InvalidRating.HTTPStatus())
	assert.Equal(t, 409, Duplicate.HTTPStatus())
	assert.Equal(t, 404, NotFound.HTTPStatus())
	assert.Equal(t, 500, ErrorKind(0).HTTPStatus())
	assert.Equal(t, "NotFound", NotFound.String())
}
