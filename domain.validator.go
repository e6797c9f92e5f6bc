package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// bookValidate holds the field rules shared by all book validations.
var bookValidate = validator.New()

var genreRule = "oneof=" + strings.Join(Genres, " ")

// IsFalsy reports whether a decoded json value counts as "not provided":
// absent or null, the empty string, the number zero and false.
func IsFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0
	case int:
		return v == 0
	case bool:
		return !v
	}
	return false
}

// asInteger converts a decoded json number into an int. Only whole
// numbers qualify, so 1925.0 is accepted and 1925.5 is not.
func asInteger(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		if math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

// ValidateRequiredFields fails with a single report when any of
// title, author, genre or year is falsy.
func ValidateRequiredFields(p BookPayload) error {
	if IsFalsy(p.Title) || IsFalsy(p.Author) || IsFalsy(p.Genre) || IsFalsy(p.Year) {
		return ErrMissingFields
	}
	return nil
}

// ValidateRequiredText checks that value is a string with visible content.
// The field name is used as is in the error message.
func ValidateRequiredText(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &BookError{Kind: EmptyString, Message: field + " must be a non-empty string"}
	}
	s = strings.TrimSpace(s)
	if err := bookValidate.Var(s, "required"); err != nil {
		return "", &BookError{Kind: EmptyString, Message: field + " must be a non-empty string"}
	}
	return s, nil
}

// ValidateGenre matches value case-sensitively against the genres list.
func ValidateGenre(value any) (string, error) {
	s, ok := value.(string)
	if !ok || bookValidate.Var(s, genreRule) != nil {
		return "", &BookError{
			Kind:    InvalidGenre,
			Message: "Genre must be one of: " + strings.Join(Genres, ", "),
		}
	}
	return s, nil
}

// ValidateYear accepts whole numbers from 1000 up to the year of now.
func ValidateYear(value any, now time.Time) (int, error) {
	currentYear := now.Year()
	invalid := &BookError{
		Kind:    InvalidYear,
		Message: fmt.Sprintf("Year must be between 1000 and %d", currentYear),
	}
	year, ok := asInteger(value)
	if !ok {
		return 0, invalid
	}
	if err := bookValidate.Var(year, fmt.Sprintf("gte=1000,lte=%d", currentYear)); err != nil {
		return 0, invalid
	}
	return year, nil
}

// ValidateRating allows an absent rating and otherwise requires a whole number from 1 to 5.
func ValidateRating(value any) (*int, error) {
	if value == nil {
		return nil, nil
	}
	rating, ok := asInteger(value)
	if !ok || bookValidate.Var(rating, "min=1,max=5") != nil {
		return nil, ErrInvalidRating
	}
	return &rating, nil
}

// ValidateNoDuplicate fails when another book shares the same title and author,
// ignoring case. A non-zero excludeID leaves that book out of the comparison.
func ValidateNoDuplicate(title, author string, books []Book, excludeID int) error {
	for _, b := range books {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if strings.EqualFold(b.Title, title) && strings.EqualFold(b.Author, author) {
			return ErrDuplicateBook
		}
	}
	return nil
}

// ValidateBookPayload runs the checks shared by creation and replacement,
// in order, and returns the cleaned fields. Rating is left to the caller.
func ValidateBookPayload(p BookPayload, now time.Time) (BookFields, error) {
	var fields BookFields
	var err error

	if err = ValidateRequiredFields(p); err != nil {
		return fields, err
	}
	if fields.Title, err = ValidateRequiredText("Title", p.Title); err != nil {
		return fields, err
	}
	if fields.Author, err = ValidateRequiredText("Author", p.Author); err != nil {
		return fields, err
	}
	if fields.Genre, err = ValidateGenre(p.Genre); err != nil {
		return fields, err
	}
	if fields.Year, err = ValidateYear(p.Year, now); err != nil {
		return fields, err
	}
	if p.IsRead != nil {
		fields.IsRead = *p.IsRead
	}
	return fields, nil
}
