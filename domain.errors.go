package main

import (
	"errors"
	"net/http"
)

// ErrorKind classifies the failures reported by book operations.
type ErrorKind int

const (
	MissingField ErrorKind = iota + 1
	EmptyString
	InvalidGenre
	InvalidYear
	InvalidRating
	Duplicate
	NotFound
)

var kindNames = map[ErrorKind]string{
	MissingField:  "MissingField",
	EmptyString:   "EmptyString",
	InvalidGenre:  "InvalidGenre",
	InvalidYear:   "InvalidYear",
	InvalidRating: "InvalidRating",
	Duplicate:     "Duplicate",
	NotFound:      "NotFound",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// HTTPStatus maps the kind to the status code sent to api clients.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Duplicate:
		return http.StatusConflict
	case MissingField, EmptyString, InvalidGenre, InvalidYear, InvalidRating:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// BookError is the typed failure returned by the validator and the book service.
// Its message is safe to send back to clients as is.
type BookError struct {
	Kind    ErrorKind
	Message string
}

func (e *BookError) Error() string {
	return e.Message
}

// Is reports a match on the kind so sentinel errors
// can be compared with errors.Is.
func (e *BookError) Is(target error) bool {
	t, ok := target.(*BookError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrBookNotFound     = &BookError{Kind: NotFound, Message: "Book not found"}
	ErrDuplicateBook    = &BookError{Kind: Duplicate, Message: "Book with same title and author already exists"}
	ErrMissingFields    = &BookError{Kind: MissingField, Message: "Title, author, genre, and year are required"}
	ErrInvalidRating    = &BookError{Kind: InvalidRating, Message: "Rating must be between 1 and 5, or null"}
	ErrInvalidRateValue = &BookError{Kind: InvalidRating, Message: "Rating must be a number between 1 and 5"}
)

// KindOf returns the kind carried by err, or zero when err is not a BookError.
func KindOf(err error) ErrorKind {
	var be *BookError
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}
