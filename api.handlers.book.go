package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// sendBookError maps a book operation failure to its response. Failures
// which are not a BookError are logged and reported as internal errors.
func (api *APIHandler) sendBookError(w http.ResponseWriter, r *http.Request, err error) {
	logger := api.GetLoggerFromContext(r.Context())
	status := http.StatusInternalServerError
	message := InternalErrorMessage

	var be *BookError
	switch {
	case errors.Is(err, ErrInvalidBody):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrBodyTooLarge):
		status, message = http.StatusRequestEntityTooLarge, err.Error()
	case errors.As(err, &be):
		status, message = be.Kind.HTTPStatus(), be.Message
	}

	if status == http.StatusInternalServerError {
		logger.Error("failed to process book request", zap.String("request.path", r.URL.Path), zap.Error(err))
	} else {
		logger.Info("book request rejected", zap.Int("response.code", status), zap.String("reason", message))
	}

	if werr := WriteErrorResponse(r.Context(), w, status, &APIError{Message: message}); werr != nil {
		logger.Error("failed to send error response", zap.Error(werr))
	}
}

// bookIDFromParams returns the path book id. An invalid id is reported
// as not found since no book can carry it.
func bookIDFromParams(ps httprouter.Params) (int, error) {
	id, ok := ParseBookID(ps.ByName("id"))
	if !ok {
		return 0, ErrBookNotFound
	}
	return id, nil
}

func (api *APIHandler) sendBook(w http.ResponseWriter, r *http.Request, status int, message string, book Book) {
	if err := WriteResponse(r.Context(), w, status, BookResponse{Message: message, Book: book}); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send response", zap.Int("book.id", book.ID), zap.Error(err))
	}
}

// ListBooks serves the books matching the query filters.
//
//	@Summary		List books
//	@Description	Lists books optionally filtered by genre, read status and author.
//	@Tags			books
//	@Produce		json
//	@Param			genre	query		string	false	"genre, case-insensitive"
//	@Param			isRead	query		string	false	"true selects read books, anything else unread ones"
//	@Param			author	query		string	false	"author substring, case-insensitive"
//	@Success		200		{object}	BooksResponse
//	@Router			/books [get]
func (api *APIHandler) ListBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	books, err := api.bookService.Query(r.Context(), BookFilterFromQuery(r.URL.Query()))
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}

	resp := BooksResponse{Books: books}
	if len(books) == 0 {
		resp.Message = "No books found"
	} else {
		count := len(books)
		resp.Count = &count
	}
	if err = WriteResponse(r.Context(), w, http.StatusOK, resp); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send response", zap.Error(err))
	}
}

// GetOneBook serves a single book.
//
//	@Summary	Get a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		int	true	"book id"
//	@Success	200	{object}	Book
//	@Failure	404	{object}	APIError
//	@Router		/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := bookIDFromParams(ps)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	book, err := api.bookService.GetOne(r.Context(), id)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	if err = WriteResponse(r.Context(), w, http.StatusOK, book); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send response", zap.Int("book.id", id), zap.Error(err))
	}
}

// CreateBook adds a new book.
//
//	@Summary	Add a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		book	body		BookPayload	true	"title, author, genre and year are required"
//	@Success	201		{object}	BookResponse
//	@Failure	400		{object}	APIError
//	@Failure	409		{object}	APIError
//	@Failure	413		{object}	APIError
//	@Router		/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload BookPayload
	if err := DecodeJSONBody(w, r, &payload); err != nil {
		api.sendBookError(w, r, err)
		return
	}
	book, err := api.bookService.Create(r.Context(), payload)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("book created", zap.Int("book.id", book.ID))
	api.sendBook(w, r, http.StatusCreated, "Book added successfully", book)
}

// UpdateBook replaces all editable fields of a book.
//
//	@Summary	Replace a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int			true	"book id"
//	@Param		book	body		BookPayload	true	"new book content"
//	@Success	200		{object}	BookResponse
//	@Failure	400		{object}	APIError
//	@Failure	404		{object}	APIError
//	@Router		/books/{id} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := bookIDFromParams(ps)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	// an unknown book is reported before any body error.
	if _, err = api.bookService.GetOne(r.Context(), id); err != nil {
		api.sendBookError(w, r, err)
		return
	}
	var payload BookPayload
	if err = DecodeJSONBody(w, r, &payload); err != nil {
		api.sendBookError(w, r, err)
		return
	}
	book, err := api.bookService.Replace(r.Context(), id, payload)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("book updated", zap.Int("book.id", book.ID))
	api.sendBook(w, r, http.StatusOK, "Book updated successfully", book)
}

// DeleteOneBook removes a book.
//
//	@Summary	Delete a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		int	true	"book id"
//	@Success	200	{object}	BookResponse
//	@Failure	404	{object}	APIError
//	@Router		/books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := bookIDFromParams(ps)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	book, err := api.bookService.Delete(r.Context(), id)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("book deleted", zap.Int("book.id", book.ID))
	api.sendBook(w, r, http.StatusOK, "Book deleted successfully", book)
}

// MarkBookAsRead flags a book as read.
//
//	@Summary	Mark a book as read
//	@Tags		books
//	@Produce	json
//	@Param		id	path		int	true	"book id"
//	@Success	200	{object}	BookResponse
//	@Failure	404	{object}	APIError
//	@Router		/books/{id}/read [patch]
func (api *APIHandler) MarkBookAsRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := bookIDFromParams(ps)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	book, err := api.bookService.MarkRead(r.Context(), id)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	api.sendBook(w, r, http.StatusOK, "Book marked as read", book)
}

// RateBook sets the rating of a book.
//
//	@Summary	Rate a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"book id"
//	@Param		rating	body		RatingPayload	true	"whole number from 1 to 5"
//	@Success	200		{object}	BookResponse
//	@Failure	400		{object}	APIError
//	@Failure	404		{object}	APIError
//	@Router		/books/{id}/rate [patch]
func (api *APIHandler) RateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := bookIDFromParams(ps)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	var payload RatingPayload
	if err = DecodeJSONBody(w, r, &payload); err != nil {
		api.sendBookError(w, r, err)
		return
	}
	book, err := api.bookService.Rate(r.Context(), id, payload.Rating)
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	api.sendBook(w, r, http.StatusOK, "Book rated successfully", book)
}

// GetLibraryStats serves the aggregated library statistics.
//
//	@Summary	Library statistics
//	@Tags		stats
//	@Produce	json
//	@Success	200	{object}	Stats
//	@Router		/stats [get]
func (api *APIHandler) GetLibraryStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := api.bookService.Stats(r.Context())
	if err != nil {
		api.sendBookError(w, r, err)
		return
	}
	if err = WriteResponse(r.Context(), w, http.StatusOK, stats); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send response", zap.Error(err))
	}
}
