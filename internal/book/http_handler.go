package book

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"booktracker/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func validationDetails(verr *ValidationError) []httpx.ErrorDetail {
	details := make([]httpx.ErrorDetail, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		details = append(details, httpx.ErrorDetail{Field: f.Field, Message: f.Message})
	}
	return details
}

// decodeError answers a failed body decode. A value of the wrong type for
// a known field (a string where tags expects an array) is reported as a
// validation failure naming that field; anything else is a bad request.
func decodeError(w http.ResponseWriter, err error) {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", []httpx.ErrorDetail{
			{Field: ute.Field, Message: ute.Field + " is invalid"},
		})
		return
	}
	httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
}

// internalError logs the underlying cause and answers with a generic
// envelope; storage detail never crosses the boundary.
func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.Printf("%s error: request_id=%s err=%v", op, httpx.RequestIDFrom(r), err)
	httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := Filter{
		Status: query.Get("status"),
		Tag:    query.Get("tag"),
		Search: query.Get("search"),
	}

	books, err := h.service.List(r.Context(), httpx.UserIDFrom(r), f)
	if err != nil {
		internalError(w, r, "list books", err)
		return
	}
	if books == nil {
		books = []Book{}
	}

	httpx.JSONList(w, len(books), books)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		internalError(w, r, "get book", err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		decodeError(w, err)
		return
	}

	b, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), in)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", validationDetails(verr))
			return
		}
		internalError(w, r, "create book", err)
		return
	}

	httpx.JSONMessage(w, http.StatusCreated, "Book added successfully", b)
}

// Update handles PUT /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		decodeError(w, err)
		return
	}

	b, err := h.service.Update(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", validationDetails(verr))
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		default:
			internalError(w, r, "update book", err)
		}
		return
	}

	httpx.JSONMessage(w, http.StatusOK, "Book updated successfully", b)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		internalError(w, r, "delete book", err)
		return
	}

	httpx.JSONMessage(w, http.StatusOK, "Book deleted successfully", nil)
}

// GetStats handles GET /books/stats
func (h *HTTPHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, recent, err := h.service.Stats(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		internalError(w, r, "book stats", err)
		return
	}

	httpx.JSONSuccess(w, map[string]any{
		"stats":        stats,
		"recent_books": recent,
	})
}
