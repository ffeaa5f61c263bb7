package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"contact-book/models"
	"contact-book/pagination"
	"contact-book/store"
	"contact-book/validation"
)

// ContactHandler serves the /api/contacts surface: offset-paginated list,
// cursor-paginated list, and single-row CRUD.
type ContactHandler struct {
	contacts *store.ContactStore
	engine   *pagination.Engine
}

// NewContactHandler creates a contact handler.
func NewContactHandler(contacts *store.ContactStore) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		engine:   pagination.NewEngine(contacts),
	}
}

// listFilter builds the contact filter from list query params.
// keyword matches name or email by substring; birth_begin/birth_end bound
// the birthday (strict YYYY-MM-DD, silently ignored when malformed).
func listFilter(query map[string][]string) store.ContactFilter {
	get := func(key string) string {
		if vs := query[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	var filter store.ContactFilter
	if keyword := get("keyword"); keyword != "" {
		filter.Or = []store.ContactFilter{
			{Name: store.StringFilter{Contains: &keyword}},
			{Email: store.StringFilter{Contains: &keyword}},
		}
	}
	if begin := get("birth_begin"); begin != "" {
		if t, err := time.Parse("2006-01-02", begin); err == nil {
			filter.Birthday.Gte = &t
		}
	}
	if end := get("birth_end"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			filter.Birthday.Lte = &t
		}
	}
	return filter
}

// List handles GET /api/contacts with offset pagination.
func (h *ContactHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing contacts")

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	contacts, meta, err := h.engine.Page(ctx, listFilter(query),
		nil, pagination.PageRequest{Page: page, Limit: limit})
	if err != nil {
		logRequest(ctx, "error", "Failed to page contacts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	writeJSON(w, http.StatusOK, models.PaginatedResponse{
		Success: true,
		Data:    contacts,
		Meta:    meta,
	})
}

// TryCursor handles GET /api/contacts/try-cursor with cursor pagination.
func (h *ContactHandler) TryCursor(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Cursor-listing contacts")

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	contacts, meta, err := h.engine.Cursor(ctx, pagination.CursorRequest{
		Limit: limit,
		After: query.Get("after"),
	})
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			logRequest(ctx, "info", "Rejected malformed cursor", zap.String("after", query.Get("after")))
			writeError(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		logRequest(ctx, "error", "Failed to cursor-page contacts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	writeJSON(w, http.StatusOK, models.PaginatedResponse{
		Success: true,
		Data:    contacts,
		Meta:    meta,
	})
}

// Get handles GET /api/contacts/{ab_id}.
func (h *ContactHandler) Get(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	abID, ok := parseID(mux.Vars(r)["ab_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "ab_id must be numeric")
		return
	}

	contact, err := h.contacts.Get(ctx, abID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		logRequest(ctx, "error", "Failed to get contact", zap.Error(err), zap.Int64("ab_id", abID))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	writeSuccess(w, http.StatusOK, contact, "")
}

// Create handles POST /api/contacts: validate, persist, respond 201.
func (h *ContactHandler) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := validation.Contact(req)
	if !result.Valid() {
		writeFieldErrors(w, result.Errors)
		return
	}

	contact, err := h.contacts.Create(ctx, result.Data)
	if err != nil {
		if errors.Is(err, store.ErrConstraint) {
			writeError(w, http.StatusConflict, "contact conflicts with an existing row")
			return
		}
		logRequest(ctx, "error", "Failed to create contact", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	logRequest(ctx, "info", "Contact created", zap.Int64("ab_id", contact.AbID))
	writeSuccess(w, http.StatusCreated, contact, "contact created")
}

// Update handles PUT /api/contacts/{ab_id}.
func (h *ContactHandler) Update(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	abID, ok := parseID(mux.Vars(r)["ab_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "ab_id must be numeric")
		return
	}

	var req models.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := validation.Contact(req)
	if !result.Valid() {
		writeFieldErrors(w, result.Errors)
		return
	}

	contact, err := h.contacts.Update(ctx, abID, result.Data)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		logRequest(ctx, "error", "Failed to update contact", zap.Error(err), zap.Int64("ab_id", abID))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	logRequest(ctx, "info", "Contact updated", zap.Int64("ab_id", abID))
	writeSuccess(w, http.StatusOK, contact, "contact updated")
}

// Delete handles DELETE /api/contacts/{ab_id}, returning the removed
// row's key and name. Deleting an already-deleted id is a 404.
func (h *ContactHandler) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	abID, ok := parseID(mux.Vars(r)["ab_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "ab_id must be numeric")
		return
	}

	contact, err := h.contacts.Delete(ctx, abID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		logRequest(ctx, "error", "Failed to delete contact", zap.Error(err), zap.Int64("ab_id", abID))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	logRequest(ctx, "info", "Contact deleted", zap.Int64("ab_id", abID))
	writeSuccess(w, http.StatusOK, models.DeletedContact{AbID: contact.AbID, Name: contact.Name}, "contact deleted")
}
