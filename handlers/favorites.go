package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"contact-book/session"
	"contact-book/store"
)

// FavoriteHandler serves a member's favorite contacts. All routes require
// a live session; the member identity comes from the session document,
// never from the request body.
type FavoriteHandler struct {
	favorites *store.FavoriteStore
	sessions  session.Store
}

// NewFavoriteHandler creates the favorites handler.
func NewFavoriteHandler(favorites *store.FavoriteStore, sessions session.Store) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, sessions: sessions}
}

// requireMember resolves the session member or writes a 401.
func (h *FavoriteHandler) requireMember(ctx context.Context, w http.ResponseWriter, r *http.Request) *session.Member {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusUnauthorized, "login required")
		return nil
	}
	member, err := h.sessions.Get(ctx, id)
	if err != nil || member == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return nil
	}
	return member
}

// List handles GET /api/favorites: the member's favorites with their
// contact rows included.
func (h *FavoriteHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	member := h.requireMember(ctx, w, r)
	if member == nil {
		return
	}

	favorites, err := h.favorites.ListByMember(ctx, member.MemberID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list favorites", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}
	writeSuccess(w, http.StatusOK, favorites, "")
}

// Add handles POST /api/favorites/{ab_id}. The contact check and the
// favorite insert run as one transactional unit in the store.
func (h *FavoriteHandler) Add(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	member := h.requireMember(ctx, w, r)
	if member == nil {
		return
	}

	abID, ok := parseID(mux.Vars(r)["ab_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "ab_id must be numeric")
		return
	}

	err := h.favorites.Add(ctx, member.MemberID, abID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "contact not found")
		case errors.Is(err, store.ErrConstraint):
			writeError(w, http.StatusConflict, "contact is already a favorite")
		default:
			logRequest(ctx, "error", "Failed to add favorite", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		}
		return
	}

	logRequest(ctx, "info", "Favorite added",
		zap.Int64("member_id", member.MemberID), zap.Int64("ab_id", abID))
	writeSuccess(w, http.StatusCreated, nil, "favorite added")
}

// Remove handles DELETE /api/favorites/{ab_id}.
func (h *FavoriteHandler) Remove(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	member := h.requireMember(ctx, w, r)
	if member == nil {
		return
	}

	abID, ok := parseID(mux.Vars(r)["ab_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "ab_id must be numeric")
		return
	}

	err := h.favorites.Remove(ctx, member.MemberID, abID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "favorite not found")
			return
		}
		logRequest(ctx, "error", "Failed to remove favorite", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	writeSuccess(w, http.StatusOK, nil, "favorite removed")
}
