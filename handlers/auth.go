package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"contact-book/auth"
	"contact-book/models"
	"contact-book/session"
	"contact-book/store"
	"contact-book/validation"
)

const sessionCookieName = "session_id"

// SessionAuthHandler serves the cookie/session login surface:
// /api/login, /api/logged-in, /api/logout and /api/signup.
//
// Every session mutation completes its durable write before the response
// is emitted, so a client that sees the login response can immediately
// present the cookie and observe the authenticated state.
type SessionAuthHandler struct {
	members  *store.MemberStore
	sessions session.Store
	ttl      time.Duration
}

// NewSessionAuthHandler creates the session auth handler.
func NewSessionAuthHandler(members *store.MemberStore, sessions session.Store, ttl time.Duration) *SessionAuthHandler {
	return &SessionAuthHandler{members: members, sessions: sessions, ttl: ttl}
}

// sessionID returns the session id from the request cookie, or "" when
// the client has none yet.
func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *SessionAuthHandler) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.ttl / time.Second),
	})
}

// Login handles POST /api/login. Unknown email and wrong password produce
// the same 401 body, hiding which one failed. A successful login rotates
// the session id.
func (h *SessionAuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Login request")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if fieldErrors := validation.Login(req); fieldErrors != nil {
		writeFieldErrors(w, fieldErrors)
		return
	}

	member, err := h.members.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		logRequest(ctx, "error", "Failed to look up member", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	if err := auth.VerifyPassword(member.PasswordHash, req.Password); err != nil {
		logRequest(ctx, "info", "Password mismatch", zap.String("email", req.Email))
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	// A pre-login session id never carries authenticated state: the
	// presented session is destroyed and a fresh id issued.
	if old := sessionID(r); old != "" {
		if err := h.sessions.Destroy(ctx, old); err != nil {
			logRequest(ctx, "error", "Failed to destroy pre-login session", zap.Error(err))
		}
	}
	id := session.NewSessionID()

	// Durable write happens here, before any byte of the response.
	if err := h.sessions.SetMember(ctx, id, session.MemberFromModel(*member)); err != nil {
		logRequest(ctx, "error", "Failed to persist session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	h.setCookie(w, id)
	logRequest(ctx, "info", "Login successful", zap.Int64("member_id", member.MemberID))
	writeSuccess(w, http.StatusOK, member.Public(), "logged in")
}

// LoggedIn handles GET /api/logged-in: the session member, or null data
// for an anonymous request. Anonymous is not an error here.
func (h *SessionAuthHandler) LoggedIn(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeSuccess(w, http.StatusOK, nil, "not logged in")
		return
	}

	member, err := h.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			writeSuccess(w, http.StatusOK, nil, "not logged in")
			return
		}
		logRequest(ctx, "error", "Failed to read session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}
	if member == nil {
		writeSuccess(w, http.StatusOK, nil, "not logged in")
		return
	}

	writeSuccess(w, http.StatusOK, member, "")
}

// Logout handles GET /api/logout. The member field is durably cleared
// before the response; logging out without a session is still a success.
func (h *SessionAuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id != "" {
		if err := h.sessions.ClearMember(ctx, id); err != nil && !errors.Is(err, session.ErrNoSession) {
			logRequest(ctx, "error", "Failed to clear session", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
			return
		}
	}
	writeSuccess(w, http.StatusOK, nil, "logged out")
}

// Signup handles POST /api/signup: creates a member with a bcrypt-hashed
// password. A taken email surfaces as a 409.
func (h *SessionAuthHandler) Signup(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Signup request")

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if fieldErrors := validation.Signup(req); fieldErrors != nil {
		writeFieldErrors(w, fieldErrors)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logRequest(ctx, "error", "Failed to hash password", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	var mobile *string
	if req.Mobile != "" {
		mobile = &req.Mobile
	}

	member, err := h.members.Create(ctx, req.Email, hash, req.Nickname, mobile)
	if err != nil {
		if errors.Is(err, store.ErrConstraint) {
			writeError(w, http.StatusConflict, "email is already registered")
			return
		}
		logRequest(ctx, "error", "Failed to create member", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	logRequest(ctx, "info", "Member created", zap.Int64("member_id", member.MemberID))
	writeSuccess(w, http.StatusCreated, member.Public(), "member created")
}
