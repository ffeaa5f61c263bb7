package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"contact-book/auth"
	"contact-book/models"
	"contact-book/store"
	"contact-book/validation"
)

// JWTAuthHandler serves the stateless token login surface:
// /api/jwt-login and /api/jwt-logged-in.
type JWTAuthHandler struct {
	members *store.MemberStore
	issuer  *auth.TokenIssuer
}

// NewJWTAuthHandler creates the JWT auth handler.
func NewJWTAuthHandler(members *store.MemberStore, issuer *auth.TokenIssuer) *JWTAuthHandler {
	return &JWTAuthHandler{members: members, issuer: issuer}
}

// Login handles POST /api/jwt-login, returning {member, token}.
func (h *JWTAuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "JWT login request")

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
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.issuer.Sign(*member)
	if err != nil {
		logRequest(ctx, "error", "Failed to sign token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	logRequest(ctx, "info", "JWT login successful", zap.Int64("member_id", member.MemberID))
	writeJSON(w, http.StatusOK, models.LoginSuccessResponse{
		Success: true,
		Data: models.LoginData{
			Member: member.Public(),
			Token:  token,
		},
		Message: "logged in",
	})
}

// LoggedIn handles GET /api/jwt-logged-in. The handler parses the bearer
// token itself so it can keep "no token presented" apart from "token
// presented but invalid or expired" — both are 401s, but with distinct
// messages and the former is not logged as suspicious.
func (h *JWTAuthHandler) LoggedIn(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	authorization := r.Header.Get("Authorization")
	if authorization == "" || !strings.HasPrefix(authorization, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	claims, err := h.issuer.Verify(strings.TrimPrefix(authorization, "Bearer "))
	if err != nil {
		logRequest(ctx, "info", "Rejected token", zap.Bool("expired", errors.Is(err, auth.ErrExpiredToken)))
		writeError(w, http.StatusUnauthorized, "token is invalid or expired")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"member_id": claims.MemberID,
		"email":     claims.Email,
		"nickname":  claims.Nickname,
		"mobile":    claims.Mobile,
	}, "logged in")
}
