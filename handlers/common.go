package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	"contact-book/models"
)

// logRequest logs with route context pulled from the httpserver request
// scope. Shared by all handlers.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)
	auth := httpserver.GetRequestAuth(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if auth != nil {
		logMsg += " - client:" + auth.Client
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// writeJSON writes a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeSuccess writes the standard {success:true, data, message} envelope.
func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, models.APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// writeError writes the standard {success:false, error} envelope.
// The message must stay generic for 500s; detail goes to the log only.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.APIErrorResponse{
		Success: false,
		Error:   message,
	})
}

// writeFieldErrors writes a 400 with field-level validation details.
func writeFieldErrors(w http.ResponseWriter, details []models.FieldError) {
	writeJSON(w, http.StatusBadRequest, models.APIErrorResponse{
		Success: false,
		Error:   "validation failed",
		Details: details,
	})
}

// publicMembers strips password hashes from member rows for output.
func publicMembers(members []models.Member) []models.PublicMember {
	public := make([]models.PublicMember, 0, len(members))
	for _, m := range members {
		public = append(public, m.Public())
	}
	return public
}

// parseID parses a numeric path variable. Only non-numeric input is
// rejected; a numeric id that matches no row resolves to not-found at
// the store.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
