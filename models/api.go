package models

// Shared API response envelopes for the /api surface.

// APIResponse is the common success/error envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIErrorResponse carries an error message plus optional field details.
type APIErrorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// PaginatedResponse wraps a page of rows with its pagination metadata.
// Meta stays `any` so both offset and cursor metadata fit.
type PaginatedResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    any  `json:"meta"`
}

// LoginSuccessResponse is the /api/jwt-login success body.
type LoginSuccessResponse struct {
	Success bool      `json:"success"`
	Data    LoginData `json:"data"`
	Message string    `json:"message,omitempty"`
}

// LoginData pairs the member (sans password hash) with its JWT.
type LoginData struct {
	Member PublicMember `json:"member"`
	Token  string       `json:"token"`
}
