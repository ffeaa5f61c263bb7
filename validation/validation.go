// Package validation checks request payloads and reports every failing
// field at once. Results come back as explicit values, never panics.
package validation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"contact-book/models"
	"contact-book/store"
)

const birthdayLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// messageFor maps a failed validator tag onto a human-readable message.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// collect turns a validator error into field-level entries. Field names
// are lowercased to match the JSON payload keys.
func collect(err error) []models.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []models.FieldError{{Field: "", Message: err.Error()}}
	}
	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return fields
}

// ContactResult is the outcome of validating a contact payload: either
// normalized data ready for the store, or the full list of field errors.
type ContactResult struct {
	Data   store.ContactData
	Errors []models.FieldError
}

// Valid reports whether the payload passed.
func (r ContactResult) Valid() bool {
	return len(r.Errors) == 0
}

// Contact validates a create/update contact payload. All field errors are
// collected; a bad birthday does not hide a bad name. An empty birthday
// string normalizes to null rather than an error.
func Contact(req models.CreateContactRequest) ContactResult {
	var result ContactResult

	if err := validate.Struct(req); err != nil {
		result.Errors = collect(err)
	}

	birthday, ok := parseBirthday(req.Birthday)
	if !ok {
		result.Errors = append(result.Errors, models.FieldError{
			Field:   "birthday",
			Message: "invalid date format, expected YYYY-MM-DD",
		})
	}

	if result.Valid() {
		result.Data = store.ContactData{
			Name:     req.Name,
			Email:    req.Email,
			Mobile:   req.Mobile,
			Address:  req.Address,
			Birthday: birthday,
		}
	}
	return result
}

// parseBirthday applies the strict date rule: empty means no birthday,
// anything else must parse as YYYY-MM-DD exactly.
func parseBirthday(value string) (*time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, true
	}
	t, err := time.Parse(birthdayLayout, trimmed)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// Login validates a login payload, returning all field errors at once.
func Login(req models.LoginRequest) []models.FieldError {
	if err := validate.Struct(req); err != nil {
		return collect(err)
	}
	return nil
}

// Signup validates a signup payload, returning all field errors at once.
func Signup(req models.SignupRequest) []models.FieldError {
	if err := validate.Struct(req); err != nil {
		return collect(err)
	}
	return nil
}
