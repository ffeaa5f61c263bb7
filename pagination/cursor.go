package pagination

import (
	"context"
	"errors"
	"strconv"

	"contact-book/models"
)

// ErrInvalidCursor is returned when an `after` cursor does not decode.
var ErrInvalidCursor = errors.New("pagination: invalid cursor")

// EncodeCursor renders the primary key of the last-seen row as an opaque
// cursor. The encoding is the stringified ab_id; callers must not depend
// on that.
func EncodeCursor(abID int64) string {
	return strconv.FormatInt(abID, 10)
}

// DecodeCursor parses a cursor back into the ab_id boundary it encodes.
// Malformed input yields ErrInvalidCursor, never a panic.
func DecodeCursor(cursor string) (int64, error) {
	id, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil || id < 0 {
		return 0, ErrInvalidCursor
	}
	return id, nil
}

// CursorRequest holds cursor-pagination inputs. After == "" starts from
// the beginning.
type CursorRequest struct {
	Limit int
	After string
}

// Normalize applies the default cursor-page limit.
func (r CursorRequest) Normalize() CursorRequest {
	if r.Limit < 1 {
		r.Limit = DefaultCursorLimit
	}
	return r
}

// CursorMeta is the cursor-pagination metadata block. NextCursor is nil
// when the returned page is empty.
type CursorMeta struct {
	NextCursor *string `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
	Limit      int     `json:"limit"`
	Count      int     `json:"count"`
}

// Cursor fetches the page after the given cursor, ordered by ab_id
// ascending. Every returned row has ab_id strictly greater than the
// decoded boundary. Rows inserted before the boundary while iterating are
// skipped; that is accepted eventual-consistency behavior, not a bug.
func (e *Engine) Cursor(ctx context.Context, req CursorRequest) ([]models.Contact, CursorMeta, error) {
	req = req.Normalize()

	var afterID int64
	if req.After != "" {
		id, err := DecodeCursor(req.After)
		if err != nil {
			return nil, CursorMeta{}, err
		}
		afterID = id
	}

	// Fetch one extra row to learn whether another page exists.
	contacts, err := e.source.FindAfter(ctx, afterID, req.Limit+1)
	if err != nil {
		return nil, CursorMeta{}, err
	}

	hasMore := len(contacts) > req.Limit
	if hasMore {
		contacts = contacts[:req.Limit]
	}

	meta := CursorMeta{
		HasMore: hasMore,
		Limit:   req.Limit,
		Count:   len(contacts),
	}
	if len(contacts) > 0 {
		next := EncodeCursor(contacts[len(contacts)-1].AbID)
		meta.NextCursor = &next
	}
	return contacts, meta, nil
}
