// Package pagination implements the two query strategies for the contact
// list: offset pagination (page/limit with page-count metadata) and cursor
// pagination keyed on the monotonically increasing ab_id primary key.
package pagination

import (
	"context"

	"contact-book/models"
	"contact-book/store"
)

const (
	// DefaultPageLimit is the per-page row count for offset pagination.
	DefaultPageLimit = 25
	// DefaultCursorLimit is the row count for cursor pagination.
	DefaultCursorLimit = 10
)

// ContactSource is the slice of the persistence adapter the engine needs.
// *store.ContactStore satisfies it; tests may substitute fakes.
type ContactSource interface {
	Find(ctx context.Context, filter store.ContactFilter, orders []store.Order, limit, offset int) ([]models.Contact, error)
	FindAfter(ctx context.Context, afterID int64, limit int) ([]models.Contact, error)
	Count(ctx context.Context, filter store.ContactFilter) (int, error)
}

// Engine runs paginated contact queries against a ContactSource.
type Engine struct {
	source ContactSource
}

// NewEngine creates a pagination engine over the given source.
func NewEngine(source ContactSource) *Engine {
	return &Engine{source: source}
}

// PageRequest holds normalized offset-pagination inputs.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps page to >= 1 and applies the default limit.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = DefaultPageLimit
	}
	return r
}

// Meta is the offset-pagination metadata block.
type Meta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
	Limit        int  `json:"limit"`
}

// BuildMeta derives page metadata from a normalized request and the total
// row count under the same filter.
func BuildMeta(req PageRequest, totalCount int) Meta {
	pageCount := (totalCount + req.Limit - 1) / req.Limit

	meta := Meta{
		IsFirstPage: req.Page <= 1,
		IsLastPage:  req.Page >= pageCount,
		CurrentPage: req.Page,
		PageCount:   pageCount,
		TotalCount:  totalCount,
		Limit:       req.Limit,
	}
	if req.Page > 1 {
		prev := req.Page - 1
		meta.PreviousPage = &prev
	}
	if req.Page < pageCount {
		next := req.Page + 1
		meta.NextPage = &next
	}
	return meta
}

// Page fetches one offset page plus its metadata. Ordering defaults to
// created_at descending when no orders are given. The count runs as a
// separate query under the same filter; the fetch and the count are not
// transactional, so the metadata can be momentarily stale under concurrent
// writes. Note: offset mode applies no secondary tie-break, matching the
// original behavior; equal-key rows may order nondeterministically.
func (e *Engine) Page(ctx context.Context, filter store.ContactFilter, orders []store.Order, req PageRequest) ([]models.Contact, Meta, error) {
	req = req.Normalize()
	if len(orders) == 0 {
		orders = []store.Order{{Column: "created_at", Desc: true}}
	}

	skip := (req.Page - 1) * req.Limit
	contacts, err := e.source.Find(ctx, filter, orders, req.Limit, skip)
	if err != nil {
		return nil, Meta{}, err
	}

	totalCount, err := e.source.Count(ctx, filter)
	if err != nil {
		return nil, Meta{}, err
	}

	return contacts, BuildMeta(req, totalCount), nil
}
