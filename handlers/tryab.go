package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"contact-book/store"
)

// TryABHandler exposes the query-playground routes under /try-ab. They
// exist to exercise the adapter's filter language end to end: substring
// and set-membership matches, ranges, null checks, NOT, relation
// existence, multi-key ordering and aggregates.
type TryABHandler struct {
	contacts *store.ContactStore
	members  *store.MemberStore
}

// NewTryABHandler creates the playground handler.
func NewTryABHandler(contacts *store.ContactStore, members *store.MemberStore) *TryABHandler {
	return &TryABHandler{contacts: contacts, members: members}
}

// Search handles GET /try-ab/search. Query params map straight onto
// filter operators: name, email_contains, address_in (comma separated),
// birth_after, birth_before, no_birthday, not_address.
func (h *TryABHandler) Search(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter store.ContactFilter
	if name := query.Get("name"); name != "" {
		filter.Name.Equals = &name
	}
	if contains := query.Get("email_contains"); contains != "" {
		filter.Email.Contains = &contains
	}
	if in := query.Get("address_in"); in != "" {
		filter.Address.In = strings.Split(in, ",")
	}
	if after := query.Get("birth_after"); after != "" {
		if t, err := time.Parse("2006-01-02", after); err == nil {
			filter.Birthday.Gte = &t
		}
	}
	if before := query.Get("birth_before"); before != "" {
		if t, err := time.Parse("2006-01-02", before); err == nil {
			filter.Birthday.Lt = &t
		}
	}
	if query.Get("no_birthday") == "1" {
		isNull := true
		filter.Birthday.IsNull = &isNull
	}
	if notAddress := query.Get("not_address"); notAddress != "" {
		filter.Not = []store.ContactFilter{
			{Address: store.StringFilter{Equals: &notAddress}},
		}
	}

	contacts, err := h.contacts.Find(ctx, filter, nil, 0, 0)
	if err != nil {
		logRequest(ctx, "error", "Failed to search contacts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// OrderBy handles GET /try-ab/order-by: name ascending, then birthday
// descending, over a fixed-name IN set when names= is given.
func (h *TryABHandler) OrderBy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var filter store.ContactFilter
	if names := r.URL.Query().Get("names"); names != "" {
		filter.Name.In = strings.Split(names, ",")
	}

	orders := []store.Order{
		{Column: "name"},
		{Column: "birthday", Desc: true},
	}
	contacts, err := h.contacts.Find(ctx, filter, orders, 0, 0)
	if err != nil {
		logRequest(ctx, "error", "Failed to order contacts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// TakeSkip handles GET /try-ab/take-skip/{page}: raw skip/take paging by
// ab_id descending, 12 rows per page, without the metadata block.
func (h *TryABHandler) TakeSkip(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	const perPage = 12

	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil || page < 1 {
		page = 1
	}

	contacts, err := h.contacts.Find(ctx, store.ContactFilter{},
		[]store.Order{{Column: "ab_id", Desc: true}}, perPage, (page-1)*perPage)
	if err != nil {
		logRequest(ctx, "error", "Failed to page contacts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Count handles GET /try-ab/count: total row count plus the ab_id
// aggregate block.
func (h *TryABHandler) Count(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	totalContacts, err := h.contacts.Count(ctx, store.ContactFilter{})
	if err != nil {
		logRequest(ctx, "error", "Failed to count contacts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	aggregate, err := h.contacts.Aggregate(ctx, store.ContactFilter{})
	if err != nil {
		logRequest(ctx, "error", "Failed to aggregate contacts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalContacts": totalContacts,
		"aggregate":     aggregate,
	})
}

// MembersWithFavorites handles GET /try-ab/members-with-favorites:
// members owning at least one favorite (relation `some`).
func (h *TryABHandler) MembersWithFavorites(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	members, err := h.members.Find(ctx, store.MemberFilter{FavoritesSome: true})
	if err != nil {
		logRequest(ctx, "error", "Failed to query members", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}
	writeJSON(w, http.StatusOK, publicMembers(members))
}

// MembersWithoutFavorites handles GET /try-ab/members-without-favorites:
// members owning no favorites (relation `none`).
func (h *TryABHandler) MembersWithoutFavorites(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	members, err := h.members.Find(ctx, store.MemberFilter{FavoritesNone: true})
	if err != nil {
		logRequest(ctx, "error", "Failed to query members", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error, please try again later")
		return
	}
	writeJSON(w, http.StatusOK, publicMembers(members))
}
