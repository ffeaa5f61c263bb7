package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"contact-book/models"
	"contact-book/session"
	"contact-book/store"
)

func newFavoritesFixture(t *testing.T) (*FavoriteHandler, *http.Cookie, int64) {
	t.Helper()
	db := newHandlerTestDB(t)
	members := store.NewMemberStore(db)
	contacts := store.NewContactStore(db)
	favorites := store.NewFavoriteStore(db)

	sessions, err := session.NewFileStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	member, err := members.Create(ctx, "fav@example.com", "hash", "fav", nil)
	require.NoError(t, err)
	contact, err := contacts.Create(ctx, store.ContactData{Name: "王小明", Email: "a@b.com"})
	require.NoError(t, err)

	id := session.NewSessionID()
	require.NoError(t, sessions.SetMember(ctx, id, session.MemberFromModel(*member)))
	cookie := &http.Cookie{Name: sessionCookieName, Value: id}

	return NewFavoriteHandler(favorites, sessions), cookie, contact.AbID
}

func TestFavoritesRequireSession(t *testing.T) {
	h, _, _ := newFavoritesFixture(t)

	w := invoke(h.List, httptest.NewRequest("GET", "/api/favorites", nil), nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFavoritesAddListRemove(t *testing.T) {
	h, cookie, abID := newFavoritesFixture(t)
	vars := map[string]string{"ab_id": "1"}

	r := httptest.NewRequest("POST", "/api/favorites/1", nil)
	r.AddCookie(cookie)
	w := invoke(h.Add, r, vars)
	require.Equal(t, http.StatusCreated, w.Code)

	// Adding twice conflicts.
	r = httptest.NewRequest("POST", "/api/favorites/1", nil)
	r.AddCookie(cookie)
	w = invoke(h.Add, r, vars)
	require.Equal(t, http.StatusConflict, w.Code)

	r = httptest.NewRequest("GET", "/api/favorites", nil)
	r.AddCookie(cookie)
	w = invoke(h.List, r, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.FavoriteContact `json:"data"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Data, 1)
	require.Equal(t, abID, resp.Data[0].Contact.AbID)
	require.Equal(t, "王小明", resp.Data[0].Contact.Name)

	r = httptest.NewRequest("DELETE", "/api/favorites/1", nil)
	r.AddCookie(cookie)
	w = invoke(h.Remove, r, vars)
	require.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest("DELETE", "/api/favorites/1", nil)
	r.AddCookie(cookie)
	w = invoke(h.Remove, r, vars)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoritesAddMissingContact(t *testing.T) {
	h, cookie, _ := newFavoritesFixture(t)

	r := httptest.NewRequest("POST", "/api/favorites/99", nil)
	r.AddCookie(cookie)
	w := invoke(h.Add, r, map[string]string{"ab_id": "99"})
	require.Equal(t, http.StatusNotFound, w.Code)
}
