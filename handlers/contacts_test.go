package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	logger "github.com/umakantv/go-utils/logger"

	"contact-book/models"
	"contact-book/store"
)

func TestMain(m *testing.M) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
	os.Exit(m.Run())
}

const handlerTestSchema = `
CREATE TABLE contacts (
    ab_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    mobile TEXT NOT NULL DEFAULT '',
    birthday DATETIME,
    address TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE members (
    member_id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    mobile TEXT,
    nickname TEXT NOT NULL,
    create_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE favorites (
    member_id INTEGER NOT NULL,
    ab_id INTEGER NOT NULL,
    PRIMARY KEY (member_id, ab_id)
);
`

func newHandlerTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(handlerTestSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type handlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request)

// invoke drives one handler call the way the HTTP server would, with
// optional path variables.
func invoke(h handlerFunc, r *http.Request, vars map[string]string) *httptest.ResponseRecorder {
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	w := httptest.NewRecorder()
	h(r.Context(), w, r)
	return w
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// Full contact lifecycle: create, read it back, delete, read again.
func TestContactLifecycle(t *testing.T) {
	db := newHandlerTestDB(t)
	h := NewContactHandler(store.NewContactStore(db))

	w := invoke(h.Create, httptest.NewRequest("POST", "/api/contacts", jsonBody(t, map[string]string{
		"name":  "王小明",
		"email": "a@b.com",
	})), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Success bool           `json:"success"`
		Data    models.Contact `json:"data"`
	}
	decodeBody(t, w, &created)
	require.True(t, created.Success)
	require.Equal(t, "王小明", created.Data.Name)
	require.NotZero(t, created.Data.AbID)

	abID := created.Data.AbID
	vars := map[string]string{"ab_id": strconv.FormatInt(abID, 10)}

	w = invoke(h.Get, httptest.NewRequest("GET", "/api/contacts/1", nil), vars)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched struct {
		Data models.Contact `json:"data"`
	}
	decodeBody(t, w, &fetched)
	require.Equal(t, abID, fetched.Data.AbID)
	require.Equal(t, "a@b.com", fetched.Data.Email)

	w = invoke(h.Delete, httptest.NewRequest("DELETE", "/api/contacts/1", nil), vars)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		Data models.DeletedContact `json:"data"`
	}
	decodeBody(t, w, &deleted)
	require.Equal(t, "王小明", deleted.Data.Name)

	w = invoke(h.Get, httptest.NewRequest("GET", "/api/contacts/1", nil), vars)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactGetBadID(t *testing.T) {
	db := newHandlerTestDB(t)
	h := NewContactHandler(store.NewContactStore(db))

	w := invoke(h.Get, httptest.NewRequest("GET", "/api/contacts/abc", nil),
		map[string]string{"ab_id": "abc"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// Numeric ids that match no row are 404, never 400; only non-numeric
// input is a bad request.
func TestContactGetNumericIDNotFound(t *testing.T) {
	db := newHandlerTestDB(t)
	h := NewContactHandler(store.NewContactStore(db))

	for _, id := range []string{"0", "-3", "99"} {
		w := invoke(h.Get, httptest.NewRequest("GET", "/api/contacts/"+id, nil),
			map[string]string{"ab_id": id})
		require.Equal(t, http.StatusNotFound, w.Code, "id %q", id)
	}
}

func TestContactCreateValidationDetails(t *testing.T) {
	db := newHandlerTestDB(t)
	h := NewContactHandler(store.NewContactStore(db))

	w := invoke(h.Create, httptest.NewRequest("POST", "/api/contacts", jsonBody(t, map[string]string{
		"name":     "x",
		"email":    "nope",
		"birthday": "2020/13/40",
	})), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.APIErrorResponse
	decodeBody(t, w, &resp)
	require.False(t, resp.Success)

	fields := map[string]bool{}
	for _, d := range resp.Details {
		fields[d.Field] = true
	}
	require.True(t, fields["name"])
	require.True(t, fields["email"])
	require.True(t, fields["birthday"])
}

func TestContactListPagination(t *testing.T) {
	db := newHandlerTestDB(t)
	h := NewContactHandler(store.NewContactStore(db))

	for i := 0; i < 30; i++ {
		w := invoke(h.Create, httptest.NewRequest("POST", "/api/contacts", jsonBody(t, map[string]string{
			"name":  "batch contact",
			"email": "batch@example.com",
		})), nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := invoke(h.List, httptest.NewRequest("GET", "/api/contacts?page=2&limit=10", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []models.Contact `json:"data"`
		Meta    struct {
			CurrentPage int  `json:"currentPage"`
			PageCount   int  `json:"pageCount"`
			TotalCount  int  `json:"totalCount"`
			IsLastPage  bool `json:"isLastPage"`
		} `json:"meta"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Data, 10)
	require.Equal(t, 2, resp.Meta.CurrentPage)
	require.Equal(t, 3, resp.Meta.PageCount)
	require.Equal(t, 30, resp.Meta.TotalCount)
	require.False(t, resp.Meta.IsLastPage)
}

func TestContactTryCursorInvalidCursor(t *testing.T) {
	db := newHandlerTestDB(t)
	h := NewContactHandler(store.NewContactStore(db))

	w := invoke(h.TryCursor, httptest.NewRequest("GET", "/api/contacts/try-cursor?after=garbage", nil), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.APIErrorResponse
	decodeBody(t, w, &resp)
	require.Equal(t, "invalid cursor", resp.Error)
}
