package store

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"contact-book/models"
)

const testSchema = `
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
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL
);
CREATE TABLE favorites (
    member_id INTEGER NOT NULL REFERENCES members (member_id),
    ab_id INTEGER NOT NULL REFERENCES contacts (ab_id),
    PRIMARY KEY (member_id, ab_id)
);
`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// One in-memory sqlite database per connection; pin the pool to one.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func timep(t time.Time) *time.Time {
	return &t
}

func strp(s string) *string {
	return &s
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seedContact(t *testing.T, s *ContactStore, name, email, address string, birthday *time.Time) int64 {
	t.Helper()
	contact, err := s.Create(context.Background(), ContactData{
		Name:     name,
		Email:    email,
		Address:  address,
		Birthday: birthday,
	})
	require.NoError(t, err)
	return contact.AbID
}

func TestContactCRUD(t *testing.T) {
	db := newTestDB(t)
	s := NewContactStore(db)
	ctx := context.Background()

	created, err := s.Create(ctx, ContactData{
		Name:     "王小明",
		Email:    "a@b.com",
		Mobile:   "0912345678",
		Address:  "Taipei",
		Birthday: timep(date(1990, 5, 17)),
	})
	require.NoError(t, err)
	require.Equal(t, "王小明", created.Name)
	require.NotNil(t, created.Birthday)
	require.False(t, created.CreatedAt.IsZero())

	got, err := s.Get(ctx, created.AbID)
	require.NoError(t, err)
	require.Equal(t, created.AbID, got.AbID)
	require.Equal(t, "a@b.com", got.Email)

	updated, err := s.Update(ctx, created.AbID, ContactData{
		Name:  "王大明",
		Email: "a@b.com",
	})
	require.NoError(t, err)
	require.Equal(t, "王大明", updated.Name)
	require.Nil(t, updated.Birthday)

	deleted, err := s.Delete(ctx, created.AbID)
	require.NoError(t, err)
	require.Equal(t, "王大明", deleted.Name)

	_, err = s.Get(ctx, created.AbID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestContactNotFound(t *testing.T) {
	db := newTestDB(t)
	s := NewContactStore(db)
	ctx := context.Background()

	_, err := s.Get(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, 99, ContactData{Name: "x", Email: "x@y.z"})
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an already-deleted id stays NotFound, never an internal error.
	_, err = s.Delete(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestContactAutoIncrementMonotonic(t *testing.T) {
	db := newTestDB(t)
	s := NewContactStore(db)

	first := seedContact(t, s, "甲", "a@x.com", "", nil)
	second := seedContact(t, s, "乙", "b@x.com", "", nil)

	// Delete and insert again: the key keeps growing, never reused.
	_, err := s.Delete(context.Background(), second)
	require.NoError(t, err)
	third := seedContact(t, s, "丙", "c@x.com", "", nil)

	require.Greater(t, second, first)
	require.Greater(t, third, second)
}

func TestContactFilters(t *testing.T) {
	db := newTestDB(t)
	s := NewContactStore(db)
	ctx := context.Background()

	seedContact(t, s, "林柏翰", "diego75@gmail.com", "花蓮縣", timep(date(1965, 3, 2)))
	seedContact(t, s, "李雅婷", "ya-ting@gmail.com", "宜蘭縣", timep(date(1996, 7, 9)))
	seedContact(t, s, "劉佳穎", "liu@example.net", "高雄市", nil)

	t.Run("equality", func(t *testing.T) {
		rows, err := s.Find(ctx, ContactFilter{Email: StringFilter{Equals: strp("diego75@gmail.com")}}, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, "林柏翰", rows[0].Name)
	})

	t.Run("contains", func(t *testing.T) {
		rows, err := s.Find(ctx, ContactFilter{Email: StringFilter{Contains: strp("@gmail.com")}}, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
	})

	t.Run("in", func(t *testing.T) {
		rows, err := s.Find(ctx, ContactFilter{Address: StringFilter{In: []string{"宜蘭縣", "高雄市"}}}, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
	})

	t.Run("birthday range", func(t *testing.T) {
		rows, err := s.Find(ctx, ContactFilter{Birthday: TimeFilter{
			Gte: timep(date(1960, 1, 1)),
			Lt:  timep(date(1970, 1, 1)),
		}}, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, "林柏翰", rows[0].Name)
	})

	t.Run("null birthday", func(t *testing.T) {
		isNull := true
		rows, err := s.Find(ctx, ContactFilter{Birthday: TimeFilter{IsNull: &isNull}}, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, "劉佳穎", rows[0].Name)
	})

	t.Run("not", func(t *testing.T) {
		rows, err := s.Find(ctx, ContactFilter{
			Not: []ContactFilter{{Address: StringFilter{Equals: strp("花蓮縣")}}},
		}, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
	})

	t.Run("or", func(t *testing.T) {
		rows, err := s.Find(ctx, ContactFilter{
			Or: []ContactFilter{
				{Name: StringFilter{Contains: strp("林")}},
				{Email: StringFilter{Contains: strp("liu")}},
			},
		}, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
	})

	t.Run("and composition", func(t *testing.T) {
		rows, err := s.Find(ctx, ContactFilter{
			And: []ContactFilter{
				{Birthday: TimeFilter{Gte: timep(date(1960, 1, 1))}},
				{Name: StringFilter{Equals: strp("林柏翰")}},
			},
		}, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}

func TestContactFindOrderingAndLimit(t *testing.T) {
	db := newTestDB(t)
	s := NewContactStore(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedContact(t, s, "c", "c@x.com", "", nil)
	}

	rows, err := s.Find(ctx, ContactFilter{}, []Order{{Column: "ab_id", Desc: true}}, 2, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(4), rows[0].AbID)
	require.Equal(t, int64(3), rows[1].AbID)
}

func TestContactFindAfter(t *testing.T) {
	db := newTestDB(t)
	s := NewContactStore(db)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		seedContact(t, s, "c", "c@x.com", "", nil)
	}

	rows, err := s.FindAfter(ctx, 2, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, int64(3), rows[0].AbID)
	require.Equal(t, int64(5), rows[2].AbID)

	// Strictly-greater boundary.
	for _, row := range rows {
		require.Greater(t, row.AbID, int64(2))
	}
}

func TestContactCountAndAggregate(t *testing.T) {
	db := newTestDB(t)
	s := NewContactStore(db)
	ctx := context.Background()

	agg, err := s.Aggregate(ctx, ContactFilter{})
	require.NoError(t, err)
	require.Equal(t, 0, agg.Count)
	require.Nil(t, agg.Avg)
	require.Nil(t, agg.Min)

	for i := 0; i < 4; i++ {
		seedContact(t, s, "c", "c@x.com", "", nil)
	}

	count, err := s.Count(ctx, ContactFilter{})
	require.NoError(t, err)
	require.Equal(t, 4, count)

	agg, err = s.Aggregate(ctx, ContactFilter{})
	require.NoError(t, err)
	require.Equal(t, 4, agg.Count)
	require.Equal(t, int64(1), *agg.Min)
	require.Equal(t, int64(4), *agg.Max)
	require.Equal(t, int64(10), *agg.Sum)
	require.InDelta(t, 2.5, *agg.Avg, 0.0001)
}

func TestMemberUniqueEmail(t *testing.T) {
	db := newTestDB(t)
	s := NewMemberStore(db)
	ctx := context.Background()

	member, err := s.Create(ctx, "ming@example.com", "hash", "ming", nil)
	require.NoError(t, err)
	require.Equal(t, "ming", member.Nickname)

	_, err = s.Create(ctx, "ming@example.com", "hash2", "other", nil)
	require.ErrorIs(t, err, ErrConstraint)
}

func TestMemberLookups(t *testing.T) {
	db := newTestDB(t)
	s := NewMemberStore(db)
	ctx := context.Background()

	created, err := s.Create(ctx, "ming@example.com", "hash", "ming", strp("0912345678"))
	require.NoError(t, err)

	byEmail, err := s.GetByEmail(ctx, "ming@example.com")
	require.NoError(t, err)
	require.Equal(t, created.MemberID, byEmail.MemberID)
	require.NotNil(t, byEmail.Mobile)

	_, err = s.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFavoritesTransactionAndRelations(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContactStore(db)
	members := NewMemberStore(db)
	favorites := NewFavoriteStore(db)
	ctx := context.Background()

	abID := seedContact(t, contacts, "王小明", "a@b.com", "", nil)
	withFav, err := members.Create(ctx, "fav@example.com", "hash", "fav", nil)
	require.NoError(t, err)
	without, err := members.Create(ctx, "none@example.com", "hash", "none", nil)
	require.NoError(t, err)

	// Adding a favorite for a missing contact rolls back cleanly.
	require.ErrorIs(t, favorites.Add(ctx, withFav.MemberID, 999), ErrNotFound)

	require.NoError(t, favorites.Add(ctx, withFav.MemberID, abID))
	require.ErrorIs(t, favorites.Add(ctx, withFav.MemberID, abID), ErrConstraint)

	listed, err := favorites.ListByMember(ctx, withFav.MemberID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "王小明", listed[0].Contact.Name)

	some, err := members.Find(ctx, MemberFilter{FavoritesSome: true})
	require.NoError(t, err)
	require.Len(t, some, 1)
	require.Equal(t, withFav.MemberID, some[0].MemberID)

	none, err := members.Find(ctx, MemberFilter{FavoritesNone: true})
	require.NoError(t, err)
	require.Len(t, none, 1)
	require.Equal(t, without.MemberID, none[0].MemberID)

	require.NoError(t, favorites.Remove(ctx, withFav.MemberID, abID))
	require.ErrorIs(t, favorites.Remove(ctx, withFav.MemberID, abID), ErrNotFound)
}

func TestUserCRUD(t *testing.T) {
	db := newTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	created, err := s.Create(ctx, "John", "Wick", "john.wick@example.com")
	require.NoError(t, err)

	listed, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	updated, err := s.Update(ctx, created.ID, models.UpdateUserRequest{LastName: "Doe"})
	require.NoError(t, err)
	require.Equal(t, "Doe", updated.LastName)
	require.Equal(t, "John", updated.FirstName)

	deleted, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)

	_, err = s.Delete(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
