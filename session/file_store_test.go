package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testSessionMember() Member {
	return Member{
		MemberID: 3,
		Email:    "ming@example.com",
		Nickname: "ming",
		CreateAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestFileStoreSetAndGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	id := NewSessionID()

	require.NoError(t, store.SetMember(ctx, id, testSessionMember()))

	member, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, member)
	require.Equal(t, int64(3), member.MemberID)
	require.Equal(t, "ming@example.com", member.Email)
}

func TestFileStoreUnknownSession(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), NewSessionID())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestFileStoreExpiry(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), -time.Second)
	require.NoError(t, err)

	ctx := context.Background()
	id := NewSessionID()
	require.NoError(t, store.SetMember(ctx, id, testSessionMember()))

	_, err = store.Get(ctx, id)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestFileStoreClearMember(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	id := NewSessionID()
	require.NoError(t, store.SetMember(ctx, id, testSessionMember()))
	require.NoError(t, store.ClearMember(ctx, id))

	// The session survives as anonymous.
	member, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, member)
}

func TestFileStoreClearMemberNoSession(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	err = store.ClearMember(context.Background(), NewSessionID())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestFileStoreDestroy(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	id := NewSessionID()
	require.NoError(t, store.SetMember(ctx, id, testSessionMember()))
	require.NoError(t, store.Destroy(ctx, id))

	_, err = store.Get(ctx, id)
	require.ErrorIs(t, err, ErrNoSession)

	// Destroying an absent session is fine.
	require.NoError(t, store.Destroy(ctx, id))
}

// A write that has returned is on disk: a fresh store over the same
// directory (as after a process restart) observes it immediately.
func TestFileStoreDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	id := NewSessionID()

	store, err := NewFileStore(dir, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.SetMember(ctx, id, testSessionMember()))

	reopened, err := NewFileStore(dir, time.Minute)
	require.NoError(t, err)

	member, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, member)
	require.Equal(t, int64(3), member.MemberID)
}

// A forged session id must not read or write outside the session dir.
func TestFileStorePathTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "../../etc/passwd")
	require.ErrorIs(t, err, ErrNoSession)
}
