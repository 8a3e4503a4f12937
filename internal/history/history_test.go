package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Entry{At: at, Action: ActionSaveForwardNumber, MobileNumber: "111", Detail: "999", OK: true}))
	require.NoError(t, s.Record(ctx, Entry{Action: ActionSetForwardStatus, MobileNumber: "222", Detail: "active", Message: "limit exceeded"}))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ActionSetForwardStatus, entries[0].Action)
	assert.False(t, entries[0].OK)
	assert.Equal(t, "limit exceeded", entries[0].Message)
	assert.False(t, entries[0].At.IsZero())

	assert.Equal(t, ActionSaveForwardNumber, entries[1].Action)
	assert.True(t, entries[1].OK)
	assert.True(t, at.Equal(entries[1].At))
}

func TestStore_ForMobileAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, Entry{Action: ActionRelayMessage, MobileNumber: "111", OK: true}))
	}
	require.NoError(t, s.Record(ctx, Entry{Action: ActionRelayMessage, MobileNumber: "222", OK: true}))

	entries, err := s.ForMobile(ctx, "111", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "111", e.MobileNumber)
	}

	all, err := s.Recent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Entry{Action: ActionRelayMessage, MobileNumber: "1"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
