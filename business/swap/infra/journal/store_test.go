package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "journal.db"), filepath.Join(dir, "journal.lock"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.Outcome{
		RunID: "run-1", Account: "0x01", Cycle: 1, Index: 1,
		Entry:  domain.PlanEntry{Pool: "SUI_USDC"},
		Source: "SUI", Target: "USDC",
		Status: domain.StatusSucceeded, Amount: "45", Digest: "D1", Attempts: 1,
	}))
	require.NoError(t, store.Record(ctx, domain.Outcome{
		RunID: "run-1", Account: "0x01", Cycle: 1, Index: 2,
		Entry:  domain.PlanEntry{Pool: "USDC_SUI"},
		Source: "USDC", Target: "SUI",
		Status: domain.StatusFailed, Err: errors.New("dry run: abort"), Attempts: 3,
	}))

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	newest := entries[0]
	assert.Equal(t, "USDC_SUI", newest.Pool)
	assert.Equal(t, domain.StatusFailed, newest.Status)
	assert.Equal(t, "dry run: abort", newest.Error)
	assert.Equal(t, 3, newest.Attempts)
	assert.Equal(t, 2, newest.Index)
	assert.NotEmpty(t, newest.ID)

	oldest := entries[1]
	assert.Equal(t, "D1", oldest.Digest)
	assert.Equal(t, "45", oldest.Amount)
	assert.Equal(t, "", oldest.Error)
	assert.True(t, oldest.CreatedAt.Equal(base.Add(time.Second)))
	assert.NotEqual(t, newest.ID, oldest.ID)

	limited, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newest.ID, limited[0].ID)
}

func TestStore_ReopenKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	store, err := Open(path, "")
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), domain.Outcome{
		RunID: "run-1", Entry: domain.PlanEntry{Pool: "SUI_WAL"}, Status: domain.StatusSkipped,
	}))
	require.NoError(t, store.Close())

	store, err = Open(path, "")
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.StatusSkipped, entries[0].Status)
}
