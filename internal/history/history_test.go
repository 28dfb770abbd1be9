package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	require.NoError(t, err)
	_, err = db.Record(Attempt{Serial: "abcd1234", Outcome: OutcomeOK, IP: "10.0.0.5"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(dir)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Recent(10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.FileExists(t, filepath.Join(dir, "history.db"))
}

func TestRecentNewestFirst(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	for i, outcome := range []string{"no-device", OutcomeOK, "verify-failed"} {
		_, err := db.Record(Attempt{
			Serial:    "abcd1234",
			IP:        "10.0.0.5",
			Outcome:   outcome,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	got, err := db.Recent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "verify-failed", got[0].Outcome)
	assert.Equal(t, OutcomeOK, got[1].Outcome)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestLastIP(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	_, ok, err := db.LastIP("abcd1234")
	require.NoError(t, err)
	assert.False(t, ok)

	records := []Attempt{
		{Serial: "abcd1234", IP: "10.0.0.5", Outcome: OutcomeOK, CreatedAt: base},
		{Serial: "abcd1234", IP: "10.0.0.6", Outcome: OutcomeOK, CreatedAt: base.Add(time.Hour)},
		{Serial: "abcd1234", IP: "10.0.0.7", Outcome: "verify-failed", CreatedAt: base.Add(2 * time.Hour)},
		{Serial: "other", IP: "10.0.0.8", Outcome: OutcomeOK, CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, r := range records {
		_, err := db.Record(r)
		require.NoError(t, err)
	}

	ip, ok, err := db.LastIP("abcd1234")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.6", ip)
}
