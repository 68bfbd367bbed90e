package store

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StegoLab/pkg/models"
	"StegoLab/pkg/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(id, at string) *report.Report {
	r := report.Build(report.Params{
		Width:          64,
		Height:         64,
		Method:         "sequential",
		BitsPerChannel: 1,
		Message:        "history",
		Capacity:       1532,
		Assessment: models.Assessment{
			Risk: models.RiskAssessment{Level: models.RiskLow, Reason: "low load"},
		},
	})
	r.Meta.ReportID = id
	r.Meta.GeneratedAtUTC = at
	return r
}

func TestSaveGet(t *testing.T) {
	s := openTestStore(t)
	r := sampleReport("a", "2024-01-01T00:00:00Z")
	require.NoError(t, s.Save(r))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, r.Meta, got.Meta)
	assert.Equal(t, r.Embedding, got.Embedding)
	assert.Equal(t, models.RiskLow, got.Risk.Level)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_Validation(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Save(nil))
	assert.Error(t, s.Save(sampleReport("", "2024-01-01T00:00:00Z")))
}

func TestList_Ordered(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleReport("c", "2024-03-01T00:00:00Z")))
	require.NoError(t, s.Save(sampleReport("a", "2024-01-01T00:00:00Z")))
	require.NoError(t, s.Save(sampleReport("b", "2024-01-01T00:00:00Z")))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Meta.ReportID)
	assert.Equal(t, "b", list[1].Meta.ReportID)
	assert.Equal(t, "c", list[2].Meta.ReportID)
}

func TestSave_Overwrites(t *testing.T) {
	s := openTestStore(t)
	r := sampleReport("same", "2024-01-01T00:00:00Z")
	require.NoError(t, s.Save(r))
	r.Recommendation = "updated"
	require.NoError(t, s.Save(r))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "updated", list[0].Recommendation)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleReport("x", "2024-01-01T00:00:00Z")))
	require.NoError(t, s.Delete("x"))
	_, err := s.Get("x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete("never-there"))
}

func TestValuesAreCompressed(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleReport("z", "2024-01-01T00:00:00Z")))

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key("z"))
		require.NoError(t, err)
		return item.Value(func(val []byte) error {
			assert.NotEqual(t, byte('{'), val[0])
			return nil
		})
	})
	require.NoError(t, err)
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleReport("disk", "2024-01-01T00:00:00Z")))
	require.NoError(t, s.Close())

	s, err = Open(Options{Path: dir})
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get("disk")
	require.NoError(t, err)
	assert.Equal(t, "disk", got.Meta.ReportID)

	_, err = Open(Options{})
	assert.Error(t, err)
}
