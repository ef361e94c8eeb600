package snapshot_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/staffscope-cli/internal/analysis"
	"github.com/KaramelBytes/staffscope-cli/internal/record"
	"github.com/KaramelBytes/staffscope-cli/internal/snapshot"
)

func report(t *testing.T) *analysis.Report {
	t.Helper()
	cols := []string{"name", "department", "baseSalary", "allowanceHousing"}
	raws := []*record.Raw{
		record.NewRaw(cols, map[string]any{"name": "A", "department": "IT", "baseSalary": "8000", "allowanceHousing": "1500"}),
		record.NewRaw(cols, map[string]any{"name": "B", "department": "HR", "baseSalary": "9000", "allowanceHousing": "1200"}),
	}
	return analysis.Run("staff.csv", raws, analysis.DefaultOptions())
}

func TestSaveLoadList(t *testing.T) {
	store := snapshot.NewStore(filepath.Join(t.TempDir(), "snaps"))

	metas, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, metas)

	snap, err := store.Save("staff.csv", report(t))
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)

	got, err := store.Load(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "staff.csv", got.Source)
	require.NotNil(t, got.Report)
	assert.Equal(t, 2, got.Report.Rows)
	assert.InDelta(t, 19700, got.Report.Summary.TotalComp, 1e-9)
	require.NotNil(t, got.Report.Hierarchy)
	assert.True(t, got.Report.Hierarchy.Available())

	byPrefix, err := store.Load(snap.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, snap.ID, byPrefix.ID)

	_, err = store.Save("other.csv", report(t))
	require.NoError(t, err)
	metas, err = store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "other.csv", metas[0].Source)
	assert.Equal(t, 2, metas[1].Rows)
}

func TestLoadMissing(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	_, err := store.Load("does-not-exist")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
	_, err = store.Load("8f14e45f-ceea-467e-a5b6-39c1c0f0a4b2")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}
