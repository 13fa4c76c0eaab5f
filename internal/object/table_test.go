package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertAndLookup(t *testing.T) {
	tbl := New(1)
	r, err := tbl.Insert(3, "wl_surface", 4, "payload")
	require.NoError(t, err)
	require.Equal(t, "payload", r.Data)

	got, ok := tbl.Lookup(3)
	require.True(t, ok)
	require.Same(t, r, got)
}

func TestInsertRejectsLiveDuplicate(t *testing.T) {
	tbl := New(1)
	_, err := tbl.Insert(3, "wl_surface", 4, nil)
	require.NoError(t, err)
	_, err = tbl.Insert(3, "wl_surface", 4, nil)
	require.Error(t, err)
}

func TestDestroyTolerated(t *testing.T) {
	tbl := New(1)
	_, err := tbl.Insert(5, "wl_buffer", 1, nil)
	require.NoError(t, err)

	tbl.Destroy(5)
	_, ok := tbl.Lookup(5)
	require.False(t, ok, "destroyed ids must be tolerated as absent, not errors")

	pending := tbl.DrainPending()
	require.Equal(t, []uint32{5}, pending)
	require.Empty(t, tbl.DrainPending())
}

func TestInsertReusesDestroyedID(t *testing.T) {
	tbl := New(1)
	_, err := tbl.Insert(7, "wl_buffer", 1, nil)
	require.NoError(t, err)
	tbl.Destroy(7)

	_, err = tbl.Insert(7, "wl_buffer", 1, "new")
	require.NoError(t, err)
}

func TestMinVersionOK(t *testing.T) {
	r := &Resource{Version: 4}
	require.True(t, MinVersionOK(r, 4))
	require.True(t, MinVersionOK(r, 2))
	require.False(t, MinVersionOK(r, 5))
}

func TestRangeSkipsDestroying(t *testing.T) {
	tbl := New(1)
	_, _ = tbl.Insert(1, "a", 1, nil)
	_, _ = tbl.Insert(2, "b", 1, nil)
	tbl.Destroy(1)

	var seen []uint32
	tbl.Range(func(r *Resource) { seen = append(seen, r.ID) })
	require.Equal(t, []uint32{2}, seen)
}
