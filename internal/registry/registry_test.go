package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAndBindClampsVersion(t *testing.T) {
	r := New()
	g := r.Add("wl_compositor", 6)

	iface, version, ok := r.Bind(g.Name, 10)
	require.True(t, ok)
	require.Equal(t, "wl_compositor", iface)
	require.Equal(t, uint32(6), version, "bind must clamp to global_max_version")

	iface, version, ok = r.Bind(g.Name, 2)
	require.True(t, ok)
	require.Equal(t, "wl_compositor", iface)
	require.Equal(t, uint32(2), version)
}

func TestBindUnknownNameFails(t *testing.T) {
	r := New()
	_, _, ok := r.Bind(999, 1)
	require.False(t, ok)
}

func TestRemoveStillAllowsExistingBindCallSiteButRejectsFutureBind(t *testing.T) {
	r := New()
	g := r.Add("wl_seat", 8)
	r.Remove(g.Name)

	_, _, ok := r.Bind(g.Name, 8)
	require.False(t, ok, "a removed global must reject new binds")
}

func TestSnapshotOrderedAndExcludesRemoved(t *testing.T) {
	r := New()
	a := r.Add("wl_shm", 1)
	b := r.Add("wl_output", 4)
	r.Remove(a.Name)

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, b.Name, snap[0].Name)
}
