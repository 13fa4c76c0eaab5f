package surface

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleSetOnce(t *testing.T) {
	tree := NewTree()
	s := tree.Create()
	require.True(t, s.SetRole(RoleToplevel))
	require.False(t, s.SetRole(RolePopup), "role switches must be rejected once set (invariant i)")
	require.True(t, s.SetRole(RoleToplevel), "re-asserting the same role is a no-op success")
}

func TestPlaceAboveBelow(t *testing.T) {
	tree := NewTree()
	parent := tree.Create()
	a := tree.Create()
	b := tree.Create()
	c := tree.Create()
	tree.SetParent(a.ID(), parent.ID())
	tree.SetParent(b.ID(), parent.ID())
	tree.SetParent(c.ID(), parent.ID())
	require.Equal(t, []ID{a.ID(), b.ID(), c.ID()}, parent.Children)

	tree.PlaceAbove(c.ID(), a.ID())
	require.Equal(t, []ID{a.ID(), c.ID(), b.ID()}, parent.Children)

	tree.PlaceBelow(c.ID(), a.ID())
	require.Equal(t, []ID{c.ID(), a.ID(), b.ID()}, parent.Children)
}

func TestDestroyAndReuseID(t *testing.T) {
	tree := NewTree()
	s := tree.Create()
	id := s.ID()
	tree.Destroy(id)
	require.Nil(t, tree.Get(id))

	s2 := tree.Create()
	require.Equal(t, id, s2.ID(), "freed arena slots must be reused")
}
