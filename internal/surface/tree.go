package surface

// Tree is the arena owning every live surface for one compositor run (in
// practice one per client would also work; a single shared arena keeps
// cross-client subsurface-reparent checks, which never happen, simple to
// reason about). Indices are stable for the lifetime of a surface.
type Tree struct {
	surfaces []*Surface
	free     []ID
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{}
}

// Create allocates a new, roleless surface and returns its id.
func (t *Tree) Create() *Surface {
	s := &Surface{pending: newState(), current: newState(), Parent: NoID}
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		s.id = id
		t.surfaces[id] = s
		return s
	}
	s.id = ID(len(t.surfaces))
	t.surfaces = append(t.surfaces, s)
	return s
}

// Get resolves an id to its Surface, or nil if it was destroyed.
func (t *Tree) Get(id ID) *Surface {
	if id < 0 || int(id) >= len(t.surfaces) {
		return nil
	}
	return t.surfaces[id]
}

// Destroy removes a surface from the arena. The caller must have already
// unlinked it from any parent's Children list and reparented or destroyed
// its own children (subsurfaces never outlive their client, §3
// Ownership, but the arena itself does not enforce that; the protocol
// handler layer does, since only it knows client boundaries).
func (t *Tree) Destroy(id ID) {
	if t.Get(id) == nil {
		return
	}
	t.surfaces[id] = nil
	t.free = append(t.free, id)
}

// SetParent links child under parent, appending child to parent's
// ordered child list (subsurface creation).
func (t *Tree) SetParent(child, parent ID) {
	c := t.Get(child)
	p := t.Get(parent)
	if c == nil || p == nil {
		return
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
}

// PlaceAbove moves child to immediately above sibling in their shared
// parent's child list (§4.3); it scans and shifts the list, so it is
// linear in the number of siblings.
func (t *Tree) PlaceAbove(child, sibling ID) {
	t.reorder(child, sibling, 1)
}

// PlaceBelow moves child to immediately below sibling.
func (t *Tree) PlaceBelow(child, sibling ID) {
	t.reorder(child, sibling, 0)
}

func (t *Tree) reorder(child, sibling ID, offset int) {
	c := t.Get(child)
	if c == nil {
		return
	}
	p := t.Get(c.Parent)
	if p == nil {
		return
	}
	list := p.Children
	var ci, si = -1, -1
	for i, id := range list {
		if id == child {
			ci = i
		}
		if id == sibling {
			si = i
		}
	}
	if ci == -1 || si == -1 {
		return
	}
	list = append(list[:ci], list[ci+1:]...)
	if ci < si {
		si--
	}
	insertAt := si + offset
	if insertAt > len(list) {
		insertAt = len(list)
	}
	list = append(list, NoID)
	copy(list[insertAt+1:], list[insertAt:])
	list[insertAt] = child
	p.Children = list
}
