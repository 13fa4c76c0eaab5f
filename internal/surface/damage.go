package surface

// MaxDamageRects bounds how many individual damage rectangles a surface
// tracks before collapsing to its bounding box instead (§4.3 "Damage
// accumulation").
const MaxDamageRects = 16

// AddSurfaceDamage unions a surface-local damage rectangle into the
// pending state, collapsing to the bounding box once the rectangle count
// threshold is exceeded (§4.3 "Damage accumulation").
func (s *State) AddSurfaceDamage(r Rect) {
	s.SurfaceDamage = addDamage(s.SurfaceDamage, r)
}

// AddBufferDamage is the buffer-local analog (wl_surface.damage_buffer).
func (s *State) AddBufferDamage(r Rect) {
	s.BufferDamage = addDamage(s.BufferDamage, r)
}

func addDamage(rects []Rect, r Rect) []Rect {
	if r.Empty() {
		return rects
	}
	if len(rects) >= MaxDamageRects {
		// At the threshold: collapse every tracked rectangle, r included,
		// into their single bounding box.
		bbox := r
		for _, rr := range rects {
			bbox = bbox.Union(rr)
		}
		rects[0] = bbox
		return rects[:1]
	}
	rects = append(rects, r)
	if len(rects) > MaxDamageRects {
		bbox := rects[0]
		for _, rr := range rects[1:] {
			bbox = bbox.Union(rr)
		}
		rects = rects[:1]
		rects[0] = bbox
	}
	return rects
}

// ClipDamageToExtent clips every accumulated surface-damage rectangle to
// the surface's current extent (invariant (ii)), called once at commit
// time when the extent is finally known (buffer size / viewport
// destination).
func (s *State) ClipDamageToExtent(extent Rect) {
	out := s.SurfaceDamage[:0]
	for _, r := range s.SurfaceDamage {
		if c := r.Clip(extent); !c.Empty() {
			out = append(out, c)
		}
	}
	s.SurfaceDamage = out
}

// ClipRegionToExtent clips a region's rectangles to extent (invariant
// (iii), applied to opaque/input regions).
func ClipRegionToExtent(reg Region, extent Rect) Region {
	out := Region{}
	for _, r := range reg.Rects {
		if c := r.Clip(extent); !c.Empty() {
			out.Rects = append(out.Rects, c)
		}
	}
	return out
}

// Extent computes the surface's local bounding box from its current
// buffer size, scale, and any viewport destination override.
func (s *State) Extent() Rect {
	if s.ViewportDstW > 0 && s.ViewportDstH > 0 {
		return Rect{W: s.ViewportDstW, H: s.ViewportDstH}
	}
	if s.Buffer == nil {
		return Rect{}
	}
	w := s.Buffer.Width / max32(s.BufferScale, 1)
	h := s.Buffer.Height / max32(s.BufferScale, 1)
	return Rect{W: w, H: h}
}
