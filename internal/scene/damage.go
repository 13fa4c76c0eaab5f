package scene

import "github.com/novawl/compositor/internal/surface"

// damageHistoryDepth bounds how many past frames' damage the buffer-age
// algorithm can reconstruct; ages beyond this fall back to full damage.
const damageHistoryDepth = 8

// DamageTracker accumulates undrawn damage for one output and answers
// buffer-age scissor queries (§4.6 "Per-output damage").
type DamageTracker struct {
	pending surface.Rect   // unioned damage not yet consumed by a render
	history []surface.Rect // history[0] is the most recent frame's damage
}

// Add unions a new damage rectangle into the pending region.
func (d *DamageTracker) Add(r surface.Rect) {
	d.pending = d.pending.Union(r)
}

// HasDamage reports whether anything is pending (drives IDLE->DIRTY).
func (d *DamageTracker) HasDamage() bool {
	return !d.pending.Empty()
}

// ScissorForAge returns the damage region a renderer must redraw when the
// target back-buffer has the given age: the union of the last `age`
// frames' damage (§4.6). Age 0 (unknown history, e.g. a freshly created
// buffer) means "redraw everything" — the caller is expected to treat a
// zero Rect specially and fall back to the full output bounds.
func (d *DamageTracker) ScissorForAge(age int) surface.Rect {
	if age <= 0 || age > len(d.history) {
		return surface.Rect{} // signals "full redraw" to the caller
	}
	var region surface.Rect
	for i := 0; i < age; i++ {
		region = region.Union(d.history[i])
	}
	return region
}

// Advance is called once a frame has been rendered: it pushes the
// pending region onto history (bounded to damageHistoryDepth) and clears
// it for the next accumulation cycle.
func (d *DamageTracker) Advance() {
	d.history = append([]surface.Rect{d.pending}, d.history...)
	if len(d.history) > damageHistoryDepth {
		d.history = d.history[:damageHistoryDepth]
	}
	d.pending = surface.Rect{}
}
