package shell

import "github.com/novawl/compositor/internal/surface"

// Anchor is the edge-bitmask shared by xdg_positioner anchors/gravities
// and layer_shell anchors (§6 "Anchor is a bitmask of the four edges").
type Anchor uint32

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

// ConstraintAdjustment is xdg_positioner's adjustment bitmask.
type ConstraintAdjustment uint32

const (
	AdjustSlideX ConstraintAdjustment = 1 << iota
	AdjustSlideY
	AdjustFlipX
	AdjustFlipY
	AdjustResizeX
	AdjustResizeY
)

// Positioner carries everything xdg_positioner accumulates before a popup
// is created (§6 "Popup positioning").
type Positioner struct {
	AnchorRect surface.Rect
	AnchorEdge Anchor
	Gravity    Anchor
	Width      int32
	Height     int32
	OffsetX    int32
	OffsetY    int32
	Adjustment ConstraintAdjustment
}

// idealPlacement computes the unconstrained rectangle: the anchor point
// on AnchorRect per AnchorEdge, offset, then grown in the direction
// Gravity points, sized Width x Height.
func (p Positioner) idealPlacement() surface.Rect {
	ax, ay := p.anchorPoint()
	ax += p.OffsetX
	ay += p.OffsetY

	x, y := ax, ay
	if p.Gravity&AnchorLeft != 0 {
		x -= p.Width
	} else if p.Gravity&AnchorRight == 0 {
		x -= p.Width / 2
	}
	if p.Gravity&AnchorTop != 0 {
		y -= p.Height
	} else if p.Gravity&AnchorBottom == 0 {
		y -= p.Height / 2
	}
	return surface.Rect{X: x, Y: y, W: p.Width, H: p.Height}
}

func (p Positioner) anchorPoint() (int32, int32) {
	x := p.AnchorRect.X + p.AnchorRect.W/2
	y := p.AnchorRect.Y + p.AnchorRect.H/2
	if p.AnchorEdge&AnchorLeft != 0 {
		x = p.AnchorRect.X
	} else if p.AnchorEdge&AnchorRight != 0 {
		x = p.AnchorRect.X + p.AnchorRect.W
	}
	if p.AnchorEdge&AnchorTop != 0 {
		y = p.AnchorRect.Y
	} else if p.AnchorEdge&AnchorBottom != 0 {
		y = p.AnchorRect.Y + p.AnchorRect.H
	}
	return x, y
}

// flippedX mirrors the placement to the opposite side of the anchor
// rectangle along X, by inverting the anchor and gravity edges used to
// compute it.
func (p Positioner) flippedX() Positioner {
	q := p
	q.AnchorEdge = flipEdge(p.AnchorEdge, AnchorLeft, AnchorRight)
	q.Gravity = flipEdge(p.Gravity, AnchorLeft, AnchorRight)
	return q
}

func (p Positioner) flippedY() Positioner {
	q := p
	q.AnchorEdge = flipEdge(p.AnchorEdge, AnchorTop, AnchorBottom)
	q.Gravity = flipEdge(p.Gravity, AnchorTop, AnchorBottom)
	return q
}

func flipEdge(a Anchor, lo, hi Anchor) Anchor {
	switch {
	case a&lo != 0:
		return a&^lo | hi
	case a&hi != 0:
		return a&^hi | lo
	default:
		return a
	}
}

// Place computes the final popup rectangle per §6: attempt the ideal
// placement, then apply adjustments in the fixed order flip-x, flip-y,
// slide-x, slide-y, resize-x, resize-y, stopping at the first placement
// that fits entirely within bounds.
func (p Positioner) Place(bounds surface.Rect) surface.Rect {
	r := p.idealPlacement()
	if within(r, bounds) {
		return r
	}

	if p.Adjustment&AdjustFlipX != 0 && (r.X < bounds.X || r.X+r.W > bounds.X+bounds.W) {
		if fr := p.flippedX().idealPlacement(); fr.X >= bounds.X && fr.X+fr.W <= bounds.X+bounds.W {
			r.X = fr.X
		}
	}
	if p.Adjustment&AdjustFlipY != 0 && (r.Y < bounds.Y || r.Y+r.H > bounds.Y+bounds.H) {
		if fr := p.flippedY().idealPlacement(); fr.Y >= bounds.Y && fr.Y+fr.H <= bounds.Y+bounds.H {
			r.Y = fr.Y
		}
	}
	if within(r, bounds) {
		return r
	}

	if p.Adjustment&AdjustSlideX != 0 {
		r = slideX(r, bounds)
	}
	if p.Adjustment&AdjustSlideY != 0 {
		r = slideY(r, bounds)
	}
	if within(r, bounds) {
		return r
	}

	if p.Adjustment&AdjustResizeX != 0 {
		r = resizeX(r, bounds)
	}
	if p.Adjustment&AdjustResizeY != 0 {
		r = resizeY(r, bounds)
	}
	return r
}

func within(r, bounds surface.Rect) bool {
	return r.X >= bounds.X && r.Y >= bounds.Y &&
		r.X+r.W <= bounds.X+bounds.W && r.Y+r.H <= bounds.Y+bounds.H
}

func slideX(r, bounds surface.Rect) surface.Rect {
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if over := r.X + r.W - (bounds.X + bounds.W); over > 0 {
		r.X -= over
	}
	return r
}

func slideY(r, bounds surface.Rect) surface.Rect {
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	if over := r.Y + r.H - (bounds.Y + bounds.H); over > 0 {
		r.Y -= over
	}
	return r
}

func resizeX(r, bounds surface.Rect) surface.Rect {
	if r.X < bounds.X {
		r.W -= bounds.X - r.X
		r.X = bounds.X
	}
	if over := r.X + r.W - (bounds.X + bounds.W); over > 0 {
		r.W -= over
	}
	return r
}

func resizeY(r, bounds surface.Rect) surface.Rect {
	if r.Y < bounds.Y {
		r.H -= bounds.Y - r.Y
		r.Y = bounds.Y
	}
	if over := r.Y + r.H - (bounds.Y + bounds.H); over > 0 {
		r.H -= over
	}
	return r
}

// PopupState is the xdg_popup role's state.
type PopupState struct {
	Surface   surface.ID
	Parent    surface.ID
	Configure ConfigureState
	Positioner Positioner
	Placement surface.Rect
	Grabbed   bool
}

// NewPopup resolves the popup's final placement against the given
// available bounds (the output's usable area after exclusive zones, per
// §6's layer-shell interaction) and records it.
func NewPopup(id, parent surface.ID, pos Positioner, bounds surface.Rect) *PopupState {
	return &PopupState{
		Surface:    id,
		Parent:     parent,
		Positioner: pos,
		Placement:  pos.Place(bounds),
	}
}
