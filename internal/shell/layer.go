package shell

import "github.com/novawl/compositor/internal/surface"

// Layer is one of the four z-ordered layer-shell planes (§6, GLOSSARY
// "Layer"), strictly ordered background < bottom < top < overlay.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// ExclusiveZone reserves screen space from an anchored edge. A positive
// value reserves that many pixels from the anchored edge; 0 and -1
// (ExclusiveZoneFull) both reserve nothing from the usable layout area
// (§6 "Layer-shell").
type ExclusiveZone int32

const (
	ExclusiveZoneNone ExclusiveZone = 0
	ExclusiveZoneFull ExclusiveZone = -1
)

// LayerSurfaceState is the zwlr_layer_surface_v1 role's state.
type LayerSurfaceState struct {
	Surface       surface.ID
	Output        string // empty means "compositor picks"
	Layer         Layer
	Namespace     string
	Anchor        Anchor
	Exclusive     ExclusiveZone
	MarginTop     int32
	MarginBottom  int32
	MarginLeft    int32
	MarginRight   int32
	DesiredWidth  int32
	DesiredHeight int32
	Configure     ConfigureState
}

// Geometry resolves the layer surface's placement and size within an
// output's usable area. When opposite anchors are both set, the surface
// stretches to fill that axis (§6 "when opposite anchors are set the
// surface stretches").
func (l *LayerSurfaceState) Geometry(usable surface.Rect) surface.Rect {
	w, h := l.DesiredWidth, l.DesiredHeight
	stretchX := l.Anchor&AnchorLeft != 0 && l.Anchor&AnchorRight != 0
	stretchY := l.Anchor&AnchorTop != 0 && l.Anchor&AnchorBottom != 0

	if stretchX {
		w = usable.W - l.MarginLeft - l.MarginRight
	}
	if stretchY {
		h = usable.H - l.MarginTop - l.MarginBottom
	}

	x := usable.X + (usable.W-w)/2
	y := usable.Y + (usable.H-h)/2

	if l.Anchor&AnchorLeft != 0 {
		x = usable.X + l.MarginLeft
	} else if l.Anchor&AnchorRight != 0 {
		x = usable.X + usable.W - w - l.MarginRight
	}
	if l.Anchor&AnchorTop != 0 {
		y = usable.Y + l.MarginTop
	} else if l.Anchor&AnchorBottom != 0 {
		y = usable.Y + usable.H - h - l.MarginBottom
	}

	return surface.Rect{X: x, Y: y, W: w, H: h}
}

// ExclusiveInset returns how many pixels this layer surface reserves
// from its anchored edge, or 0 if it has no single anchored edge (an
// exclusive zone with opposite or zero anchors set contributes nothing
// to the layout, matching the upstream protocol's documented behavior).
func (l *LayerSurfaceState) ExclusiveInset() int32 {
	if l.Exclusive <= 0 {
		return 0
	}
	single := (l.Anchor == AnchorTop) || (l.Anchor == AnchorBottom) ||
		(l.Anchor == AnchorLeft) || (l.Anchor == AnchorRight)
	if !single {
		return 0
	}
	return int32(l.Exclusive)
}

// LayoutUsableArea reduces bounds by the exclusive insets of every layer
// surface anchored to a single edge, applied in the order of the layers
// slice; it does not sort them by Layer (§6 "The scene manager consults
// exclusive zones when computing the usable area for toplevels").
func LayoutUsableArea(bounds surface.Rect, layers []*LayerSurfaceState) surface.Rect {
	usable := bounds
	for _, l := range layers {
		inset := l.ExclusiveInset()
		if inset == 0 {
			continue
		}
		switch l.Anchor {
		case AnchorTop:
			usable.Y += inset
			usable.H -= inset
		case AnchorBottom:
			usable.H -= inset
		case AnchorLeft:
			usable.X += inset
			usable.W -= inset
		case AnchorRight:
			usable.W -= inset
		}
	}
	return usable
}
