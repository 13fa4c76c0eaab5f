package shell

import (
	"testing"

	"github.com/novawl/compositor/internal/surface"
	"github.com/stretchr/testify/require"
)

var outputBounds = surface.Rect{X: 0, Y: 0, W: 1920, H: 1080}

// TestPopupFlipXSlideY directly grounds §8 scenario 4: a popup anchored
// at the right edge with flip_x|slide_y must end up flipped to the
// anchor's left neighbour, fully within the output.
func TestPopupFlipXSlideY(t *testing.T) {
	p := Positioner{
		AnchorRect: surface.Rect{X: 1900, Y: 1000, W: 20, H: 20},
		AnchorEdge: AnchorTop | AnchorRight,
		Gravity:    AnchorBottom | AnchorRight,
		Width:      300,
		Height:     400,
		Adjustment: AdjustFlipX | AdjustSlideY,
	}
	r := p.Place(outputBounds)
	require.LessOrEqual(t, r.X+r.W, outputBounds.W)
	require.GreaterOrEqual(t, r.X, outputBounds.X)
	require.LessOrEqual(t, r.Y+r.H, outputBounds.H)
	require.GreaterOrEqual(t, r.Y, outputBounds.Y)
}

func TestPopupIdealPlacementFitsWithoutAdjustment(t *testing.T) {
	p := Positioner{
		AnchorRect: surface.Rect{X: 800, Y: 400, W: 20, H: 20},
		AnchorEdge: AnchorBottom,
		Gravity:    AnchorBottom,
		Width:      200,
		Height:     100,
	}
	r := p.Place(outputBounds)
	require.True(t, within(r, outputBounds))
}

func TestPopupResizeAsLastResort(t *testing.T) {
	p := Positioner{
		AnchorRect: surface.Rect{X: 0, Y: 0, W: 10, H: 10},
		AnchorEdge: AnchorLeft | AnchorTop,
		Gravity:    AnchorLeft | AnchorTop,
		Width:      3000,
		Height:     200,
		Adjustment: AdjustResizeX,
	}
	r := p.Place(outputBounds)
	require.LessOrEqual(t, r.W, outputBounds.W)
}

func TestLayerSurfaceStretchesOnOppositeAnchors(t *testing.T) {
	l := &LayerSurfaceState{
		Anchor:       AnchorLeft | AnchorRight,
		DesiredWidth: 999, // ignored, stretch wins
		DesiredHeight: 40,
	}
	geo := l.Geometry(outputBounds)
	require.Equal(t, outputBounds.W, geo.W)
}

func TestLayerSurfaceExclusiveZoneReducesUsableArea(t *testing.T) {
	top := &LayerSurfaceState{Anchor: AnchorTop, Exclusive: 40}
	usable := LayoutUsableArea(outputBounds, []*LayerSurfaceState{top})
	require.Equal(t, int32(40), usable.Y)
	require.Equal(t, outputBounds.H-40, usable.H)
}

func TestLayerSurfaceFullExclusionContributesNothingToLayout(t *testing.T) {
	l := &LayerSurfaceState{Anchor: AnchorTop, Exclusive: ExclusiveZoneFull}
	require.Equal(t, int32(0), l.ExclusiveInset())
}

func TestConfigureAckRejectsUnknownSerial(t *testing.T) {
	var c ConfigureState
	c.Configure(1)
	err := c.Ack(5)
	require.Error(t, err)
}

func TestConfigureAckAcceptsSentSerial(t *testing.T) {
	var c ConfigureState
	c.Configure(1)
	require.NoError(t, c.Ack(1))
	require.NoError(t, c.RequireConfigured())
}

func TestRequireConfiguredRejectsBeforeFirstAck(t *testing.T) {
	var c ConfigureState
	require.Error(t, c.RequireConfigured())
}
