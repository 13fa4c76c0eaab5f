package scene

import (
	"testing"
	"time"

	"github.com/novawl/compositor/internal/surface"
	"github.com/stretchr/testify/require"
)

func testOutput() *Output {
	return NewOutput("HEADLESS-1", Mode{Width: 1920, Height: 1080, RefreshMHz: 60000}, 1, 0, 0)
}

func TestRepaintStateMachineFullCycle(t *testing.T) {
	o := testOutput()
	s := o.Scheduler()
	require.Equal(t, StateIdle, s.State())

	s.PostDamage(surface.Rect{X: 0, Y: 0, W: 10, H: 10})
	require.Equal(t, StateDirty, s.State())

	rl, ok := s.BeginRender(0, func() []surface.ID { return []surface.ID{1, 2} })
	require.True(t, ok)
	require.Equal(t, StateRendering, s.State())
	require.ElementsMatch(t, []surface.ID{1, 2}, rl.Surfaces)
	require.True(t, rl.Scissor.Empty(), "unknown back-buffer age must request a full redraw")

	s.SubmitComplete()
	require.Equal(t, StatePresented, s.State())

	fc := s.ConfirmPresented(time.Now(), []surface.ID{1, 2})
	require.Equal(t, StateIdle, s.State())
	require.Equal(t, uint64(1), fc.Sequence)
	require.NotZero(t, fc.Flags&FlagVSync)
}

func TestBeginRenderNoopWhenNotDirty(t *testing.T) {
	o := testOutput()
	s := o.Scheduler()
	_, ok := s.BeginRender(0, func() []surface.ID { return nil })
	require.False(t, ok, "BeginRender must be a no-op outside DIRTY")
}

func TestTimeoutDropsToNextVblankWithoutPresenting(t *testing.T) {
	o := testOutput()
	s := o.Scheduler()
	s.PostDamage(surface.Rect{X: 0, Y: 0, W: 4, H: 4})
	s.BeginRender(0, func() []surface.ID { return nil })
	require.Equal(t, StateRendering, s.State())

	s.Timeout()
	require.Equal(t, StateDirty, s.State(), "a missed deadline must retry, not present a partial frame")
}

func TestDamageHistoryBuffersAgeScissor(t *testing.T) {
	var d DamageTracker
	require.False(t, d.HasDamage())

	d.Add(surface.Rect{X: 0, Y: 0, W: 5, H: 5})
	require.True(t, d.HasDamage())
	d.Advance()

	d.Add(surface.Rect{X: 10, Y: 10, W: 2, H: 2})
	d.Advance()

	// age 1 must only include the most recent frame's damage.
	r1 := d.ScissorForAge(1)
	require.Equal(t, surface.Rect{X: 10, Y: 10, W: 2, H: 2}, r1)

	// age 2 must union both frames.
	r2 := d.ScissorForAge(2)
	require.Equal(t, surface.Rect{X: 0, Y: 0, W: 12, H: 12}, r2)

	// age beyond recorded history signals full redraw.
	require.True(t, d.ScissorForAge(99).Empty())
	require.True(t, d.ScissorForAge(0).Empty())
}

type fakeSink struct {
	presented []FrameCompletion
	discarded []string
}

func (f *fakeSink) Presented(fc FrameCompletion) { f.presented = append(f.presented, fc) }
func (f *fakeSink) Discarded(output string)      { f.discarded = append(f.discarded, output) }

func TestConfirmAndDispatchNotifiesSink(t *testing.T) {
	o := testOutput()
	s := o.Scheduler()
	s.PostDamage(surface.Rect{X: 0, Y: 0, W: 1, H: 1})
	s.BeginRender(0, func() []surface.ID { return []surface.ID{3} })
	s.SubmitComplete()

	sink := &fakeSink{}
	fc := ConfirmAndDispatch(s, sink, []surface.ID{3}, time.Now())
	require.Len(t, sink.presented, 1)
	require.Equal(t, fc.Sequence, sink.presented[0].Sequence)

	Discard(sink, "HEADLESS-1")
	require.Equal(t, []string{"HEADLESS-1"}, sink.discarded)
}

func TestInventoryAddRemoveGet(t *testing.T) {
	inv := NewInventory()
	o := testOutput()
	inv.Add(o)

	got, ok := inv.Get("HEADLESS-1")
	require.True(t, ok)
	require.Same(t, o, got)
	require.Len(t, inv.All(), 1)

	inv.Remove("HEADLESS-1")
	_, ok = inv.Get("HEADLESS-1")
	require.False(t, ok)
}
