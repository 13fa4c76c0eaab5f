package scene

import (
	"time"

	"github.com/novawl/compositor/internal/surface"
)

// RepaintState is one output's position in the repaint state machine
// described in §4.6.
type RepaintState int

const (
	StateIdle RepaintState = iota
	StateDirty
	StateRendering
	StatePresented
)

func (s RepaintState) String() string {
	switch s {
	case StateDirty:
		return "dirty"
	case StateRendering:
		return "rendering"
	case StatePresented:
		return "presented"
	default:
		return "idle"
	}
}

// PresentationFlags mirror wp_presentation_feedback's kind bitmask.
type PresentationFlags uint32

const (
	FlagVSync PresentationFlags = 1 << iota
	FlagHWClock
	FlagHWCompletion
	FlagZeroCopy
)

// FrameCompletion is handed to frame-callback and presentation-feedback
// consumers once PRESENTED->IDLE fires (§4.6 last transition).
type FrameCompletion struct {
	Output     string
	FrameTime  time.Time
	RefreshNs  int64
	Sequence   uint64
	Flags      PresentationFlags
	PresentedSurfaces []surface.ID
}

// Scheduler drives one output's IDLE/DIRTY/RENDERING/PRESENTED cycle and
// its frame-pacing slack.
type Scheduler struct {
	output *Output
	state  RepaintState

	sequence uint64

	// slack is how far ahead of the vblank deadline a repaint must start
	// to have a chance of making it (§4.6 "Frame pacing").
	slack time.Duration
}

// NewScheduler creates an IDLE scheduler for o with a default slack
// budget of one quarter of the output's refresh interval.
func NewScheduler(o *Output) *Scheduler {
	s := &Scheduler{output: o}
	if ri := o.Mode.RefreshInterval(); ri > 0 {
		s.slack = time.Duration(ri / 4)
	}
	return s
}

// State returns the current repaint state.
func (s *Scheduler) State() RepaintState { return s.state }

// PostDamage unions damage into the output and transitions IDLE->DIRTY.
// Commits from any surface call this (§4.6 "IDLE->DIRTY: any commit
// unions damage into this output's damage region").
func (s *Scheduler) PostDamage(r surface.Rect) {
	s.output.damage.Add(r)
	if s.state == StateIdle && s.output.damage.HasDamage() {
		s.state = StateDirty
	}
}

// RenderList is what the scheduler hands the renderer at DIRTY->RENDERING:
// the sampled scene (ordered surface ids) and the scissor region to
// redraw, computed from the target back-buffer's age.
type RenderList struct {
	Surfaces []surface.ID
	Scissor  surface.Rect // empty means "redraw everything"
}

// BeginRender transitions DIRTY->RENDERING at a vblank tick (or
// immediately under tearing, per §4.6), sampling the scene via sceneFn
// and the damage scissor for backBufferAge. It is a no-op returning
// ok=false if the output isn't DIRTY (nothing to do, or already
// rendering — the caller should not invoke the renderer twice
// concurrently for one output).
func (s *Scheduler) BeginRender(backBufferAge int, sceneFn func() []surface.ID) (RenderList, bool) {
	if s.state != StateDirty {
		return RenderList{}, false
	}
	s.state = StateRendering
	return RenderList{
		Surfaces: sceneFn(),
		Scissor:  s.output.damage.ScissorForAge(backBufferAge),
	}, true
}

// SubmitComplete transitions RENDERING->PRESENTED once the renderer
// signals completion (fence or callback).
func (s *Scheduler) SubmitComplete() {
	if s.state == StateRendering {
		s.state = StatePresented
	}
}

// ConfirmPresented transitions PRESENTED->IDLE on confirmed scan-out from
// the display backend, advancing the damage history (buffer-age) and
// returning the FrameCompletion used to dispatch frame callbacks and
// presentation feedback (§4.6 last transition).
func (s *Scheduler) ConfirmPresented(at time.Time, presented []surface.ID) FrameCompletion {
	s.sequence++
	flags := FlagVSync
	if s.output.Mode.RefreshMHz > 0 {
		flags |= FlagHWClock
	}
	fc := FrameCompletion{
		Output:            s.output.Name,
		FrameTime:         at,
		RefreshNs:         s.output.Mode.RefreshInterval(),
		Sequence:          s.sequence,
		Flags:             flags,
		PresentedSurfaces: presented,
	}
	s.output.damage.Advance()
	s.state = StateIdle
	return fc
}

// Timeout models the DIRTY->RENDERING "timeout" edge in §4.6's diagram: a
// repaint that missed its vblank deadline drops to the next one rather
// than presenting a partial frame. The scheduler simply stays DIRTY; the
// caller should not force a render, only retry at the next vblank tick.
func (s *Scheduler) Timeout() {
	if s.state == StateRendering {
		s.state = StateDirty
	}
}

// Slack returns the configured pre-vblank repaint-start lead time.
func (s *Scheduler) Slack() time.Duration { return s.slack }
