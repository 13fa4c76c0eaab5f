package scene

import (
	"time"

	"github.com/novawl/compositor/internal/surface"
)

// FeedbackSink receives presentation feedback once a frame's
// ConfirmPresented fires (§4.6). The server package wires this to
// wp_presentation_feedback object dispatch; kept as an interface here so
// the scheduler stays transport-agnostic and testable in isolation.
type FeedbackSink interface {
	Presented(FrameCompletion)
	Discarded(output string)
}

// Discard notifies a sink that a pending frame was dropped without
// presenting (e.g. output disconnected mid-render), matching
// wl_presentation_feedback.discarded rather than .presented.
func Discard(sink FeedbackSink, output string) {
	if sink != nil {
		sink.Discarded(output)
	}
}

// ConfirmAndDispatch runs ConfirmPresented on sched and forwards the
// result to sink in one call, the shape the repaint loop actually uses
// each time the display backend confirms scan-out.
func ConfirmAndDispatch(sched *Scheduler, sink FeedbackSink, presented []surface.ID, at time.Time) FrameCompletion {
	fc := sched.ConfirmPresented(at, presented)
	if sink != nil {
		sink.Presented(fc)
	}
	return fc
}
