package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyboardFocusHandoverSerialsIncreasing(t *testing.T) {
	seat := NewSeat("seat0", CapKeyboard)
	change := seat.SetFocus(1, true, nil) // A gains focus, no prior focus -> only enter
	require.Nil(t, change.Leave)
	require.NotNil(t, change.Enter)

	change = seat.SetFocus(2, true, nil) // click into B
	require.NotNil(t, change.Leave)
	require.NotNil(t, change.Modifiers)
	require.NotNil(t, change.Enter)
	require.True(t, change.Modifiers.IsZero())
	require.Less(t, change.Leave.Serial, change.Enter.Serial)
}

func TestSerialAuthorizesGrabAtMostOnce(t *testing.T) {
	seat := NewSeat("seat0", CapPointer)
	serial := seat.MintSerial()
	require.True(t, seat.AuthorizeGrab(serial))
	require.False(t, seat.AuthorizeGrab(serial), "a serial authorizes at most one grab")
}

func TestStaleSerialFailsGrabSilently(t *testing.T) {
	seat := NewSeat("seat0", CapPointer)
	_, ok := seat.BeginGrab(GrabMove, 5, 9999)
	require.False(t, ok)
}

func TestImplicitPointerGrabSpan(t *testing.T) {
	seat := NewSeat("seat0", CapPointer)
	require.False(t, seat.InImplicitGrab())
	seat.Button(1, 0, true)
	require.True(t, seat.InImplicitGrab())
	seat.Button(1, 0, false)
	require.False(t, seat.InImplicitGrab())
}

func TestPointerMotionCoalesces(t *testing.T) {
	seat := NewSeat("seat0", CapPointer)
	seat.QueueMotion(1, 1, 1)
	seat.QueueMotion(1, 2, 2)
	m := seat.FlushMotion()
	require.Equal(t, 2.0, m.X)
	require.Nil(t, seat.FlushMotion(), "motion must be consumed once per frame")
}

func TestTouchLifecycle(t *testing.T) {
	seat := NewSeat("seat0", CapTouch)
	down := seat.Down(3, 7, 10, 10)
	require.Equal(t, int32(3), down.ID)

	surf, ok := seat.TouchMotion(3, 12, 12)
	require.True(t, ok)
	require.Equal(t, SurfaceRef(7), surf)

	surf, ok = seat.Up(3)
	require.True(t, ok)
	require.Equal(t, SurfaceRef(7), surf)

	_, ok = seat.TouchMotion(3, 0, 0)
	require.False(t, ok, "a lifted touch id must be inert")
}

func TestTransformChainRoundTrip(t *testing.T) {
	c := Chain{
		OutputLayout:    Translate(100, 50),
		OutputScale:     Scale(2, 2),
		BufferTransform: Identity,
		BufferScale:     Scale(1, 1),
		Viewport:        Identity,
	}
	gx, gy := c.Forward().Apply(10, 20)
	lx, ly := c.GlobalToLocal(gx, gy)
	require.InDelta(t, 10, lx, 1e-9)
	require.InDelta(t, 20, ly, 1e-9)
}

func TestBufferTransform180(t *testing.T) {
	m := BufferTransformMat(2, 100, 200)
	x, y := m.Apply(0, 0)
	require.InDelta(t, 100, x, 1e-9)
	require.InDelta(t, 200, y, 1e-9)
}
