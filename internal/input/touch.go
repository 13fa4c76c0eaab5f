package input

// TouchPoint tracks one active touch contact for its down->up/cancel
// lifetime, keyed by the protocol-assigned touch id (§3, §4.5).
type TouchPoint struct {
	ID      int32
	Surface SurfaceRef
	X, Y    float64
}

// Touch is the seat's touch-point table.
type Touch struct {
	points map[int32]*TouchPoint
}

// TouchDownEvent begins a touch contact.
type TouchDownEvent struct {
	Serial  uint32
	ID      int32
	Surface SurfaceRef
	X, Y    float64
}

// Down registers a new touch point and returns its down event. Per §4.5
// each id is "assigned a stable integer id for its lifetime."
func (s *Seat) Down(id int32, surface SurfaceRef, x, y float64) TouchDownEvent {
	if s.Touch.points == nil {
		s.Touch.points = make(map[int32]*TouchPoint)
	}
	s.Touch.points[id] = &TouchPoint{ID: id, Surface: surface, X: x, Y: y}
	return TouchDownEvent{Serial: s.MintSerial(), ID: id, Surface: surface, X: x, Y: y}
}

// TouchMotion updates an existing touch point; it is a no-op if id is unknown
// (e.g. already lifted).
func (s *Seat) TouchMotion(id int32, x, y float64) (surface SurfaceRef, ok bool) {
	tp, exists := s.Touch.points[id]
	if !exists {
		return 0, false
	}
	tp.X, tp.Y = x, y
	return tp.Surface, true
}

// Up ends a touch contact normally, freeing its id for reuse.
func (s *Seat) Up(id int32) (surface SurfaceRef, ok bool) {
	tp, exists := s.Touch.points[id]
	if !exists {
		return 0, false
	}
	delete(s.Touch.points, id)
	return tp.Surface, true
}

// Cancel ends a touch contact abnormally (e.g. the compositor reassigned
// it to a gesture), also per §4.5's down/motion*/up-or-cancel lifecycle.
func (s *Seat) Cancel(id int32) (surface SurfaceRef, ok bool) {
	return s.Up(id)
}

// ActiveTouchCount reports how many touch points are currently live, used
// to decide when a touch `frame` event closes out a hardware update.
func (s *Seat) ActiveTouchCount() int {
	return len(s.Touch.points)
}
