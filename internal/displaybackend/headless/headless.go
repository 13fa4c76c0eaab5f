// Package headless implements displaybackend.Backend without any real
// display hardware: connectors are configured programmatically and every
// present() immediately synthesizes a vblank event on a timer matching
// the configured mode's refresh rate. This is the backend exercised by
// tests and by nested operation inside another compositor.
package headless

import (
	"fmt"
	"sync"
	"time"

	"github.com/novawl/compositor/internal/displaybackend"
)

type connectorState struct {
	conn displaybackend.Connector
	mode displaybackend.Mode
}

// Backend is a programmatically-driven displaybackend.Backend.
type Backend struct {
	mu         sync.Mutex
	connectors map[string]*connectorState
	events     chan displaybackend.Event
	nextSub    uint64
	sequence   uint64
	closed     bool
}

// New constructs a headless backend with no connectors attached; call
// AddConnector to simulate a hotplug.
func New() *Backend {
	return &Backend{
		connectors: make(map[string]*connectorState),
		events:     make(chan displaybackend.Event, 16),
	}
}

// AddConnector simulates a hotplug of a new virtual output.
func (b *Backend) AddConnector(conn displaybackend.Connector) {
	b.mu.Lock()
	defer b.mu.Unlock()
	mode := conn.Modes[conn.PreferredIdx]
	b.connectors[conn.Name] = &connectorState{conn: conn, mode: mode}
	b.emit(displaybackend.Event{Hotplug: true})
}

// RemoveConnector simulates an unplug.
func (b *Backend) RemoveConnector(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.connectors, name)
	b.emit(displaybackend.Event{Hotplug: true})
}

func (b *Backend) EnumerateConnectors() ([]displaybackend.Connector, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]displaybackend.Connector, 0, len(b.connectors))
	for _, c := range b.connectors {
		out = append(out, c.conn)
	}
	return out, nil
}

func (b *Backend) SetMode(connector string, mode displaybackend.Mode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.connectors[connector]
	if !ok {
		return fmt.Errorf("headless: unknown connector %q", connector)
	}
	c.mode = mode
	return nil
}

// Present synthesizes a vblank after a delay matching the connector's
// configured refresh interval, so scheduler frame-pacing logic has a
// realistic (if virtual) cadence to react to in tests.
func (b *Backend) Present(connector string, frame displaybackend.Frame) (displaybackend.SubmissionID, error) {
	b.mu.Lock()
	c, ok := b.connectors[connector]
	if !ok {
		b.mu.Unlock()
		return 0, fmt.Errorf("headless: unknown connector %q", connector)
	}
	b.nextSub++
	sub := displaybackend.SubmissionID(b.nextSub)
	b.sequence++
	seq := b.sequence
	delay := refreshDelay(c.mode)
	b.mu.Unlock()

	go func() {
		time.Sleep(delay)
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed {
			return
		}
		b.emit(displaybackend.Event{
			Connector:  connector,
			Submission: sub,
			Sequence:   seq,
		})
	}()
	return sub, nil
}

func refreshDelay(m displaybackend.Mode) time.Duration {
	if m.RefreshMHz <= 0 {
		return time.Millisecond
	}
	return time.Duration(1_000_000_000_000/int64(m.RefreshMHz)) * time.Nanosecond
}

func (b *Backend) Events() <-chan displaybackend.Event { return b.events }

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.events)
	return nil
}

func (b *Backend) emit(e displaybackend.Event) {
	select {
	case b.events <- e:
	default:
		// Events channel full: drop, matching real display backends that
		// coalesce vblank notifications under sustained backpressure.
	}
}
