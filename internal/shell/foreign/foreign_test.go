package foreign

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapUpdateCloseLifecycle(t *testing.T) {
	var events []EventKind
	m := NewManager(func(k EventKind, e Entry) { events = append(events, k) })

	m.Map(1, "term", "xterm")
	require.Len(t, m.List(), 1)

	m.Update(1, "term - vim", "xterm", StateActivated)
	require.Equal(t, "term - vim", m.List()[0].Title)

	m.Close(1)
	require.Empty(t, m.List())

	require.Equal(t, []EventKind{EventMapped, EventUpdated, EventClosed}, events)
}

func TestUpdateCloseUnknownIDAreNoops(t *testing.T) {
	m := NewManager(nil)
	m.Update(99, "x", "y", 0)
	m.Close(99)
	require.Empty(t, m.List())
}
