package headless

import (
	"testing"
	"time"

	"github.com/novawl/compositor/internal/displaybackend"
	"github.com/stretchr/testify/require"
)

func testConnector() displaybackend.Connector {
	return displaybackend.Connector{
		Name:  "HEADLESS-1",
		Modes: []displaybackend.Mode{{Width: 800, Height: 600, RefreshMHz: 600000}},
	}
}

func TestAddConnectorEmitsHotplug(t *testing.T) {
	b := New()
	b.AddConnector(testConnector())

	select {
	case e := <-b.Events():
		require.True(t, e.Hotplug)
	case <-time.After(time.Second):
		t.Fatal("no hotplug event")
	}

	conns, err := b.EnumerateConnectors()
	require.NoError(t, err)
	require.Len(t, conns, 1)
}

func TestPresentUnknownConnectorErrors(t *testing.T) {
	b := New()
	_, err := b.Present("nope", displaybackend.Frame{})
	require.Error(t, err)
}

func TestPresentEmitsVblank(t *testing.T) {
	b := New()
	b.AddConnector(testConnector())
	<-b.Events() // drain hotplug

	sub, err := b.Present("HEADLESS-1", displaybackend.Frame{Width: 1, Height: 1})
	require.NoError(t, err)

	select {
	case e := <-b.Events():
		require.Equal(t, sub, e.Submission)
		require.False(t, e.Hotplug)
	case <-time.After(time.Second):
		t.Fatal("no vblank event")
	}
}

func TestSetModeUpdatesConnector(t *testing.T) {
	b := New()
	b.AddConnector(testConnector())
	<-b.Events()
	require.NoError(t, b.SetMode("HEADLESS-1", displaybackend.Mode{Width: 1920, Height: 1080, RefreshMHz: 60000}))
	require.Error(t, b.SetMode("missing", displaybackend.Mode{}))
}

func TestCloseIsIdempotentAndClosesChannel(t *testing.T) {
	b := New()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	_, ok := <-b.Events()
	require.False(t, ok)
}
