package compositor

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/require"
)

func TestEventLoopDispatchesReadyPipe(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	ready := make(chan fdRegistration, 1)
	loop, err := NewEventLoop(func(r fdRegistration) { ready <- r })
	require.NoError(t, err)
	defer loop.Close()

	require.NoError(t, loop.Add(fdClient, fds[0], "marker"))
	go loop.Run()
	defer loop.Stop()

	_, err = unix.Write(fds[1], []byte("x"))
	require.NoError(t, err)

	select {
	case r := <-ready:
		require.Equal(t, "marker", r.data)
		require.Equal(t, fdClient, r.kind)
	case <-time.After(2 * time.Second):
		t.Fatal("event loop never reported readiness")
	}
}

func TestEventLoopRemoveStopsDispatch(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	ready := make(chan fdRegistration, 4)
	loop, err := NewEventLoop(func(r fdRegistration) { ready <- r })
	require.NoError(t, err)
	defer loop.Close()

	require.NoError(t, loop.Add(fdClient, fds[0], nil))
	loop.Remove(fds[0])
	go loop.Run()
	defer loop.Stop()

	_, err = unix.Write(fds[1], []byte("x"))
	require.NoError(t, err)

	select {
	case <-ready:
		t.Fatal("removed fd must not be dispatched")
	case <-time.After(200 * time.Millisecond):
	}
}
