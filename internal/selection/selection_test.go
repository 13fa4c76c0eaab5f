package selection

import (
	"bytes"
	"os"
	"testing"

	"github.com/novawl/compositor/internal/surface"
	"github.com/stretchr/testify/require"
)

func TestSetSelectionCancelsPreviousSource(t *testing.T) {
	d := NewDevice("seat0")
	var firstCancelled bool
	first := NewSource([]string{"text/plain"}, nil, func() { firstCancelled = true })
	d.SetSelection(first)

	second := NewSource([]string{"text/plain"}, nil, nil)
	d.SetSelection(second)

	require.True(t, firstCancelled, "replacing a selection must cancel the previous source")
}

func TestOfferReceiveRoutesToSourceSend(t *testing.T) {
	var gotMime string
	var gotFD int
	src := NewSource([]string{"text/plain"}, func(mime string, fd int) {
		gotMime, gotFD = mime, fd
	}, nil)
	off := NewOffer(src)
	off.Receive("text/plain", 7)
	require.Equal(t, "text/plain", gotMime)
	require.Equal(t, 7, gotFD)
}

func TestStaleOfferIgnoresReceiveAndCancelsSource(t *testing.T) {
	called := false
	src := NewSource(nil, func(string, int) { called = true }, nil)
	off := NewOffer(src)
	off.MarkStale()
	off.Receive("text/plain", 1)
	require.False(t, called, "a stale offer must not forward Receive to the source")
	require.True(t, src.cancelled)
}

func TestDragEnterLeaveFocusHandover(t *testing.T) {
	d := NewDevice("seat0")
	drag := d.BeginDrag(1, surface.NoID, NewSource(nil, nil, nil))

	leave, enter := drag.Enter(5)
	require.False(t, leave)
	require.True(t, enter)

	leave, enter = drag.Enter(5)
	require.False(t, leave)
	require.False(t, enter, "re-entering the same surface is a no-op")

	leave, enter = drag.Enter(6)
	require.True(t, leave)
	require.True(t, enter)
}

func TestDragDropRequiresFocus(t *testing.T) {
	d := NewDevice("seat0")
	drag := d.BeginDrag(1, surface.NoID, nil)
	_, ok := drag.Drop()
	require.False(t, ok)

	drag.Enter(9)
	surf, ok := drag.Drop()
	require.True(t, ok)
	require.Equal(t, surface.ID(9), surf)
	require.Equal(t, DragDropped, drag.Phase())
}

func TestDragCancelNotifiesSource(t *testing.T) {
	cancelled := false
	src := NewSource(nil, nil, func() { cancelled = true })
	d := NewDevice("seat0")
	drag := d.BeginDrag(1, surface.NoID, src)
	drag.Cancel()
	require.True(t, cancelled)
	require.Equal(t, DragCancelled, drag.Phase())
}

func TestTransferPipeCopyDeliversPayload(t *testing.T) {
	readFD, writeFD, err := NewTransferPipe()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- Copy(writeFD, bytes.NewReader([]byte("hello"))) }()

	buf := make([]byte, 64)
	f := os.NewFile(uintptr(readFD), "selection-pipe-read")
	defer f.Close()
	n, _ := f.Read(buf)
	require.Equal(t, "hello", string(buf[:n]))
	require.NoError(t, <-done)
}
