package selection

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ErrBrokenPipe is returned by Pipe.Copy when the destination closed its
// read end before the transfer finished (§4.9: "Broken pipes indicate
// destination abandonment").
var ErrBrokenPipe = errors.New("selection: destination closed pipe before transfer completed")

// NewTransferPipe creates the pipe a data transfer writes the payload
// into: the read end is handed to the destination client, the write end
// to the source.
func NewTransferPipe() (readFD, writeFD int, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}

// Copy writes payload into writeFD and closes it, translating EPIPE into
// ErrBrokenPipe so the caller can cancel the source rather than treat it
// as an internal fault (§4.9 failure semantics).
func Copy(writeFD int, payload io.Reader) error {
	f := os.NewFile(uintptr(writeFD), "selection-pipe")
	defer f.Close()
	_, err := io.Copy(f, payload)
	if errors.Is(err, unix.EPIPE) || errors.Is(err, os.ErrClosed) {
		return ErrBrokenPipe
	}
	return err
}
