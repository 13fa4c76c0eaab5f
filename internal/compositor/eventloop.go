// Package compositor wires every subsystem into a single mutable State
// and drives it from one epoll-based event loop, using a single-threaded
// cooperative scheduling model.
package compositor

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// fdKind tags what an epoll-registered fd is for, so the loop knows
// which handler to invoke on readiness without a type switch over
// concrete connection types.
type fdKind int

const (
	fdListener fdKind = iota
	fdClient
	fdTimer
	fdRendererCompletion
)

type fdRegistration struct {
	kind fdKind
	fd   int
	data any
}

// EventLoop is the single-threaded dispatcher described in §5: it polls
// client sockets, timers, and the renderer completion channel, running
// every handler on the same goroutine so no mutation of shared
// compositor state needs locking.
type EventLoop struct {
	epfd int

	mu   sync.Mutex // guards regs; Add/Remove may be called from other goroutines (e.g. accept)
	regs map[int]*fdRegistration

	onReady func(fdRegistration)
	stop    chan struct{}
}

// NewEventLoop creates an epoll instance. onReady is invoked on the loop
// goroutine whenever a registered fd becomes readable.
func NewEventLoop(onReady func(fdRegistration)) (*EventLoop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("compositor: epoll_create1: %w", err)
	}
	return &EventLoop{
		epfd:    epfd,
		regs:    make(map[int]*fdRegistration),
		onReady: onReady,
		stop:    make(chan struct{}),
	}, nil
}

// Add registers fd for read readiness.
func (l *EventLoop) Add(kind fdKind, fd int, data any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("compositor: epoll_ctl add fd=%d: %w", fd, err)
	}
	l.regs[fd] = &fdRegistration{kind: kind, fd: fd, data: data}
	return nil
}

// Remove unregisters fd. Per §5's cancellation rule, the caller removes
// every fd belonging to a disconnected client in the same loop
// iteration that detects the disconnect.
func (l *EventLoop) Remove(fd int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	delete(l.regs, fd)
}

// Run blocks, dispatching readiness events until Stop is called.
func (l *EventLoop) Run() error {
	events := make([]unix.EpollEvent, 64)
	for {
		select {
		case <-l.stop:
			return nil
		default:
		}

		n, err := unix.EpollWait(l.epfd, events, 1000)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("compositor: epoll_wait: %w", err)
		}
		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			l.mu.Lock()
			reg, ok := l.regs[fd]
			l.mu.Unlock()
			if !ok {
				continue // raced with a Remove; drop the stale event
			}
			l.onReady(*reg)
		}
	}
}

// Stop requests Run return once its current poll iteration completes.
func (l *EventLoop) Stop() {
	close(l.stop)
}

// Close releases the epoll fd.
func (l *EventLoop) Close() error {
	return unix.Close(l.epfd)
}
