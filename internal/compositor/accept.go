package compositor

import (
	"github.com/rs/zerolog/log"

	"github.com/novawl/compositor/internal/object"
	"github.com/novawl/compositor/internal/server"
	"github.com/novawl/compositor/internal/surface"
)

// clientConn pairs a connected client with the dispatcher decoding its
// requests; the event loop only ever sees the fd, so every other piece
// of per-client state the loop needs travels as fdRegistration.data.
type clientConn struct {
	client *server.Client
	disp   *server.Dispatcher
}

// Serve drives ln's accepted connections and every request they send
// through one epoll-based loop, the single event-loop-thread model §5
// describes: the listener fd and every client fd share one EventLoop,
// and Serve blocks until the loop stops or the listener fails.
func (s *State) Serve(ln *server.Listener) error {
	loop, err := NewEventLoop(s.onFDReady)
	if err != nil {
		return err
	}
	s.loop = loop
	defer loop.Close()

	if err := loop.Add(fdListener, ln.FD(), ln); err != nil {
		return err
	}

	return loop.Run()
}

// onFDReady is the EventLoop's single callback, routing readiness by
// fdKind rather than a type switch over concrete connection types.
func (s *State) onFDReady(reg fdRegistration) {
	switch reg.kind {
	case fdListener:
		s.acceptReady(reg.data.(*server.Listener))
	case fdClient:
		s.clientReady(reg.data.(*clientConn))
	}
}

func (s *State) acceptReady(ln *server.Listener) {
	client, err := ln.AcceptOnce()
	if err != nil {
		log.Error().Err(err).Msg("compositor: listener accept failed, stopping loop")
		s.loop.Stop()
		return
	}
	if client == nil {
		return // rejected during SO_PEERCRED auth; ln already logged it
	}

	cc := &clientConn{client: client}
	cc.disp = server.NewDispatcher(client, resolverFunc{}, ifaceOf(client), s.handleRequest)
	if err := s.loop.Add(fdClient, client.Conn.FD(), cc); err != nil {
		log.Error().Err(err).Uint32("client", client.ID).Msg("compositor: registering client fd failed")
		client.Conn.Close()
		return
	}
	s.Clients[client.ID] = client
}

func (s *State) clientReady(cc *clientConn) {
	if err := cc.disp.Pump(); err != nil {
		s.disconnectClient(cc.client)
	}
}

// disconnectClient implements §5's cancellation rule: every resource the
// client owned is torn down in the same loop iteration that detects the
// disconnect, not deferred to a later GC pass.
func (s *State) disconnectClient(c *server.Client) {
	log.Info().Uint32("client", c.ID).Str("session", c.Session).Msg("client disconnected")
	s.loop.Remove(c.Conn.FD())

	c.Table.Range(func(r *object.Resource) {
		switch r.Interface {
		case "wl_surface", "xdg_surface", "xdg_toplevel", "xdg_popup", "zwlr_layer_surface_v1":
			if id, ok := r.Data.(surface.ID); ok {
				s.destroySurface(id)
			}
		}
	})

	delete(s.Clients, c.ID)
	c.Conn.Close()
}
