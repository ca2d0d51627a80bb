package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"tchat/domain"
	"tchat/moderation"
	"tchat/observability"
	"tchat/runtime/workers"
	"tchat/transport"
)

// Server owns the listening socket. The accept loop itself stays
// single-threaded: it blocks only on Accept and hands each connection to
// its own supervised session goroutine.
type Server struct {
	log        *slog.Logger
	registry   *Registry
	router     *Router
	filter     *moderation.Filter
	stats      *observability.Stats
	supervisor *workers.Supervisor
}

func NewServer(log *slog.Logger, registry *Registry, router *Router,
	filter *moderation.Filter, stats *observability.Stats, supervisor *workers.Supervisor) *Server {
	return &Server{
		log:        log,
		registry:   registry,
		router:     router,
		filter:     filter,
		stats:      stats,
		supervisor: supervisor,
	}
}

// ListenAndServe binds addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on the given listener until ctx is canceled,
// then runs the coordinated shutdown: sentinel to every registered client,
// close every handle, close the listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.log.Info("Chat server started", "addr", listener.Addr().String())

	// Cancellation reaches the blocking Accept by closing the listener.
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.shutdown()
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		handle := transport.NewConn(conn)
		if err := s.registry.TrackPending(handle); err != nil {
			// Accepted in the same instant the registry shut down.
			_ = handle.Close()
			continue
		}

		s.log.Info("New connection", "from", conn.RemoteAddr().String())
		session := NewSession(s.log, handle, s.registry, s.router, s.filter, s.stats)
		s.supervisor.Start(ctx, session)
	}
}

func (s *Server) shutdown() {
	notified := s.registry.CloseAll(domain.TokenServerShutdown)
	s.log.Info("Chat server stopped", "clients_notified", notified)
}
