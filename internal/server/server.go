// Package server accepts connections and runs one game session per client.
package server

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/mkrenn/hangman/internal/config"
	"github.com/mkrenn/hangman/internal/protocol"
	"github.com/mkrenn/hangman/internal/store"
	"github.com/mkrenn/hangman/internal/util"
	"github.com/mkrenn/hangman/internal/words"
)

// Recorder persists finished games. Implementations must be safe for
// concurrent use. A nil Recorder disables persistence.
type Recorder interface {
	Record(ctx context.Context, r store.Result) error
}

// Server owns the listener, the read-only word list, and the admission
// gate. Game state lives entirely inside the per-connection handlers.
type Server struct {
	cfg  config.Server
	list *words.List
	rec  Recorder
	gate chan struct{} // one slot per admitted connection
}

// New builds a Server. rec may be nil.
func New(cfg config.Server, list *words.List, rec Recorder) *Server {
	return &Server{
		cfg:  cfg,
		list: list,
		rec:  rec,
		gate: make(chan struct{}, cfg.MaxClients),
	}
}

// ListenAndServe binds the configured port and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections until ctx is cancelled. Each admitted
// connection gets its own handler goroutine; when the gate is full the
// acceptor itself replies "server-overloaded" and closes, never creating a
// session. It blocks until shutdown.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	// Close the listener when context is done so Accept() returns an error.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	log.Info().Str("addr", listener.Addr().String()).Int("max_clients", s.cfg.MaxClients).
		Int("words", s.list.Len()).Msg("hangman server listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil // normal shutdown
			default:
				return fmt.Errorf("accept error: %w", err)
			}
		}

		select {
		case s.gate <- struct{}{}:
			util.Stats.ConnOpened()
			go s.serve(ctx, conn)
		default:
			s.reject(conn)
		}
	}
}

// serve wraps one handler: admission-slot release, connection close, and
// shutdown-by-context all live here so the handler can stay a plain
// blocking read/write loop.
func (s *Server) serve(ctx context.Context, conn net.Conn) {
	defer func() {
		conn.Close()
		util.Stats.ConnClosed()
		<-s.gate
	}()

	// Unblock the handler's reads on shutdown by closing the conn.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	s.handle(ctx, conn)
}

// reject answers an over-cap connection and closes it. No session exists.
func (s *Server) reject(conn net.Conn) {
	util.Stats.ConnRejected()
	if err := protocol.WriteMessage(conn, protocol.MsgOverloaded); err != nil {
		log.Debug().Err(err).Msg("overload reply failed")
	}
	conn.Close()
	log.Warn().Uint32("conn", util.ConnID(conn)).
		Str("remote", conn.RemoteAddr().String()).
		Msg("rejected connection: server overloaded")
}
