// Package api implements the read-only HTTP/JSON query surface over
// spec.md §6's tables, plus a /stream websocket endpoint pushing live
// policy updates during online training. Grounded on the teacher's
// internal/server/server.go: a bare net/http.ServeMux (the one ambient
// concern where the teacher itself skips a third-party router, so this
// repo follows it rather than reaching for one — see DESIGN.md), the
// same Start/Serve/Shutdown/ensureRoutes shape, and the websocket
// upgrade/keepalive constants reused verbatim.
package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lox/holdem-solver/internal/db"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Store is the subset of internal/db.Store's query methods the API needs;
// internal/db.Store satisfies this directly, and tests use a fake.
type Store interface {
	ObsToAbs(ctx context.Context, street int16, obs int64) (int16, error)
	ObsEquity(ctx context.Context, street int16, obs int64) (float64, error)
	ObsHistogram(ctx context.Context, street int16, obs int64) (map[int16]float64, error)
	AbsDistance(ctx context.Context, street int16, a, b int16) (float64, error)
	KNearest(ctx context.Context, street int16, abs int16, k int) ([]db.BucketDistance, error)
	KFarthest(ctx context.Context, street int16, abs int16, k int) ([]db.BucketDistance, error)
	Policy(ctx context.Context, past int64, present int16, choices int64) ([]db.PolicyEntry, error)
}

// Server wires Store's queries to the spec.md §6 JSON surface.
type Server struct {
	store      Store
	mux        *http.ServeMux
	upgrader   websocket.Upgrader
	logger     zerolog.Logger
	httpServer *http.Server
	routesOnce sync.Once
	stream     *hub
}

// NewServer builds a Server over store.
func NewServer(store Store, logger zerolog.Logger) *Server {
	return &Server{
		store: store,
		mux:   http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
		stream: newHub(),
	}
}

// Start listens on addr and serves until the listener errors or Shutdown
// is called.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Handler returns the server's routed mux, for embedding in a test server
// or a larger handler chain without going through Start/Serve.
func (s *Server) Handler() http.Handler {
	s.ensureRoutes()
	return s.mux
}

// Serve runs the server over an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.ensureRoutes()
	s.httpServer = &http.Server{Handler: s.mux}
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("api server starting")
	return s.httpServer.Serve(listener)
}

// Shutdown gracefully stops the HTTP server and closes all stream
// connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stream.closeAll()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Publish pushes a policy update to every connected /stream client, the
// hook the `train --resume` CLI path and internal/worker call as
// RegretEntry updates land.
func (s *Server) Publish(update PolicyUpdate) {
	s.stream.broadcast(update)
}

func (s *Server) ensureRoutes() {
	s.routesOnce.Do(func() {
		s.mux.HandleFunc("/health", s.handleHealth)
		s.mux.HandleFunc("/obs_to_abs", s.handleObsToAbs)
		s.mux.HandleFunc("/obs_equity", s.handleObsEquity)
		s.mux.HandleFunc("/obs_histogram", s.handleObsHistogram)
		s.mux.HandleFunc("/abs_distance", s.handleAbsDistance)
		s.mux.HandleFunc("/knn", s.handleKNN)
		s.mux.HandleFunc("/kfn", s.handleKFN)
		s.mux.HandleFunc("/policy", s.handlePolicy)
		s.mux.HandleFunc("/stream", s.handleStream)
	})
}
