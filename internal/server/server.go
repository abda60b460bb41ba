package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/domain/auth"
	"github.com/FACorreiaa/techblog/internal/app/domain/navigation"
	"github.com/FACorreiaa/techblog/internal/app/services"
	"github.com/FACorreiaa/techblog/internal/routes"
)

// Server is the local app shell. It serves the routes of the current
// session's navigation graph and remounts them on every lifecycle
// transition, so a route missing from the graph answers 404.
type Server struct {
	container *services.Container
	logger    *zap.Logger

	mu          sync.Mutex
	current     atomic.Pointer[shell]
	unsubscribe func()
}

type shell struct {
	engine   *gin.Engine
	handlers *routes.AppHandlers
	graph    navigation.Graph
}

// New creates a Server mounted for the container's current session.
func New(c *services.Container, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		container: c,
		logger:    logger,
	}
	s.unsubscribe = c.Session.Subscribe(s.mount)

	// Snapshot takes the lifecycle lock; read it before s.mu so a
	// concurrent publish into mount cannot cross the lock order.
	snap := c.Session.Snapshot()
	s.mu.Lock()
	if s.current.Load() == nil {
		s.mountLocked(snap)
	}
	s.mu.Unlock()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.current.Load().engine.ServeHTTP(w, r)
}

// Graph returns the navigation graph currently mounted.
func (s *Server) Graph() navigation.Graph {
	return s.current.Load().graph
}

func (s *Server) mount(snap auth.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mountLocked(snap)
}

func (s *Server) mountLocked(snap auth.Snapshot) {
	graph := navigation.Build(snap.Initializing(), snap.User)
	h := routes.NewAppHandlers(s.container, s.logger.Named("shell"))
	next := &shell{
		engine:   SetupRouter(graph, h, s.container.Config.Observability.ServiceName, s.logger),
		handlers: h,
		graph:    graph,
	}
	if prev := s.current.Swap(next); prev != nil {
		prev.handlers.Close()
	}
	s.logger.Info("Shell mounted",
		zap.String("mode", graph.Mode.String()),
		zap.Any("routes", graph.Routes()))
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.container.Config.Shell.Port,
		Handler:      s,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives.
func (s *Server) Run(ctx context.Context) error {
	httpServer := s.HTTPServer()

	done := make(chan struct{})
	go GracefulShutdown(ctx, httpServer, s.logger, done)

	s.logger.Info("Shell starting", zap.String("addr", httpServer.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

// Close stops following the lifecycle and releases the mounted shell.
func (s *Server) Close() {
	s.unsubscribe()
	if cur := s.current.Load(); cur != nil {
		cur.handlers.Close()
	}
}
