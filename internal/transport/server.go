// Package transport exposes the coordinator over HTTP: a WebSocket endpoint
// for game traffic and a health endpoint, with per-connection rate limiting.
package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cory-johannsen/scrawl/internal/config"
	"github.com/cory-johannsen/scrawl/internal/coordinator"
)

// outboundBuffer is the per-connection event queue size; a consumer that
// falls this far behind starts losing events rather than stalling rooms.
const outboundBuffer = 256

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP/WebSocket front end. It implements the lifecycle
// Service interface.
type Server struct {
	cfg      config.ServerConfig
	coord    *coordinator.Coordinator
	log      *zap.Logger
	http     *http.Server
	upgrader websocket.Upgrader
}

// New builds the server and its routes.
//
// Precondition: coord and logger must be non-nil.
func New(cfg config.ServerConfig, coord *coordinator.Coordinator, logger *zap.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		coord: coord,
		log:   logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originAllowed,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/ws", s.handleWebSocket)

	s.http = &http.Server{
		Addr:    cfg.Addr(),
		Handler: engine,
	}
	return s
}

// Handler exposes the HTTP handler for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves HTTP until Stop is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.cfg.Addr()))
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.log.Warn("http shutdown", zap.Error(err))
	}
}

func (s *Server) handleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleWebSocket upgrades the request and runs the connection's pumps. The
// read pump runs on this goroutine; the handler returns when the connection
// drops.
func (s *Server) handleWebSocket(ctx *gin.Context) {
	ws, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed",
			zap.String("remote", ctx.ClientIP()),
			zap.Error(err),
		)
		return
	}

	sink := newConnSink(outboundBuffer)
	session := s.coord.NewSession(sink)
	c := &conn{
		ws:      ws,
		sink:    sink,
		session: session,
		limiter: rate.NewLimiter(rate.Limit(s.cfg.EventRate), s.cfg.EventBurst),
		cfg:     s.cfg,
		log:     s.log.With(zap.String("conn_id", session.ConnID())),
	}

	c.log.Info("connection established", zap.String("remote", ctx.ClientIP()))
	go c.writePump()
	c.readPump()
	c.log.Info("connection closed")
}

// originAllowed permits same-host tools (no Origin header) and any
// configured origin; "*" opens the endpoint up entirely.
func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
