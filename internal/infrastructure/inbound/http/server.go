package delivery_http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/config"
	post_http "blog-post-service/internal/infrastructure/inbound/http/post"
)

type Server struct {
	engine  *gin.Engine
	server  *http.Server
	address string
	port    int
	log     ports.Logger
}

func NewServer(cfg config.HTTPServer, postAPI *post_http.PostAPI, store Pinger, log ports.Logger, metrics ports.MetricsProvider) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(log, metrics))

	engine.GET("/healthz", healthHandler(store, log))
	postAPI.Register(engine)

	s := &Server{
		engine:  engine,
		address: cfg.Address,
		port:    cfg.Port,
		log:     log,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler exposes the router so tests can drive it without a listener.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run() error {
	s.log.Info("Starting HTTP server", slog.String("address", s.address), slog.Int("port", s.port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
