package delivery_grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/config"
	"blog-post-service/internal/infrastructure/inbound/grpc/middleware"
)

// ServiceName is the name reported to grpc health clients next to the empty overall service.
const ServiceName = "blog.posts"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	server       *grpc.Server
	health       *health.Server
	store        Pinger
	address      string
	port         int
	pollInterval time.Duration
	log          ports.Logger
	metrics      ports.MetricsProvider

	stop     chan struct{}
	stopOnce sync.Once
}

func NewServer(cfg config.GRPCServer, store Pinger, log ports.Logger, metrics ports.MetricsProvider) *Server {
	s := &Server{
		health:       health.NewServer(),
		store:        store,
		address:      cfg.Address,
		port:         cfg.Port,
		pollInterval: 5 * time.Second,
		log:          log,
		metrics:      metrics,
		stop:         make(chan struct{}),
	}

	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			middleware.UnaryLoggerInterceptor(log, metrics),
			grpc_recovery.UnaryServerInterceptor(),
		)),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	return s
}

func (s *Server) Run() error {
	address := fmt.Sprintf("%s:%d", s.address, s.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.log.Info("Starting gRPC server", slog.String("address", s.address), slog.Int("port", s.port))
	return s.Serve(lis)
}

// Serve probes storage once, keeps probing in the background and serves on lis until Shutdown.
func (s *Server) Serve(lis net.Listener) error {
	s.probe()
	go s.watch()
	return s.server.Serve(lis)
}

func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.health.Shutdown()
	s.metrics.SetServiceHealth(false)
	s.server.GracefulStop()
	return nil
}

func (s *Server) watch() {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.probe()
		}
	}
}

func (s *Server) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("Storage ping failed", slog.String("error", err.Error()))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	s.metrics.SetServiceHealth(status == healthpb.HealthCheckResponse_SERVING)
}
