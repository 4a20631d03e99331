package grpc

import (
	"context"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"gorm.io/gorm"
)

// ServiceName is the name reported to health checks alongside the overall "" entry.
const ServiceName = "storefront.affiliate"

type Server struct {
	DB     *gorm.DB
	Health *health.Server
	grpc   *grpc.Server
}

func NewServer(db *gorm.DB) *Server {
	s := &Server{
		DB:     db,
		Health: health.NewServer(),
		grpc:   grpc.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.Health)
	reflection.Register(s.grpc)

	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// CheckDependencies pings the database and updates the reported health status.
func (s *Server) CheckDependencies(ctx context.Context) bool {
	healthy := s.ping(ctx) == nil
	if healthy {
		s.setStatus(healthpb.HealthCheckResponse_SERVING)
	} else {
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return healthy
}

func (s *Server) ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// WatchDependencies re-checks every interval until ctx is done.
func (s *Server) WatchDependencies(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wasHealthy := s.CheckDependencies(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			healthy := s.CheckDependencies(ctx)
			if healthy != wasHealthy {
				log.Printf("gRPC health changed: serving=%v", healthy)
			}
			wasHealthy = healthy
		}
	}
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.Health.SetServingStatus("", status)
	s.Health.SetServingStatus(ServiceName, status)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

func (s *Server) Stop() {
	s.Health.Shutdown()
	s.grpc.GracefulStop()
}

// StartGRPCServer initializes and starts the gRPC server
func StartGRPCServer(ctx context.Context, port string, db *gorm.DB) *Server {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	s := NewServer(db)
	go s.WatchDependencies(ctx, 15*time.Second)

	go func() {
		log.Printf("gRPC server listening at %v", lis.Addr())
		if err := s.Serve(lis); err != nil {
			log.Fatalf("failed to serve: %v", err)
		}
	}()
	return s
}
