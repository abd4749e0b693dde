package server

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer is the gRPC health endpoint used by orchestrator probes.
type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
	lis    net.Listener
	logger *slog.Logger
}

// StartHealthServer listens on addr and reports SERVING until Stop.
func StartHealthServer(addr string, logger *slog.Logger) (*HealthServer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("health listen %s: %w", addr, err)
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		logger.Info("grpc health listening", "addr", lis.Addr().String())
		if err := gs.Serve(lis); err != nil {
			logger.Error("grpc health server stopped", "error", err)
		}
	}()
	return &HealthServer{grpc: gs, health: hs, lis: lis, logger: logger}, nil
}

// Addr returns the bound address.
func (s *HealthServer) Addr() string { return s.lis.Addr().String() }

// Stop flips the status to NOT_SERVING and stops the server gracefully.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
	s.logger.Info("grpc health stopped")
}
