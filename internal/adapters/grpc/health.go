package grpc

import (
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// PredictorService is the health service name that tracks window readiness
const PredictorService = "envwindow.Predictor"

// HealthReporter exposes buffer readiness over the standard gRPC health protocol.
// The overall service ("") is SERVING while the process runs; PredictorService
// is SERVING only while the predictor last loaded a full window.
// This implements the ports.StatusReporter interface.
type HealthReporter struct {
	server *health.Server
}

// NewHealthReporter creates a reporter with the predictor marked NOT_SERVING
func NewHealthReporter() *HealthReporter {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(PredictorService, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthReporter{server: hs}
}

// Register attaches the health service to a gRPC server
func (r *HealthReporter) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, r.server)
}

// SetWindowReady implements ports.StatusReporter
func (r *HealthReporter) SetWindowReady(ready bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	log.Debug().
		Str("service", PredictorService).
		Str("status", status.String()).
		Msg("health status updated")
	r.server.SetServingStatus(PredictorService, status)
}

// Shutdown marks every service NOT_SERVING ahead of GracefulStop
func (r *HealthReporter) Shutdown() {
	r.server.Shutdown()
}
