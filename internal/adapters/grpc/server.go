package grpc

import (
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

// DefaultStopTimeout bounds how long StopServer waits for in-flight RPCs
const DefaultStopTimeout = 5 * time.Second

// StopServer drains s with GracefulStop and falls back to Stop after timeout.
// Health Watch streams stay open until the client leaves, so an unbounded
// GracefulStop can block forever. Reports whether the drain finished in time.
func StopServer(s *grpc.Server, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		log.Warn().Dur("timeout", timeout).Msg("graceful stop timed out, closing open streams")
		s.Stop()
		<-done
		return false
	}
}
