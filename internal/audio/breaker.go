package audio

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// newBreaker returns the circuit breaker guarding a remote speech API.
// After three consecutive failures calls fail fast for thirty seconds, so
// a drill session does not wait on a dead endpoint for every part.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("speech circuit breaker changed state", "provider", name, "from", from.String(), "to", to.String())
		},
	})
}
