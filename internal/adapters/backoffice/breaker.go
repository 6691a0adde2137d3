package backoffice

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"travel_console/internal/domain"
)

// newBreaker trips after 60% failures over at least 5 requests in a 30s window.
// Only transport failures and 5xx count as failures: a 4xx is the server
// answering correctly.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var re *retryableError
			if errors.As(err, &re) {
				return false
			}
			return !errors.Is(err, domain.ErrNetwork)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("circuit", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}
