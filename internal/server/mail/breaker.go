package mail

import (
	"context"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/logging"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes BreakerMailer.
type BreakerConfig struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// BreakerMailer stops calling a failing relay for a while. When open, Send
// fails fast with gobreaker.ErrOpenState.
type BreakerMailer struct {
	next Mailer
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerMailer(next Mailer, cfg BreakerConfig, logger logging.Logger) *BreakerMailer {
	if cfg.Name == "" {
		cfg.Name = "smtp"
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "mail circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerMailer{next: next, cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

func (b *BreakerMailer) Send(ctx context.Context, msg Message) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Send(ctx, msg)
	})
	return err
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *BreakerMailer) State() string {
	return b.cb.State().String()
}
