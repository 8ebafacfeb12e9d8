// Package booking implements the seat inventory and booking lifecycle:
// seat state transitions, holds, confirmation, cancellation and expiry.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/clock"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/metinatakli/movie-booking-engine/internal/metrics"
	"github.com/shopspring/decimal"
)

// Store groups the repositories the engine works with. Every repository must
// join the transaction that Tx puts on the context.
type Store struct {
	Tx       domain.Transactor
	Seats    domain.SeatRepository
	Shows    domain.ShowRepository
	Holds    domain.HoldRepository
	Bookings domain.BookingRepository
	Accounts domain.AccountRepository
}

type Config struct {
	HoldTTL       time.Duration
	CancelCutoff  time.Duration
	SweepInterval time.Duration
	RefundRate    decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		HoldTTL:       5 * time.Minute,
		CancelCutoff:  20 * time.Minute,
		SweepInterval: time.Minute,
		RefundRate:    decimal.RequireFromString("0.8"),
	}
}

type options struct {
	clock     clock.Clock
	logger    *slog.Logger
	publisher domain.TicketPublisher
	locker    Locker
	config    Config
}

type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPublisher sets where ticket events go after a booking is confirmed.
func WithPublisher(p domain.TicketPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithLocker makes the sweeper skip a tick unless it acquires the lock.
func WithLocker(l Locker) Option {
	return func(o *options) { o.locker = l }
}

func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = cfg }
}

type Engine struct {
	Registry *SeatRegistry
	Holds    *HoldManager
	Ledger   *Ledger
	Catalog  *Catalog
	Sweeper  *Sweeper
}

func New(store Store, opts ...Option) *Engine {
	o := options{
		clock:  clock.NewSystem(),
		logger: slog.Default(),
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.publisher == nil {
		o.publisher = noopPublisher{}
	}

	registry := &SeatRegistry{
		seats: store.Seats,
		shows: store.Shows,
	}

	holds := &HoldManager{
		store:    store,
		registry: registry,
		clock:    o.clock,
		logger:   o.logger,
	}

	catalog := &Catalog{
		store:  store,
		clock:  o.clock,
		logger: o.logger,
	}

	return &Engine{
		Registry: registry,
		Holds:    holds,
		Ledger: &Ledger{
			store:     store,
			registry:  registry,
			publisher: o.publisher,
			clock:     o.clock,
			logger:    o.logger,
			config:    o.config,
		},
		Catalog: catalog,
		Sweeper: &Sweeper{
			store:   store,
			holds:   holds,
			catalog: catalog,
			locker:  o.locker,
			clock:   o.clock,
			logger:  o.logger,
			config:  o.config,
		},
	}
}

type noopPublisher struct{}

func (noopPublisher) PublishTicket(context.Context, domain.TicketEvent) error {
	return nil
}

// outcome classifies an operation result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, domain.ErrStorage):
		return metrics.StatusError
	default:
		return metrics.StatusRejected
	}
}
