package integration_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-engine/internal/app"
	"github.com/metinatakli/movie-booking-engine/internal/booking"
	"github.com/metinatakli/movie-booking-engine/internal/clock"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/metinatakli/movie-booking-engine/internal/sweeplock"
	appvalidator "github.com/metinatakli/movie-booking-engine/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App       *app.Application
	Engine    *booking.Engine
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Clock     *clock.Manual
	Publisher *recordingPublisher
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.TicketEvent
}

func (p *recordingPublisher) PublishTicket(_ context.Context, event domain.TicketEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []domain.TicketEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]domain.TicketEvent(nil), p.events...)
}

func (p *recordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = nil
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	engineCfg, err := cfg.Booking.Engine()
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	// Postgres keeps microsecond precision.
	clk := clock.NewManual(time.Now().Truncate(time.Microsecond))
	publisher := &recordingPublisher{}

	engine := booking.New(
		app.NewPostgresStore(db),
		booking.WithClock(clk),
		booking.WithLogger(logger),
		booking.WithPublisher(publisher),
		booking.WithConfig(engineCfg),
		booking.WithLocker(sweeplock.New(redisClient, cfg.Redis.SweepLockKey, cfg.Redis.SweepLockTTL)),
	)

	application := app.NewApp(cfg, logger, appvalidator.NewValidator(), engine, engineCfg.HoldTTL)

	return &TestApp{
		App:       application,
		Engine:    engine,
		DB:        db,
		Redis:     redisClient,
		Clock:     clk,
		Publisher: publisher,
	}, nil
}

func (a *TestApp) Close() {
	a.Redis.Close()
	a.DB.Close()
}
