package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-engine/internal/booking"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/metinatakli/movie-booking-engine/internal/notify"
	"github.com/metinatakli/movie-booking-engine/internal/repository"
	"github.com/metinatakli/movie-booking-engine/internal/repository/memory"
	"github.com/metinatakli/movie-booking-engine/internal/sweeplock"
	appvalidator "github.com/metinatakli/movie-booking-engine/internal/validator"
	"github.com/metinatakli/movie-booking-engine/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

type seatRegistry interface {
	ListSeats(ctx context.Context, showID int) ([]domain.Seat, error)
}

type holdManager interface {
	CreateHold(ctx context.Context, userID, showID int, seatIDs []string) (*domain.Hold, error)
	GetUserHold(ctx context.Context, userID int) (*domain.Hold, error)
	DeleteHold(ctx context.Context, holdID string, userID int) error
}

type bookingLedger interface {
	ConfirmHold(ctx context.Context, holdID string, userID int) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID string, userID int) (decimal.Decimal, error)
	DeleteBooking(ctx context.Context, bookingID string) error
	ListUserBookings(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error)
	ListShowBookings(ctx context.Context, showID int) ([]domain.Booking, error)
	GetBookingDetails(ctx context.Context, bookingID string, userID int) (*domain.BookingSummary, error)
	OpenAccount(ctx context.Context, userID int, email string) (*domain.Account, error)
	GetAccount(ctx context.Context, userID int) (*domain.Account, error)
}

type showCatalog interface {
	CreateShow(ctx context.Context, input booking.CreateShowInput) (*domain.Show, error)
	GetShow(ctx context.Context, showID int) (*domain.Show, error)
}

type Application struct {
	config    Config
	logger    *slog.Logger
	validator *validator.Validate
	holdTTL   time.Duration

	registry seatRegistry
	holds    holdManager
	ledger   bookingLedger
	catalog  showCatalog
}

func NewApp(cfg Config, logger *slog.Logger, validator *validator.Validate, engine *booking.Engine, holdTTL time.Duration) *Application {
	return &Application{
		config:    cfg,
		logger:    logger,
		validator: validator,
		holdTTL:   holdTTL,
		registry:  engine.Registry,
		holds:     engine.Holds,
		ledger:    engine.Ledger,
		catalog:   engine.Catalog,
	}
}

func Run() error {
	cfg, err := ParseConfig(serviceName, os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("Version:\t%s\n", version)
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &Application{config: cfg, logger: logger}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
		app.logger = logger
	}

	if cfg.JWT.Secret == "" {
		logger.Warn("jwt secret is not set, every authenticated request will be rejected")
	}

	engineCfg, err := cfg.Booking.Engine()
	if err != nil {
		return err
	}

	store, closeStore, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	opts := []booking.Option{
		booking.WithLogger(logger),
		booking.WithPublisher(publisher),
		booking.WithConfig(engineCfg),
	}

	if cfg.Redis.URL != "" {
		redisClient, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		opts = append(opts, booking.WithLocker(sweeplock.New(redisClient, cfg.Redis.SweepLockKey, cfg.Redis.SweepLockTTL)))
	}

	engine := booking.New(store, opts...)

	app = NewApp(cfg, logger, appvalidator.NewValidator(), engine, engineCfg.HoldTTL)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	go engine.Sweeper.Run(sweepCtx)

	return app.serve()
}

func newStore(cfg Config, logger *slog.Logger) (booking.Store, func(), error) {
	if cfg.Storage == StorageMemory {
		logger.Info("using in-memory storage")

		s := memory.NewStore()
		store := booking.Store{
			Tx:       s,
			Seats:    s.Seats(),
			Shows:    s.Shows(),
			Holds:    s.Holds(),
			Bookings: s.Bookings(),
			Accounts: s.Accounts(),
		}

		return store, func() {}, nil
	}

	if cfg.DB.Migrate {
		if err := repository.Migrate(cfg.DB.DSN); err != nil {
			return booking.Store{}, nil, err
		}
		logger.Info("database migrations applied")
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return booking.Store{}, nil, err
	}

	return NewPostgresStore(db), db.Close, nil
}

// NewPostgresStore builds the engine's repositories over one connection pool.
func NewPostgresStore(db *pgxpool.Pool) booking.Store {
	return booking.Store{
		Tx:       repository.NewPostgresTransactor(db),
		Seats:    repository.NewPostgresSeatRepository(db),
		Shows:    repository.NewPostgresShowRepository(db),
		Holds:    repository.NewPostgresHoldRepository(db),
		Bookings: repository.NewPostgresBookingRepository(db),
		Accounts: repository.NewPostgresAccountRepository(db),
	}
}

func newPublisher(cfg Config, logger *slog.Logger) (domain.TicketPublisher, func() error, error) {
	switch cfg.Publisher {
	case PublisherKafka:
		p := notify.NewKafkaPublisher(cfg.Kafka.BrokerList(), cfg.Kafka.Topic)
		logger.Info("publishing ticket events to kafka", "topic", cfg.Kafka.Topic)
		return p, p.Close, nil
	case PublisherAMQP:
		p, err := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("publishing ticket events to rabbitmq", "queue", cfg.AMQP.Queue)
		return p, p.Close, nil
	default:
		return notify.NewLogPublisher(logger), func() error { return nil }, nil
	}
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "storage", app.config.Storage)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
