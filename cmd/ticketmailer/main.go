// Command ticketmailer consumes confirmed-booking events from Kafka and mails
// the ticket to the customer.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/metinatakli/movie-booking-engine/internal/app"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/metinatakli/movie-booking-engine/internal/mailer"
	"github.com/metinatakli/movie-booking-engine/internal/notify"
)

type config struct {
	kafka app.KafkaConfig
	smtp  app.SMTPConfig
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("ticket mailer stopped", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (config, error) {
	var cfg config

	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	smtpPort, err := strconv.Atoi(env("SMTP_PORT", "2525"))
	if err != nil {
		return cfg, err
	}

	flags := flag.NewFlagSet("ticketmailer", flag.ContinueOnError)

	flags.StringVar(&cfg.kafka.Brokers, "kafka-brokers", env("KAFKA_BROKERS", "localhost:9092"), "Comma separated Kafka brokers")
	flags.StringVar(&cfg.kafka.Topic, "kafka-topic", env("KAFKA_TOPIC", notify.DefaultTopic), "Kafka topic of ticket events")
	flags.StringVar(&cfg.kafka.GroupID, "kafka-group-id", env("KAFKA_GROUP_ID", "ticket-mailer"), "Kafka consumer group")

	flags.StringVar(&cfg.smtp.Host, "smtp-host", env("SMTP_HOST", "sandbox.smtp.mailtrap.io"), "SMTP host")
	flags.IntVar(&cfg.smtp.Port, "smtp-port", smtpPort, "SMTP port")
	flags.StringVar(&cfg.smtp.Username, "smtp-username", env("SMTP_USERNAME", ""), "SMTP username")
	flags.StringVar(&cfg.smtp.Password, "smtp-password", env("SMTP_PASSWORD", ""), "SMTP password")
	flags.StringVar(&cfg.smtp.Sender, "smtp-sender", env("SMTP_SENDER", "Movie Booking <no-reply@booking.example.com>"), "SMTP sender")

	return cfg, flags.Parse(args)
}

func run(cfg config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := notify.NewKafkaConsumer(cfg.kafka.BrokerList(), cfg.kafka.GroupID, cfg.kafka.Topic, logger)
	defer consumer.Close()

	m := mailer.NewSMTP(cfg.smtp.Host, cfg.smtp.Port, cfg.smtp.Username, cfg.smtp.Password, cfg.smtp.Sender)

	logger.Info("consuming ticket events", "topic", cfg.kafka.Topic, "group", cfg.kafka.GroupID)

	err := consumer.Consume(ctx, func(ctx context.Context, event domain.TicketEvent) error {
		if err := mailer.SendTicket(m, event); err != nil {
			// A failed delivery must not block the partition.
			logger.Error("failed to send ticket", "booking_id", event.BookingID, "error", err)
			return nil
		}

		logger.Info("ticket sent", "booking_id", event.BookingID, "user_id", event.UserID)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
