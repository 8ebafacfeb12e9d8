// Package notify delivers ticket events of confirmed bookings to Kafka,
// RabbitMQ or the log.
package notify

import (
	"context"
	"log/slog"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

// LogPublisher only logs ticket events. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishTicket(ctx context.Context, event domain.TicketEvent) error {
	p.logger.InfoContext(ctx, "ticket issued",
		"booking_id", event.BookingID,
		"user_id", event.UserID,
		"movie_title", event.MovieTitle,
		"seats", event.SeatIDs,
		"total", event.Total.String())

	return nil
}
