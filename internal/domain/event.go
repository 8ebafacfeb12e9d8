package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TicketEvent is emitted after a booking is confirmed so tickets can be
// delivered outside of the booking transaction.
type TicketEvent struct {
	UserID     int             `json:"user_id"`
	Email      string          `json:"email"`
	BookingID  string          `json:"booking_id"`
	MovieTitle string          `json:"movie_title"`
	ShowTime   time.Time       `json:"show_time"`
	Total      decimal.Decimal `json:"total"`
	SeatIDs    []string        `json:"seat_ids"`
}

type TicketPublisher interface {
	PublishTicket(ctx context.Context, event TicketEvent) error
}
