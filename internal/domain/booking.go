package domain

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	ID          string
	UserID      int
	ShowID      int
	SeatIDs     []string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

func NewBooking(hold Hold, total decimal.Decimal, now time.Time) Booking {
	return Booking{
		ID:          uuid.New().String(),
		UserID:      hold.UserID,
		ShowID:      hold.ShowID,
		SeatIDs:     slices.Clone(hold.SeatIDs),
		TotalAmount: total,
		CreatedAt:   now,
	}
}

// BookingSummary is the denormalized history row kept per booking for
// listing without joining the show catalog.
type BookingSummary struct {
	BookingID   string
	UserID      int
	MovieTitle  string
	ShowTime    time.Time
	Seats       string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

func NewBookingSummary(booking Booking, show Show) BookingSummary {
	return BookingSummary{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		MovieTitle:  show.MovieTitle,
		ShowTime:    show.StartTime,
		Seats:       strings.Join(booking.SeatIDs, " "),
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
	}
}

// RefundAmount is the part of the paid total returned on cancellation.
func RefundAmount(total, refundRate decimal.Decimal) decimal.Decimal {
	return RoundMoney(total.Mul(refundRate))
}

type BookingRepository interface {
	// Create stores the booking together with its history row.
	Create(ctx context.Context, booking *Booking, summary BookingSummary) error
	GetById(ctx context.Context, id string) (*Booking, error)
	GetByIdForUpdate(ctx context.Context, id string) (*Booking, error)
	GetByShowId(ctx context.Context, showID int) ([]Booking, error)
	GetSummaryById(ctx context.Context, id string) (*BookingSummary, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)
	// Delete removes the booking and its history row.
	Delete(ctx context.Context, id string) error
	DeleteByShow(ctx context.Context, showID int) error
}
