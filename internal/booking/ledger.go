package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/clock"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/metinatakli/movie-booking-engine/internal/metrics"
	"github.com/shopspring/decimal"
)

// Ledger turns holds into paid bookings and back.
type Ledger struct {
	store     Store
	registry  *SeatRegistry
	publisher domain.TicketPublisher
	clock     clock.Clock
	logger    *slog.Logger
	config    Config
}

// ConfirmHold charges the hold owner for its seats, books them and replaces
// the hold with a booking. A ticket event is published once the booking is
// committed; a failed publish does not undo the booking.
func (l *Ledger) ConfirmHold(ctx context.Context, holdID string, userID int) (booking *domain.Booking, err error) {
	started := time.Now()
	defer func() { metrics.TrackOperation("confirm_hold", outcome(err), started) }()

	now := l.clock.Now()

	var (
		hold *domain.Hold
		show *domain.Show
		b    domain.Booking
	)

	err = l.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error

		hold, err = l.store.Holds.GetByIdForUpdate(ctx, holdID)
		if err != nil {
			return err
		}

		if hold.UserID != userID {
			return domain.ErrUnauthorized
		}

		show, err = l.store.Shows.GetById(ctx, hold.ShowID)
		if err != nil {
			return err
		}

		seats, err := l.registry.GetSeats(ctx, hold.ShowID, hold.SeatIDs)
		if err != nil {
			return err
		}

		total := domain.SeatsTotal(seats, show.BasePrice)

		if err := l.store.Accounts.Debit(ctx, userID, total); err != nil {
			return err
		}

		err = l.registry.TransitionSeats(ctx, hold.ShowID, hold.SeatIDs, domain.SeatLocked, domain.SeatBooked, now)
		if err != nil {
			return fmt.Errorf("book seats of hold %s: %w", hold.ID, err)
		}

		if err := l.store.Holds.Delete(ctx, hold.ID); err != nil {
			return err
		}

		b = domain.NewBooking(*hold, total, now)

		return l.store.Bookings.Create(ctx, &b, domain.NewBookingSummary(b, *show))
	})
	if err != nil {
		return nil, err
	}

	metrics.TrackHoldLifetime("confirmed", now.Sub(hold.CreatedAt))
	l.logger.Info("booking confirmed",
		"booking_id", b.ID, "user_id", userID, "show_id", b.ShowID, "total", b.TotalAmount.String())

	l.publishTicket(ctx, b, *show)

	return &b, nil
}

func (l *Ledger) publishTicket(ctx context.Context, b domain.Booking, show domain.Show) {
	event := domain.TicketEvent{
		UserID:     b.UserID,
		BookingID:  b.ID,
		MovieTitle: show.MovieTitle,
		ShowTime:   show.StartTime,
		Total:      b.TotalAmount,
		SeatIDs:    b.SeatIDs,
	}

	account, err := l.store.Accounts.GetById(ctx, b.UserID)
	if err == nil {
		event.Email = account.Email
	}

	if err := l.publisher.PublishTicket(ctx, event); err != nil {
		metrics.TrackPublishFailure()
		l.logger.Error("failed to publish ticket event", "booking_id", b.ID, "error", err)
	}
}

// CancelBooking frees the seats of a booking, deletes it and refunds part of
// its total. It returns the refunded amount.
func (l *Ledger) CancelBooking(ctx context.Context, bookingID string, userID int) (refund decimal.Decimal, err error) {
	started := time.Now()
	defer func() { metrics.TrackOperation("cancel_booking", outcome(err), started) }()

	now := l.clock.Now()

	err = l.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := l.store.Bookings.GetByIdForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if booking.UserID != userID {
			return domain.ErrUnauthorized
		}

		show, err := l.store.Shows.GetById(ctx, booking.ShowID)
		if err != nil {
			return err
		}

		if show.StartTime.Sub(now) < l.config.CancelCutoff {
			return domain.ErrTooLateToCancel
		}

		if err := l.removeBooking(ctx, booking, now); err != nil {
			return err
		}

		refund = domain.RefundAmount(booking.TotalAmount, l.config.RefundRate)

		return l.store.Accounts.Credit(ctx, userID, refund)
	})
	if err != nil {
		return decimal.Zero, err
	}

	l.logger.Info("booking cancelled", "booking_id", bookingID, "user_id", userID, "refund", refund.String())

	return refund, nil
}

// DeleteBooking removes a booking and frees its seats without a refund.
func (l *Ledger) DeleteBooking(ctx context.Context, bookingID string) (err error) {
	started := time.Now()
	defer func() { metrics.TrackOperation("delete_booking", outcome(err), started) }()

	now := l.clock.Now()

	err = l.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := l.store.Bookings.GetByIdForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		return l.removeBooking(ctx, booking, now)
	})
	if err != nil {
		return err
	}

	l.logger.Info("booking deleted", "booking_id", bookingID)

	return nil
}

func (l *Ledger) removeBooking(ctx context.Context, booking *domain.Booking, now time.Time) error {
	err := l.registry.TransitionSeats(ctx, booking.ShowID, booking.SeatIDs, domain.SeatBooked, domain.SeatAvailable, now)
	if err != nil {
		return fmt.Errorf("free seats of booking %s: %w", booking.ID, err)
	}

	return l.store.Bookings.Delete(ctx, booking.ID)
}

func (l *Ledger) ListUserBookings(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	return l.store.Bookings.GetSummariesByUserId(ctx, userID, pagination)
}

func (l *Ledger) ListShowBookings(ctx context.Context, showID int) ([]domain.Booking, error) {
	if _, err := l.store.Shows.GetById(ctx, showID); err != nil {
		return nil, err
	}

	return l.store.Bookings.GetByShowId(ctx, showID)
}

func (l *Ledger) GetBookingDetails(ctx context.Context, bookingID string, userID int) (*domain.BookingSummary, error) {
	summary, err := l.store.Bookings.GetSummaryById(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if summary.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return summary, nil
}

// OpenAccount creates an account with the default balance. Opening an
// account that already exists returns the existing one.
func (l *Ledger) OpenAccount(ctx context.Context, userID int, email string) (*domain.Account, error) {
	account := &domain.Account{
		UserID:  userID,
		Email:   email,
		Balance: domain.DefaultBalance,
	}

	err := l.store.Accounts.Create(ctx, account)
	if errors.Is(err, domain.ErrEditConflict) {
		return l.store.Accounts.GetById(ctx, userID)
	}

	if err != nil {
		return nil, err
	}

	l.logger.Info("account opened", "user_id", userID)

	return account, nil
}

func (l *Ledger) GetAccount(ctx context.Context, userID int) (*domain.Account, error) {
	return l.store.Accounts.GetById(ctx, userID)
}

func (l *Ledger) GetBalance(ctx context.Context, userID int) (decimal.Decimal, error) {
	account, err := l.GetAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return account.Balance, nil
}
