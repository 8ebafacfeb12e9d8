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
)

// HoldManager keeps at most one pending hold per user. Creating a hold locks
// its seats in the same transaction that records it.
type HoldManager struct {
	store    Store
	registry *SeatRegistry
	clock    clock.Clock
	logger   *slog.Logger
}

func (m *HoldManager) CreateHold(ctx context.Context, userID, showID int, seatIDs []string) (hold *domain.Hold, err error) {
	started := time.Now()
	defer func() { metrics.TrackOperation("create_hold", outcome(err), started) }()

	seatIDs, err = domain.NormalizeSeatIDs(seatIDs)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	h := domain.NewHold(userID, showID, seatIDs, now)

	err = m.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		show, err := m.store.Shows.GetById(ctx, showID)
		if err != nil {
			return err
		}

		if !show.StartTime.After(now) {
			return domain.ErrShowNotFound
		}

		if _, err := m.registry.GetSeats(ctx, showID, seatIDs); err != nil {
			return err
		}

		if err := m.store.Holds.Create(ctx, &h); err != nil {
			return err
		}

		err = m.registry.TransitionSeats(ctx, showID, seatIDs, domain.SeatAvailable, domain.SeatLocked, now)
		if errors.Is(err, domain.ErrSeatConflict) {
			return fmt.Errorf("%w: %w", domain.ErrSeatUnavailable, err)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("hold created", "hold_id", h.ID, "user_id", userID, "show_id", showID, "seats", seatIDs)

	return &h, nil
}

func (m *HoldManager) GetUserHold(ctx context.Context, userID int) (*domain.Hold, error) {
	return m.store.Holds.GetByUserId(ctx, userID)
}

// DeleteHold releases the seats of a hold owned by userID and removes it.
func (m *HoldManager) DeleteHold(ctx context.Context, holdID string, userID int) (err error) {
	started := time.Now()
	defer func() { metrics.TrackOperation("delete_hold", outcome(err), started) }()

	now := m.clock.Now()

	var hold *domain.Hold

	err = m.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error

		hold, err = m.store.Holds.GetByIdForUpdate(ctx, holdID)
		if err != nil {
			return err
		}

		if hold.UserID != userID {
			return domain.ErrUnauthorized
		}

		return m.release(ctx, hold, now)
	})
	if err != nil {
		return err
	}

	metrics.TrackHoldLifetime("released", now.Sub(hold.CreatedAt))
	m.logger.Info("hold released", "hold_id", holdID, "user_id", userID)

	return nil
}

// ExpireHold releases a hold regardless of its owner. It reports false when
// the hold no longer exists.
func (m *HoldManager) ExpireHold(ctx context.Context, holdID string) (bool, error) {
	now := m.clock.Now()

	var hold *domain.Hold

	err := m.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error

		hold, err = m.store.Holds.GetByIdForUpdate(ctx, holdID)
		if err != nil {
			return err
		}

		return m.release(ctx, hold, now)
	})
	if errors.Is(err, domain.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	metrics.TrackHoldLifetime("expired", now.Sub(hold.CreatedAt))

	return true, nil
}

func (m *HoldManager) release(ctx context.Context, hold *domain.Hold, now time.Time) error {
	err := m.registry.TransitionSeats(ctx, hold.ShowID, hold.SeatIDs, domain.SeatLocked, domain.SeatAvailable, now)
	if err != nil {
		return fmt.Errorf("release seats of hold %s: %w", hold.ID, err)
	}

	return m.store.Holds.Delete(ctx, hold.ID)
}
