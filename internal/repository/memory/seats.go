package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type SeatRepository struct {
	store *Store
}

func (r *SeatRepository) CreateForShow(ctx context.Context, seats []domain.Seat) error {
	return r.store.run(ctx, func(tx *memTx) error {
		for _, seat := range seats {
			showSeats, ok := r.store.seats[seat.ShowID]
			if !ok {
				showSeats = make(map[string]domain.Seat)
				r.store.seats[seat.ShowID] = showSeats

				showID := seat.ShowID
				tx.onRollback(func() { delete(r.store.seats, showID) })
			}

			if _, ok := showSeats[seat.ID]; ok {
				return domain.ErrInvalidLayout
			}

			showSeats[seat.ID] = cloneSeat(seat)

			seatID := seat.ID
			tx.onRollback(func() { delete(showSeats, seatID) })
		}

		return nil
	})
}

func (r *SeatRepository) GetByShow(ctx context.Context, showID int) ([]domain.Seat, error) {
	var seats []domain.Seat

	err := r.store.run(ctx, func(tx *memTx) error {
		seats = make([]domain.Seat, 0, len(r.store.seats[showID]))
		for _, seat := range r.store.seats[showID] {
			seats = append(seats, cloneSeat(seat))
		}

		return nil
	})

	sortSeats(seats)

	return seats, err
}

func (r *SeatRepository) GetByShowAndIds(ctx context.Context, showID int, seatIDs []string) ([]domain.Seat, error) {
	var seats []domain.Seat

	err := r.store.run(ctx, func(tx *memTx) error {
		seats = make([]domain.Seat, 0, len(seatIDs))
		for _, id := range seatIDs {
			if seat, ok := r.store.seats[showID][id]; ok {
				seats = append(seats, cloneSeat(seat))
			}
		}

		return nil
	})

	sortSeats(seats)

	return seats, err
}

func (r *SeatRepository) Transition(
	ctx context.Context,
	showID int,
	seatIDs []string,
	from, to domain.SeatState,
	at time.Time) error {

	return r.store.run(ctx, func(tx *memTx) error {
		showSeats := r.store.seats[showID]

		var failed []string
		for _, id := range seatIDs {
			seat, ok := showSeats[id]
			if !ok || seat.Disabled() || seat.State != from {
				failed = append(failed, id)
			}
		}

		if len(failed) > 0 {
			return &domain.SeatConflictError{ShowID: showID, SeatIDs: failed}
		}

		for _, id := range seatIDs {
			previous := showSeats[id]

			updated := previous
			updated.State = to
			updated.LockedAt = nil
			if to == domain.SeatLocked {
				lockedAt := at
				updated.LockedAt = &lockedAt
			}

			showSeats[id] = updated
			tx.onRollback(func() { showSeats[previous.ID] = previous })
		}

		return nil
	})
}

func (r *SeatRepository) DeleteByShow(ctx context.Context, showID int) error {
	return r.store.run(ctx, func(tx *memTx) error {
		showSeats, ok := r.store.seats[showID]
		if !ok {
			return nil
		}

		delete(r.store.seats, showID)
		tx.onRollback(func() { r.store.seats[showID] = showSeats })

		return nil
	})
}

func sortSeats(seats []domain.Seat) {
	slices.SortFunc(seats, func(a, b domain.Seat) int {
		return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.Col, b.Col))
	})
}
