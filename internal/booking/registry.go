package booking

import (
	"context"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

// SeatRegistry owns seat state. Seat sets move between states all at once or
// not at all.
type SeatRegistry struct {
	seats domain.SeatRepository
	shows domain.ShowRepository
}

// GetSeats returns the requested seats of a show. A seat id the show does not
// have is ErrRecordNotFound.
func (r *SeatRegistry) GetSeats(ctx context.Context, showID int, seatIDs []string) ([]domain.Seat, error) {
	seatIDs, err := domain.NormalizeSeatIDs(seatIDs)
	if err != nil {
		return nil, err
	}

	if _, err := r.shows.GetById(ctx, showID); err != nil {
		return nil, err
	}

	seats, err := r.seats.GetByShowAndIds(ctx, showID, seatIDs)
	if err != nil {
		return nil, err
	}

	if len(seats) != len(seatIDs) {
		return nil, domain.ErrRecordNotFound
	}

	return seats, nil
}

func (r *SeatRegistry) ListSeats(ctx context.Context, showID int) ([]domain.Seat, error) {
	if _, err := r.shows.GetById(ctx, showID); err != nil {
		return nil, err
	}

	return r.seats.GetByShow(ctx, showID)
}

// TransitionSeats moves every seat in seatIDs from one state to another. When
// any seat is not in the expected state, or is disabled, nothing moves and a
// *domain.SeatConflictError names the offending seats.
func (r *SeatRegistry) TransitionSeats(
	ctx context.Context,
	showID int,
	seatIDs []string,
	from, to domain.SeatState,
	now time.Time) error {

	if !domain.CanTransition(from, to) {
		return domain.ErrInvalidTransition
	}

	seatIDs, err := domain.NormalizeSeatIDs(seatIDs)
	if err != nil {
		return err
	}

	return r.seats.Transition(ctx, showID, seatIDs, from, to, now)
}
