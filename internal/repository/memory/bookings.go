package memory

import (
	"context"
	"slices"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking, summary domain.BookingSummary) error {
	return r.store.run(ctx, func(tx *memTx) error {
		if _, ok := r.store.bookings[booking.ID]; ok {
			return domain.ErrEditConflict
		}

		r.store.bookings[booking.ID] = cloneBooking(*booking)
		r.store.history[summary.BookingID] = summary

		id := booking.ID
		tx.onRollback(func() {
			delete(r.store.bookings, id)
			delete(r.store.history, summary.BookingID)
		})

		return nil
	})
}

func (r *BookingRepository) GetById(ctx context.Context, id string) (*domain.Booking, error) {
	var booking domain.Booking

	err := r.store.run(ctx, func(tx *memTx) error {
		b, ok := r.store.bookings[id]
		if !ok {
			return domain.ErrRecordNotFound
		}

		booking = cloneBooking(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// GetByIdForUpdate is GetById: the store lock already serializes transactions.
func (r *BookingRepository) GetByIdForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return r.GetById(ctx, id)
}

func (r *BookingRepository) GetByShowId(ctx context.Context, showID int) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)

	err := r.store.run(ctx, func(tx *memTx) error {
		for _, booking := range r.store.bookings {
			if booking.ShowID == showID {
				bookings = append(bookings, cloneBooking(booking))
			}
		}

		return nil
	})

	slices.SortFunc(bookings, func(a, b domain.Booking) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return bookings, err
}

func (r *BookingRepository) GetSummaryById(ctx context.Context, id string) (*domain.BookingSummary, error) {
	var summary domain.BookingSummary

	err := r.store.run(ctx, func(tx *memTx) error {
		s, ok := r.store.history[id]
		if !ok {
			return domain.ErrRecordNotFound
		}

		summary = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *BookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	var all []domain.BookingSummary

	err := r.store.run(ctx, func(tx *memTx) error {
		for _, summary := range r.store.history {
			if summary.UserID == userID {
				all = append(all, summary)
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	slices.SortFunc(all, func(a, b domain.BookingSummary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	page := make([]domain.BookingSummary, 0)
	if pagination.Offset() < len(all) {
		end := min(pagination.Offset()+pagination.Limit(), len(all))
		page = append(page, all[pagination.Offset():end]...)
	}

	totalRecords := 0
	if len(page) > 0 {
		totalRecords = len(all)
	}

	return page, domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize), nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	return r.store.run(ctx, func(tx *memTx) error {
		booking, ok := r.store.bookings[id]
		if !ok {
			return domain.ErrRecordNotFound
		}

		r.remove(tx, booking)
		return nil
	})
}

func (r *BookingRepository) DeleteByShow(ctx context.Context, showID int) error {
	return r.store.run(ctx, func(tx *memTx) error {
		for _, booking := range r.store.bookings {
			if booking.ShowID == showID {
				r.remove(tx, booking)
			}
		}

		return nil
	})
}

func (r *BookingRepository) remove(tx *memTx, booking domain.Booking) {
	summary, hasSummary := r.store.history[booking.ID]

	delete(r.store.bookings, booking.ID)
	delete(r.store.history, booking.ID)

	tx.onRollback(func() {
		r.store.bookings[booking.ID] = booking
		if hasSummary {
			r.store.history[booking.ID] = summary
		}
	})
}
