// Package memory is an in-process implementation of the booking repositories.
// All repositories of one Store share a single lock; a transaction holds it
// for its whole duration and undoes its writes when it fails.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type txKey struct{}

type memTx struct {
	store *Store
	undo  []func()
}

func (tx *memTx) onRollback(fn func()) {
	tx.undo = append(tx.undo, fn)
}

func (tx *memTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

type Store struct {
	mu sync.Mutex

	nextShowID int
	shows      map[int]domain.Show
	seats      map[int]map[string]domain.Seat
	holds      map[string]domain.Hold
	holdByUser map[int]string
	bookings   map[string]domain.Booking
	history    map[string]domain.BookingSummary
	accounts   map[int]domain.Account
}

func NewStore() *Store {
	return &Store{
		shows:      make(map[int]domain.Show),
		seats:      make(map[int]map[string]domain.Seat),
		holds:      make(map[string]domain.Hold),
		holdByUser: make(map[int]string),
		bookings:   make(map[string]domain.Booking),
		history:    make(map[string]domain.BookingSummary),
		accounts:   make(map[int]domain.Account),
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := s.txFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}

	err := fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		tx.rollback()
	}

	return err
}

// run executes fn inside the caller's transaction or, when there is none,
// in a transaction of its own.
func (s *Store) run(ctx context.Context, fn func(tx *memTx) error) error {
	if tx := s.txFromContext(ctx); tx != nil {
		return fn(tx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}

	err := fn(tx)
	if err != nil {
		tx.rollback()
	}

	return err
}

func (s *Store) txFromContext(ctx context.Context) *memTx {
	tx, _ := ctx.Value(txKey{}).(*memTx)
	if tx == nil || tx.store != s {
		return nil
	}

	return tx
}

func (s *Store) Seats() *SeatRepository {
	return &SeatRepository{store: s}
}

func (s *Store) Shows() *ShowRepository {
	return &ShowRepository{store: s}
}

func (s *Store) Holds() *HoldRepository {
	return &HoldRepository{store: s}
}

func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

func cloneHold(h domain.Hold) domain.Hold {
	h.SeatIDs = slices.Clone(h.SeatIDs)
	return h
}

func cloneBooking(b domain.Booking) domain.Booking {
	b.SeatIDs = slices.Clone(b.SeatIDs)
	return b
}

func cloneSeat(seat domain.Seat) domain.Seat {
	if seat.LockedAt != nil {
		lockedAt := *seat.LockedAt
		seat.LockedAt = &lockedAt
	}

	return seat
}
