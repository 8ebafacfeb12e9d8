package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	now   time.Time
	show  domain.Show
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.store = NewStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	s.show = domain.Show{
		MovieTitle:   "Heat",
		ScreenNumber: 1,
		StartTime:    s.now.Add(3 * time.Hour),
		BasePrice:    decimal.NewFromInt(10),
	}
	s.Require().NoError(s.store.Shows().Create(s.ctx, &s.show))

	layout := domain.ScreenLayout{Rows: []domain.LayoutRow{
		{Seats: []domain.LayoutSlot{
			{ID: "A1", Type: domain.SeatStandard},
			{ID: "A2", Type: domain.SeatPremium},
			{ID: "A3", Type: domain.SeatDisabled},
		}},
	}}

	seats, err := layout.Seats(s.show.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Seats().CreateForShow(s.ctx, seats))
}

func (s *StoreTestSuite) seatStates() map[string]domain.SeatState {
	seats, err := s.store.Seats().GetByShow(s.ctx, s.show.ID)
	s.Require().NoError(err)

	states := make(map[string]domain.SeatState, len(seats))
	for _, seat := range seats {
		states[seat.ID] = seat.State
	}

	return states
}

func (s *StoreTestSuite) TestTransitionIsAllOrNothing() {
	err := s.store.Seats().Transition(s.ctx, s.show.ID, []string{"A1", "A3"}, domain.SeatAvailable, domain.SeatLocked, s.now)

	var conflict *domain.SeatConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal([]string{"A3"}, conflict.SeatIDs)
	s.ErrorIs(err, domain.ErrSeatConflict)

	s.Equal(domain.SeatAvailable, s.seatStates()["A1"])
	s.Equal(domain.SeatBooked, s.seatStates()["A3"])
}

func (s *StoreTestSuite) TestTransitionUnknownSeat() {
	err := s.store.Seats().Transition(s.ctx, s.show.ID, []string{"Z9"}, domain.SeatAvailable, domain.SeatLocked, s.now)
	s.ErrorIs(err, domain.ErrSeatConflict)
}

func (s *StoreTestSuite) TestTransitionSetsLockedAt() {
	err := s.store.Seats().Transition(s.ctx, s.show.ID, []string{"A1"}, domain.SeatAvailable, domain.SeatLocked, s.now)
	s.Require().NoError(err)

	seats, err := s.store.Seats().GetByShowAndIds(s.ctx, s.show.ID, []string{"A1"})
	s.Require().NoError(err)
	s.Require().Len(seats, 1)
	s.Require().NotNil(seats[0].LockedAt)
	s.True(seats[0].LockedAt.Equal(s.now))

	err = s.store.Seats().Transition(s.ctx, s.show.ID, []string{"A1"}, domain.SeatLocked, domain.SeatBooked, s.now)
	s.Require().NoError(err)

	seats, err = s.store.Seats().GetByShowAndIds(s.ctx, s.show.ID, []string{"A1"})
	s.Require().NoError(err)
	s.Nil(seats[0].LockedAt)
}

func (s *StoreTestSuite) TestWithinTxRollsBackEveryRepository() {
	account := domain.Account{UserID: 7, Email: "u7@example.com", Balance: decimal.NewFromInt(100)}
	s.Require().NoError(s.store.Accounts().Create(s.ctx, &account))

	hold := domain.NewHold(7, s.show.ID, []string{"A1", "A2"}, s.now)
	failure := errors.New("boom")

	err := s.store.WithinTx(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.Holds().Create(ctx, &hold))
		s.Require().NoError(s.store.Seats().Transition(ctx, s.show.ID, hold.SeatIDs, domain.SeatAvailable, domain.SeatLocked, s.now))
		s.Require().NoError(s.store.Accounts().Debit(ctx, 7, decimal.NewFromInt(40)))
		return failure
	})
	s.ErrorIs(err, failure)

	_, err = s.store.Holds().GetByUserId(s.ctx, 7)
	s.ErrorIs(err, domain.ErrRecordNotFound)

	states := s.seatStates()
	s.Equal(domain.SeatAvailable, states["A1"])
	s.Equal(domain.SeatAvailable, states["A2"])

	got, err := s.store.Accounts().GetById(s.ctx, 7)
	s.Require().NoError(err)
	s.True(got.Balance.Equal(decimal.NewFromInt(100)))
}

func (s *StoreTestSuite) TestHoldUniquePerUser() {
	first := domain.NewHold(1, s.show.ID, []string{"A1"}, s.now)
	second := domain.NewHold(1, s.show.ID, []string{"A2"}, s.now)

	s.Require().NoError(s.store.Holds().Create(s.ctx, &first))
	s.ErrorIs(s.store.Holds().Create(s.ctx, &second), domain.ErrAlreadyHasHold)

	s.Require().NoError(s.store.Holds().Delete(s.ctx, first.ID))
	s.NoError(s.store.Holds().Create(s.ctx, &second))
	s.ErrorIs(s.store.Holds().Delete(s.ctx, first.ID), domain.ErrRecordNotFound)
}

func (s *StoreTestSuite) TestListCreatedBefore() {
	old := domain.NewHold(1, s.show.ID, []string{"A1"}, s.now.Add(-10*time.Minute))
	fresh := domain.NewHold(2, s.show.ID, []string{"A2"}, s.now)

	s.Require().NoError(s.store.Holds().Create(s.ctx, &old))
	s.Require().NoError(s.store.Holds().Create(s.ctx, &fresh))

	holds, err := s.store.Holds().ListCreatedBefore(s.ctx, s.now.Add(-5*time.Minute))
	s.Require().NoError(err)
	s.Require().Len(holds, 1)
	s.Equal(old.ID, holds[0].ID)
}

func (s *StoreTestSuite) TestDebitRejectsOverdraft() {
	account := domain.Account{UserID: 3, Balance: decimal.NewFromInt(15)}
	s.Require().NoError(s.store.Accounts().Create(s.ctx, &account))

	s.ErrorIs(s.store.Accounts().Debit(s.ctx, 3, decimal.NewFromInt(16)), domain.ErrInsufficientBalance)
	s.NoError(s.store.Accounts().Debit(s.ctx, 3, decimal.NewFromInt(15)))
	s.ErrorIs(s.store.Accounts().Debit(s.ctx, 99, decimal.NewFromInt(1)), domain.ErrRecordNotFound)

	got, err := s.store.Accounts().GetById(s.ctx, 3)
	s.Require().NoError(err)
	s.True(got.Balance.IsZero())
}

func (s *StoreTestSuite) TestSummariesArePagedNewestFirst() {
	for i := range 3 {
		hold := domain.NewHold(5, s.show.ID, []string{"A1"}, s.now)
		booking := domain.NewBooking(hold, decimal.NewFromInt(10), s.now.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.store.Bookings().Create(s.ctx, &booking, domain.NewBookingSummary(booking, s.show)))
	}

	page, metadata, err := s.store.Bookings().GetSummariesByUserId(s.ctx, 5, domain.Pagination{Page: 1, PageSize: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.True(page[0].CreatedAt.After(page[1].CreatedAt))
	s.Equal(3, metadata.TotalRecords)
	s.Equal(2, metadata.LastPage)

	page, _, err = s.store.Bookings().GetSummariesByUserId(s.ctx, 5, domain.Pagination{Page: 3, PageSize: 2})
	s.Require().NoError(err)
	s.Empty(page)
}

func (s *StoreTestSuite) TestDeleteShowData() {
	hold := domain.NewHold(1, s.show.ID, []string{"A1"}, s.now)
	s.Require().NoError(s.store.Holds().Create(s.ctx, &hold))

	booking := domain.NewBooking(hold, decimal.NewFromInt(10), s.now)
	s.Require().NoError(s.store.Bookings().Create(s.ctx, &booking, domain.NewBookingSummary(booking, s.show)))

	s.Require().NoError(s.store.Holds().DeleteByShow(s.ctx, s.show.ID))
	s.Require().NoError(s.store.Bookings().DeleteByShow(s.ctx, s.show.ID))
	s.Require().NoError(s.store.Seats().DeleteByShow(s.ctx, s.show.ID))
	s.Require().NoError(s.store.Shows().Delete(s.ctx, s.show.ID))

	_, err := s.store.Bookings().GetSummaryById(s.ctx, booking.ID)
	s.ErrorIs(err, domain.ErrRecordNotFound)

	seats, err := s.store.Seats().GetByShow(s.ctx, s.show.ID)
	s.Require().NoError(err)
	s.Empty(seats)

	_, err = s.store.Shows().GetById(s.ctx, s.show.ID)
	s.ErrorIs(err, domain.ErrShowNotFound)
}
