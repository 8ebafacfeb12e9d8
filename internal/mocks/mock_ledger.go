package mocks

import (
	"context"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) ConfirmHold(ctx context.Context, holdID string, userID int) (*domain.Booking, error) {
	args := m.Called(ctx, holdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLedger) CancelBooking(ctx context.Context, bookingID string, userID int) (decimal.Decimal, error) {
	args := m.Called(ctx, bookingID, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) DeleteBooking(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockLedger) ListUserBookings(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BookingSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockLedger) ListShowBookings(ctx context.Context, showID int) ([]domain.Booking, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockLedger) GetBookingDetails(ctx context.Context, bookingID string, userID int) (*domain.BookingSummary, error) {
	args := m.Called(ctx, bookingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingSummary), args.Error(1)
}

func (m *MockLedger) OpenAccount(ctx context.Context, userID int, email string) (*domain.Account, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedger) GetAccount(ctx context.Context, userID int) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
