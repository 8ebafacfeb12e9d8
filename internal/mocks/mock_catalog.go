package mocks

import (
	"context"

	"github.com/metinatakli/movie-booking-engine/internal/booking"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) CreateShow(ctx context.Context, input booking.CreateShowInput) (*domain.Show, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}

func (m *MockCatalog) GetShow(ctx context.Context, showID int) (*domain.Show, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}
