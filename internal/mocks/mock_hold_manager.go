package mocks

import (
	"context"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockHoldManager struct {
	mock.Mock
}

func (m *MockHoldManager) CreateHold(ctx context.Context, userID, showID int, seatIDs []string) (*domain.Hold, error) {
	args := m.Called(ctx, userID, showID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockHoldManager) GetUserHold(ctx context.Context, userID int) (*domain.Hold, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockHoldManager) DeleteHold(ctx context.Context, holdID string, userID int) error {
	args := m.Called(ctx, holdID, userID)
	return args.Error(0)
}
