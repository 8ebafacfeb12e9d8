package mocks

import (
	"context"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatRegistry struct {
	mock.Mock
}

func (m *MockSeatRegistry) ListSeats(ctx context.Context, showID int) ([]domain.Seat, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}
