package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Show struct {
	ID           int
	MovieTitle   string
	ScreenNumber int
	StartTime    time.Time
	BasePrice    decimal.Decimal
	CreatedAt    time.Time
}

type ScreenLayout struct {
	Rows []LayoutRow `json:"rows"`
}

type LayoutRow struct {
	Seats []LayoutSlot `json:"seats"`
}

type LayoutSlot struct {
	ID   string       `json:"id"`
	Type SeatCategory `json:"type"`
}

func (l ScreenLayout) SeatCount() int {
	count := 0
	for _, row := range l.Rows {
		count += len(row.Seats)
	}

	return count
}

// Seats expands the layout into one seat per slot for the given show.
func (l ScreenLayout) Seats(showID int) ([]Seat, error) {
	if l.SeatCount() == 0 {
		return nil, ErrInvalidLayout
	}

	seats := make([]Seat, 0, l.SeatCount())
	seen := make(map[string]struct{}, l.SeatCount())

	for _, row := range l.Rows {
		for _, slot := range row.Seats {
			seat, err := NewSeat(showID, slot)
			if err != nil {
				return nil, err
			}

			if _, ok := seen[seat.ID]; ok {
				return nil, ErrInvalidLayout
			}
			seen[seat.ID] = struct{}{}

			seats = append(seats, seat)
		}
	}

	return seats, nil
}

type ShowRepository interface {
	Create(ctx context.Context, show *Show) error
	GetById(ctx context.Context, id int) (*Show, error)
	ListStartedBefore(ctx context.Context, t time.Time) ([]Show, error)
	Delete(ctx context.Context, id int) error
}
