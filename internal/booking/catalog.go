package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/clock"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type Catalog struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

type CreateShowInput struct {
	MovieTitle   string
	ScreenNumber int
	StartTime    time.Time
	BasePrice    decimal.Decimal
	Layout       domain.ScreenLayout
}

// CreateShow stores a show together with one seat per layout slot.
func (c *Catalog) CreateShow(ctx context.Context, input CreateShowInput) (*domain.Show, error) {
	if !domain.ValidPrice(input.BasePrice) {
		return nil, domain.ErrInvalidPrice
	}

	if _, err := input.Layout.Seats(0); err != nil {
		return nil, err
	}

	show := &domain.Show{
		MovieTitle:   input.MovieTitle,
		ScreenNumber: input.ScreenNumber,
		StartTime:    input.StartTime.UTC(),
		BasePrice:    input.BasePrice,
		CreatedAt:    c.clock.Now(),
	}

	err := c.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := c.store.Shows.Create(ctx, show); err != nil {
			return err
		}

		seats, err := input.Layout.Seats(show.ID)
		if err != nil {
			return err
		}

		return c.store.Seats.CreateForShow(ctx, seats)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("show created", "show_id", show.ID, "movie_title", show.MovieTitle, "seats", input.Layout.SeatCount())

	return show, nil
}

func (c *Catalog) GetShow(ctx context.Context, showID int) (*domain.Show, error) {
	return c.store.Shows.GetById(ctx, showID)
}

// DeleteShow removes a show and everything that references it: holds,
// bookings with their history, then seats.
func (c *Catalog) DeleteShow(ctx context.Context, showID int) error {
	return c.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := c.store.Holds.DeleteByShow(ctx, showID); err != nil {
			return err
		}

		if err := c.store.Bookings.DeleteByShow(ctx, showID); err != nil {
			return err
		}

		if err := c.store.Seats.DeleteByShow(ctx, showID); err != nil {
			return err
		}

		return c.store.Shows.Delete(ctx, showID)
	})
}
