package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Hold is a draft booking: one user's time-limited claim on a set of seats.
type Hold struct {
	ID        string
	UserID    int
	ShowID    int
	SeatIDs   []string
	CreatedAt time.Time
}

func NewHold(userID, showID int, seatIDs []string, now time.Time) Hold {
	return Hold{
		ID:        uuid.New().String(),
		UserID:    userID,
		ShowID:    showID,
		SeatIDs:   slices.Clone(seatIDs),
		CreatedAt: now,
	}
}

func (h Hold) ExpiresAt(ttl time.Duration) time.Time {
	return h.CreatedAt.Add(ttl)
}

type HoldRepository interface {
	// Create fails with ErrAlreadyHasHold when the user already owns a hold.
	Create(ctx context.Context, hold *Hold) error
	GetById(ctx context.Context, id string) (*Hold, error)
	GetByIdForUpdate(ctx context.Context, id string) (*Hold, error)
	GetByUserId(ctx context.Context, userID int) (*Hold, error)
	Delete(ctx context.Context, id string) error
	ListCreatedBefore(ctx context.Context, t time.Time) ([]Hold, error)
	DeleteByShow(ctx context.Context, showID int) error
}
