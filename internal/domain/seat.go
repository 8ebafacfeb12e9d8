package domain

import (
	"context"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatLocked    SeatState = "locked"
	SeatBooked    SeatState = "booked"
)

type SeatCategory string

const (
	SeatStandard SeatCategory = "standard"
	SeatPremium  SeatCategory = "premium"
	SeatVIP      SeatCategory = "vip"
	SeatDisabled SeatCategory = "disabled"
)

var categoryPrices = map[SeatCategory]decimal.Decimal{
	SeatStandard: decimal.NewFromInt(1),
	SeatPremium:  decimal.RequireFromString("1.5"),
	SeatVIP:      decimal.NewFromInt(2),
	SeatDisabled: decimal.Zero,
}

func (c SeatCategory) Valid() bool {
	_, ok := categoryPrices[c]
	return ok
}

// Price returns the price multiplier of a seat category.
func (c SeatCategory) Price() decimal.Decimal {
	return categoryPrices[c]
}

type Seat struct {
	ShowID   int
	ID       string
	Row      string
	Col      int
	Category SeatCategory
	Price    decimal.Decimal
	State    SeatState
	LockedAt *time.Time
}

func (s Seat) Disabled() bool {
	return s.Category == SeatDisabled
}

// seatIDPattern is a row letter followed by a one to three digit column.
var seatIDPattern = regexp.MustCompile(`^[A-Z][0-9]{1,3}$`)

// NewSeat builds a seat from a layout slot. The row label is the first
// character of the upper-cased seat id and the column the remaining digits.
func NewSeat(showID int, slot LayoutSlot) (Seat, error) {
	slot.ID = strings.ToUpper(strings.TrimSpace(slot.ID))

	if !slot.Type.Valid() {
		return Seat{}, ErrInvalidLayout
	}

	if !seatIDPattern.MatchString(slot.ID) {
		return Seat{}, ErrInvalidLayout
	}

	col, err := strconv.Atoi(slot.ID[1:])
	if err != nil || col < 1 {
		return Seat{}, ErrInvalidLayout
	}

	state := SeatAvailable
	if slot.Type == SeatDisabled {
		state = SeatBooked
	}

	return Seat{
		ShowID:   showID,
		ID:       slot.ID,
		Row:      slot.ID[:1],
		Col:      col,
		Category: slot.Type,
		Price:    slot.Type.Price(),
		State:    state,
	}, nil
}

var allowedTransitions = map[SeatState][]SeatState{
	SeatAvailable: {SeatLocked},
	SeatLocked:    {SeatAvailable, SeatBooked},
	SeatBooked:    {SeatAvailable},
}

// CanTransition reports whether a seat may move from one state to another.
// Booked seats only return to available, never directly to locked.
func CanTransition(from, to SeatState) bool {
	return slices.Contains(allowedTransitions[from], to)
}

// SeatsTotal computes the amount charged for a set of seats of a show,
// rounded to cents.
func SeatsTotal(seats []Seat, basePrice decimal.Decimal) decimal.Decimal {
	total := decimal.Zero

	for _, seat := range seats {
		total = total.Add(seat.Price)
	}

	return RoundMoney(total.Mul(basePrice))
}

// NormalizeSeatIDs trims the requested seat ids and rejects empty or
// duplicated selections.
func NormalizeSeatIDs(seatIDs []string) ([]string, error) {
	if len(seatIDs) == 0 {
		return nil, ErrInvalidSeatSelection
	}

	normalized := make([]string, 0, len(seatIDs))
	seen := make(map[string]struct{}, len(seatIDs))

	for _, id := range seatIDs {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" {
			return nil, ErrInvalidSeatSelection
		}

		if _, ok := seen[id]; ok {
			return nil, ErrInvalidSeatSelection
		}

		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}

	return normalized, nil
}

type SeatRepository interface {
	CreateForShow(ctx context.Context, seats []Seat) error
	GetByShow(ctx context.Context, showID int) ([]Seat, error)
	GetByShowAndIds(ctx context.Context, showID int, seatIDs []string) ([]Seat, error)
	// Transition moves every listed seat from one state to another or none of
	// them, returning a *SeatConflictError naming the seats that failed.
	Transition(ctx context.Context, showID int, seatIDs []string, from, to SeatState, at time.Time) error
	DeleteByShow(ctx context.Context, showID int) error
}
