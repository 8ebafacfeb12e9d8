package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

var DefaultBalance = decimal.NewFromInt(1500)

type Account struct {
	UserID  int
	Email   string
	Balance decimal.Decimal
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetById(ctx context.Context, userID int) (*Account, error)
	// Debit fails with ErrInsufficientBalance and leaves the balance untouched
	// when it is lower than amount.
	Debit(ctx context.Context, userID int, amount decimal.Decimal) error
	Credit(ctx context.Context, userID int, amount decimal.Decimal) error
}
