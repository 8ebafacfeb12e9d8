package memory

import (
	"context"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	store *Store
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.store.run(ctx, func(tx *memTx) error {
		if _, ok := r.store.accounts[account.UserID]; ok {
			return domain.ErrEditConflict
		}

		r.store.accounts[account.UserID] = *account

		userID := account.UserID
		tx.onRollback(func() { delete(r.store.accounts, userID) })

		return nil
	})
}

func (r *AccountRepository) GetById(ctx context.Context, userID int) (*domain.Account, error) {
	var account domain.Account

	err := r.store.run(ctx, func(tx *memTx) error {
		a, ok := r.store.accounts[userID]
		if !ok {
			return domain.ErrRecordNotFound
		}

		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) Debit(ctx context.Context, userID int, amount decimal.Decimal) error {
	return r.store.run(ctx, func(tx *memTx) error {
		account, ok := r.store.accounts[userID]
		if !ok {
			return domain.ErrRecordNotFound
		}

		if account.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}

		r.setBalance(tx, account, account.Balance.Sub(amount))
		return nil
	})
}

func (r *AccountRepository) Credit(ctx context.Context, userID int, amount decimal.Decimal) error {
	return r.store.run(ctx, func(tx *memTx) error {
		account, ok := r.store.accounts[userID]
		if !ok {
			return domain.ErrRecordNotFound
		}

		r.setBalance(tx, account, account.Balance.Add(amount))
		return nil
	})
}

func (r *AccountRepository) setBalance(tx *memTx, account domain.Account, balance decimal.Decimal) {
	previous := account

	account.Balance = balance
	r.store.accounts[account.UserID] = account

	tx.onRollback(func() { r.store.accounts[previous.UserID] = previous })
}
