package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresAccountRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAccountRepository(db *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		db: db,
	}
}

func (p *PostgresAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (user_id, email, balance)
		VALUES ($1, $2, $3)
	`

	_, err := conn(ctx, p.db).Exec(ctx, query, account.UserID, account.Email, account.Balance)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEditConflict
		}

		return domain.StorageError("create account", err)
	}

	return nil
}

func (p *PostgresAccountRepository) GetById(ctx context.Context, userID int) (*domain.Account, error) {
	query := `SELECT user_id, email, balance FROM accounts WHERE user_id = $1`

	var account domain.Account

	err := conn(ctx, p.db).QueryRow(ctx, query, userID).Scan(&account.UserID, &account.Email, &account.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, domain.StorageError("get account", err)
	}

	return &account, nil
}

// Debit is a conditional update: the balance check and the write happen in
// one statement, so a concurrent debit cannot overdraw the account.
func (p *PostgresAccountRepository) Debit(ctx context.Context, userID int, amount decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
	`

	tag, err := conn(ctx, p.db).Exec(ctx, query, userID, amount)
	if err != nil {
		return domain.StorageError("debit account", err)
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool

	err = conn(ctx, p.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return domain.StorageError("debit account", err)
	}

	if !exists {
		return domain.ErrRecordNotFound
	}

	return domain.ErrInsufficientBalance
}

func (p *PostgresAccountRepository) Credit(ctx context.Context, userID int, amount decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := conn(ctx, p.db).Exec(ctx, query, userID, amount)
	if err != nil {
		return domain.StorageError("credit account", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
