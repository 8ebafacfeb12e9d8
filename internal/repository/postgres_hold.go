package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type PostgresHoldRepository struct {
	db *pgxpool.Pool
}

func NewPostgresHoldRepository(db *pgxpool.Pool) *PostgresHoldRepository {
	return &PostgresHoldRepository{
		db: db,
	}
}

// Create relies on the unique index on holds.user_id, so two concurrent
// requests of one user cannot both insert a hold.
func (p *PostgresHoldRepository) Create(ctx context.Context, hold *domain.Hold) error {
	query := `
		INSERT INTO holds (id, user_id, show_id, seat_ids, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := conn(ctx, p.db).Exec(
		ctx,
		query,
		hold.ID,
		hold.UserID,
		hold.ShowID,
		hold.SeatIDs,
		hold.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyHasHold
		}

		return domain.StorageError("create hold", err)
	}

	return nil
}

func (p *PostgresHoldRepository) GetById(ctx context.Context, id string) (*domain.Hold, error) {
	query := `
		SELECT id, user_id, show_id, seat_ids, created_at
		FROM holds
		WHERE id = $1
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresHoldRepository) GetByIdForUpdate(ctx context.Context, id string) (*domain.Hold, error) {
	query := `
		SELECT id, user_id, show_id, seat_ids, created_at
		FROM holds
		WHERE id = $1
		FOR UPDATE
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresHoldRepository) GetByUserId(ctx context.Context, userID int) (*domain.Hold, error) {
	query := `
		SELECT id, user_id, show_id, seat_ids, created_at
		FROM holds
		WHERE user_id = $1
	`

	return p.getOne(ctx, query, userID)
}

func (p *PostgresHoldRepository) getOne(ctx context.Context, query string, arg any) (*domain.Hold, error) {
	var hold domain.Hold

	err := conn(ctx, p.db).QueryRow(ctx, query, arg).Scan(
		&hold.ID,
		&hold.UserID,
		&hold.ShowID,
		&hold.SeatIDs,
		&hold.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, domain.StorageError("get hold", err)
	}

	return &hold, nil
}

func (p *PostgresHoldRepository) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, p.db).Exec(ctx, `DELETE FROM holds WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrRecordNotFound
		}

		return domain.StorageError("delete hold", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresHoldRepository) ListCreatedBefore(ctx context.Context, t time.Time) ([]domain.Hold, error) {
	query := `
		SELECT id, user_id, show_id, seat_ids, created_at
		FROM holds
		WHERE created_at < $1
		ORDER BY created_at
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, t)
	if err != nil {
		return nil, domain.StorageError("list expired holds", err)
	}
	defer rows.Close()

	holds := make([]domain.Hold, 0)

	for rows.Next() {
		var hold domain.Hold

		err = rows.Scan(&hold.ID, &hold.UserID, &hold.ShowID, &hold.SeatIDs, &hold.CreatedAt)
		if err != nil {
			return nil, domain.StorageError("scan hold", err)
		}

		holds = append(holds, hold)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.StorageError("list expired holds", err)
	}

	return holds, nil
}

func (p *PostgresHoldRepository) DeleteByShow(ctx context.Context, showID int) error {
	_, err := conn(ctx, p.db).Exec(ctx, `DELETE FROM holds WHERE show_id = $1`, showID)
	if err != nil {
		return domain.StorageError("delete holds of show", err)
	}

	return nil
}
