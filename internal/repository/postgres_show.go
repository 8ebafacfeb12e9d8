package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) Create(ctx context.Context, show *domain.Show) error {
	query := `
		INSERT INTO shows (movie_title, screen_number, start_time, base_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := conn(ctx, p.db).QueryRow(
		ctx,
		query,
		show.MovieTitle,
		show.ScreenNumber,
		show.StartTime,
		show.BasePrice,
	).Scan(&show.ID, &show.CreatedAt)

	if err != nil {
		return domain.StorageError("create show", err)
	}

	return nil
}

func (p *PostgresShowRepository) GetById(ctx context.Context, id int) (*domain.Show, error) {
	query := `
		SELECT id, movie_title, screen_number, start_time, base_price, created_at
		FROM shows
		WHERE id = $1
	`

	var show domain.Show

	err := conn(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.MovieTitle,
		&show.ScreenNumber,
		&show.StartTime,
		&show.BasePrice,
		&show.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowNotFound
		}

		return nil, domain.StorageError("get show", err)
	}

	return &show, nil
}

func (p *PostgresShowRepository) ListStartedBefore(ctx context.Context, t time.Time) ([]domain.Show, error) {
	query := `
		SELECT id, movie_title, screen_number, start_time, base_price, created_at
		FROM shows
		WHERE start_time < $1
		ORDER BY start_time
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, t)
	if err != nil {
		return nil, domain.StorageError("list started shows", err)
	}
	defer rows.Close()

	shows := make([]domain.Show, 0)

	for rows.Next() {
		var show domain.Show

		err = rows.Scan(
			&show.ID,
			&show.MovieTitle,
			&show.ScreenNumber,
			&show.StartTime,
			&show.BasePrice,
			&show.CreatedAt,
		)
		if err != nil {
			return nil, domain.StorageError("scan show", err)
		}

		shows = append(shows, show)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.StorageError("list started shows", err)
	}

	return shows, nil
}

func (p *PostgresShowRepository) Delete(ctx context.Context, id int) error {
	tag, err := conn(ctx, p.db).Exec(ctx, `DELETE FROM shows WHERE id = $1`, id)
	if err != nil {
		return domain.StorageError("delete show", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrShowNotFound
	}

	return nil
}
