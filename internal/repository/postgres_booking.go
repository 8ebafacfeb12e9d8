package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(
	ctx context.Context,
	booking *domain.Booking,
	summary domain.BookingSummary) error {

	return withTx(ctx, p.db, func(ctx context.Context) error {
		query := `
			INSERT INTO bookings (id, user_id, show_id, seat_ids, total_amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		_, err := conn(ctx, p.db).Exec(
			ctx,
			query,
			booking.ID,
			booking.UserID,
			booking.ShowID,
			booking.SeatIDs,
			booking.TotalAmount,
			booking.CreatedAt,
		)
		if err != nil {
			return domain.StorageError("create booking", err)
		}

		query = `
			INSERT INTO booking_history (booking_id, user_id, movie_title, show_time, seats, total_amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		_, err = conn(ctx, p.db).Exec(
			ctx,
			query,
			summary.BookingID,
			summary.UserID,
			summary.MovieTitle,
			summary.ShowTime,
			summary.Seats,
			summary.TotalAmount,
			summary.CreatedAt,
		)
		if err != nil {
			return domain.StorageError("create booking history", err)
		}

		return nil
	})
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, show_id, seat_ids, total_amount, created_at
		FROM bookings
		WHERE id = $1
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresBookingRepository) GetByIdForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, show_id, seat_ids, total_amount, created_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresBookingRepository) getOne(ctx context.Context, query string, id string) (*domain.Booking, error) {
	var booking domain.Booking

	err := conn(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.SeatIDs,
		&booking.TotalAmount,
		&booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, domain.StorageError("get booking", err)
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetByShowId(ctx context.Context, showID int) ([]domain.Booking, error) {
	query := `
		SELECT id, user_id, show_id, seat_ids, total_amount, created_at
		FROM bookings
		WHERE show_id = $1
		ORDER BY created_at
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, showID)
	if err != nil {
		return nil, domain.StorageError("list show bookings", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking

		err = rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ShowID,
			&booking.SeatIDs,
			&booking.TotalAmount,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, domain.StorageError("scan booking", err)
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.StorageError("list show bookings", err)
	}

	return bookings, nil
}

func (p *PostgresBookingRepository) GetSummaryById(ctx context.Context, id string) (*domain.BookingSummary, error) {
	query := `
		SELECT booking_id, user_id, movie_title, show_time, seats, total_amount, created_at
		FROM booking_history
		WHERE booking_id = $1
	`

	var summary domain.BookingSummary

	err := conn(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&summary.BookingID,
		&summary.UserID,
		&summary.MovieTitle,
		&summary.ShowTime,
		&summary.Seats,
		&summary.TotalAmount,
		&summary.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, domain.StorageError("get booking summary", err)
	}

	return &summary, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			booking_id,
			user_id,
			movie_title,
			show_time,
			seats,
			total_amount,
			created_at
		FROM booking_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, domain.StorageError("list user bookings", err)
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.BookingID,
			&summary.UserID,
			&summary.MovieTitle,
			&summary.ShowTime,
			&summary.Seats,
			&summary.TotalAmount,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, domain.StorageError("scan booking summary", err)
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, domain.StorageError("list user bookings", err)
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

func (p *PostgresBookingRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, p.db, func(ctx context.Context) error {
		_, err := conn(ctx, p.db).Exec(ctx, `DELETE FROM booking_history WHERE booking_id = $1`, id)
		if err != nil {
			if isInvalidText(err) {
				return domain.ErrRecordNotFound
			}

			return domain.StorageError("delete booking history", err)
		}

		tag, err := conn(ctx, p.db).Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
		if err != nil {
			return domain.StorageError("delete booking", err)
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrRecordNotFound
		}

		return nil
	})
}

func (p *PostgresBookingRepository) DeleteByShow(ctx context.Context, showID int) error {
	return withTx(ctx, p.db, func(ctx context.Context) error {
		query := `
			DELETE FROM booking_history
			WHERE booking_id IN (SELECT id FROM bookings WHERE show_id = $1)
		`

		_, err := conn(ctx, p.db).Exec(ctx, query, showID)
		if err != nil {
			return domain.StorageError("delete booking history of show", err)
		}

		_, err = conn(ctx, p.db).Exec(ctx, `DELETE FROM bookings WHERE show_id = $1`, showID)
		if err != nil {
			return domain.StorageError("delete bookings of show", err)
		}

		return nil
	})
}
