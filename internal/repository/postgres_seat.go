package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) CreateForShow(ctx context.Context, seats []domain.Seat) error {
	rows := make([][]any, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, []any{
			seat.ShowID,
			seat.ID,
			seat.Row,
			seat.Col,
			string(seat.Category),
			seat.Price.String(),
			string(seat.State),
		})
	}

	return withTx(ctx, p.db, func(ctx context.Context) error {
		_, err := txFromContext(ctx).CopyFrom(
			ctx,
			pgx.Identifier{"show_seats"},
			[]string{"show_id", "seat_id", "seat_row", "seat_col", "category", "price", "state"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return domain.StorageError("create seats", err)
		}

		return nil
	})
}

func (p *PostgresSeatRepository) GetByShow(ctx context.Context, showID int) ([]domain.Seat, error) {
	query := `
		SELECT show_id, seat_id, seat_row, seat_col, category, price, state, locked_at
		FROM show_seats
		WHERE show_id = $1
		ORDER BY seat_row, seat_col
	`

	return p.querySeats(ctx, query, showID)
}

func (p *PostgresSeatRepository) GetByShowAndIds(
	ctx context.Context,
	showID int,
	seatIDs []string) ([]domain.Seat, error) {

	query := `
		SELECT show_id, seat_id, seat_row, seat_col, category, price, state, locked_at
		FROM show_seats
		WHERE show_id = $1 AND seat_id = ANY($2)
		ORDER BY seat_row, seat_col
	`

	return p.querySeats(ctx, query, showID, seatIDs)
}

func (p *PostgresSeatRepository) querySeats(ctx context.Context, query string, args ...any) ([]domain.Seat, error) {
	rows, err := conn(ctx, p.db).Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError("query seats", err)
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seat.ShowID,
			&seat.ID,
			&seat.Row,
			&seat.Col,
			&seat.Category,
			&seat.Price,
			&seat.State,
			&seat.LockedAt,
		)
		if err != nil {
			return nil, domain.StorageError("scan seat", err)
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.StorageError("query seats", err)
	}

	return seats, nil
}

// Transition is a single conditional update over the whole seat set. Seats
// that are not in the expected state (or are disabled) are left out of the
// update; if any is missing the transaction is rolled back.
func (p *PostgresSeatRepository) Transition(
	ctx context.Context,
	showID int,
	seatIDs []string,
	from, to domain.SeatState,
	at time.Time) error {

	var lockedAt *time.Time
	if to == domain.SeatLocked {
		lockedAt = &at
	}

	query := `
		UPDATE show_seats
		SET state = $4, locked_at = $5
		WHERE show_id = $1
			AND seat_id = ANY($2)
			AND state = $3
			AND category <> 'disabled'
		RETURNING seat_id
	`

	return withTx(ctx, p.db, func(ctx context.Context) error {
		rows, err := conn(ctx, p.db).Query(ctx, query, showID, seatIDs, string(from), string(to), lockedAt)
		if err != nil {
			return domain.StorageError("transition seats", err)
		}

		updated, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return domain.StorageError("transition seats", err)
		}

		if len(updated) == len(seatIDs) {
			return nil
		}

		return &domain.SeatConflictError{
			ShowID:  showID,
			SeatIDs: missingSeatIDs(seatIDs, updated),
		}
	})
}

func (p *PostgresSeatRepository) DeleteByShow(ctx context.Context, showID int) error {
	_, err := conn(ctx, p.db).Exec(ctx, `DELETE FROM show_seats WHERE show_id = $1`, showID)
	if err != nil {
		return domain.StorageError("delete seats", err)
	}

	return nil
}

func missingSeatIDs(requested, updated []string) []string {
	done := make(map[string]struct{}, len(updated))
	for _, id := range updated {
		done[id] = struct{}{}
	}

	missing := make([]string, 0, len(requested)-len(updated))
	for _, id := range requested {
		if _, ok := done[id]; !ok {
			missing = append(missing, id)
		}
	}

	return missing
}
