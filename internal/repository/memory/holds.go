package memory

import (
	"context"
	"slices"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type HoldRepository struct {
	store *Store
}

func (r *HoldRepository) Create(ctx context.Context, hold *domain.Hold) error {
	return r.store.run(ctx, func(tx *memTx) error {
		if _, ok := r.store.holdByUser[hold.UserID]; ok {
			return domain.ErrAlreadyHasHold
		}

		if _, ok := r.store.holds[hold.ID]; ok {
			return domain.ErrEditConflict
		}

		r.store.holds[hold.ID] = cloneHold(*hold)
		r.store.holdByUser[hold.UserID] = hold.ID

		id, userID := hold.ID, hold.UserID
		tx.onRollback(func() {
			delete(r.store.holds, id)
			delete(r.store.holdByUser, userID)
		})

		return nil
	})
}

func (r *HoldRepository) GetById(ctx context.Context, id string) (*domain.Hold, error) {
	var hold domain.Hold

	err := r.store.run(ctx, func(tx *memTx) error {
		h, ok := r.store.holds[id]
		if !ok {
			return domain.ErrRecordNotFound
		}

		hold = cloneHold(h)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &hold, nil
}

// GetByIdForUpdate is GetById: the store lock already serializes transactions.
func (r *HoldRepository) GetByIdForUpdate(ctx context.Context, id string) (*domain.Hold, error) {
	return r.GetById(ctx, id)
}

func (r *HoldRepository) GetByUserId(ctx context.Context, userID int) (*domain.Hold, error) {
	var hold domain.Hold

	err := r.store.run(ctx, func(tx *memTx) error {
		id, ok := r.store.holdByUser[userID]
		if !ok {
			return domain.ErrRecordNotFound
		}

		hold = cloneHold(r.store.holds[id])
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &hold, nil
}

func (r *HoldRepository) Delete(ctx context.Context, id string) error {
	return r.store.run(ctx, func(tx *memTx) error {
		hold, ok := r.store.holds[id]
		if !ok {
			return domain.ErrRecordNotFound
		}

		r.remove(tx, hold)
		return nil
	})
}

func (r *HoldRepository) ListCreatedBefore(ctx context.Context, t time.Time) ([]domain.Hold, error) {
	holds := make([]domain.Hold, 0)

	err := r.store.run(ctx, func(tx *memTx) error {
		for _, hold := range r.store.holds {
			if hold.CreatedAt.Before(t) {
				holds = append(holds, cloneHold(hold))
			}
		}

		return nil
	})

	slices.SortFunc(holds, func(a, b domain.Hold) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return holds, err
}

func (r *HoldRepository) DeleteByShow(ctx context.Context, showID int) error {
	return r.store.run(ctx, func(tx *memTx) error {
		for _, hold := range r.store.holds {
			if hold.ShowID == showID {
				r.remove(tx, hold)
			}
		}

		return nil
	})
}

func (r *HoldRepository) remove(tx *memTx, hold domain.Hold) {
	delete(r.store.holds, hold.ID)
	delete(r.store.holdByUser, hold.UserID)

	tx.onRollback(func() {
		r.store.holds[hold.ID] = hold
		r.store.holdByUser[hold.UserID] = hold.ID
	})
}
