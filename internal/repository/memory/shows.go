package memory

import (
	"context"
	"slices"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

type ShowRepository struct {
	store *Store
}

func (r *ShowRepository) Create(ctx context.Context, show *domain.Show) error {
	return r.store.run(ctx, func(tx *memTx) error {
		r.store.nextShowID++
		show.ID = r.store.nextShowID
		if show.CreatedAt.IsZero() {
			show.CreatedAt = time.Now().UTC()
		}

		r.store.shows[show.ID] = *show

		id := show.ID
		tx.onRollback(func() {
			delete(r.store.shows, id)
			r.store.nextShowID--
		})

		return nil
	})
}

func (r *ShowRepository) GetById(ctx context.Context, id int) (*domain.Show, error) {
	var show domain.Show

	err := r.store.run(ctx, func(tx *memTx) error {
		s, ok := r.store.shows[id]
		if !ok {
			return domain.ErrShowNotFound
		}

		show = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &show, nil
}

func (r *ShowRepository) ListStartedBefore(ctx context.Context, t time.Time) ([]domain.Show, error) {
	shows := make([]domain.Show, 0)

	err := r.store.run(ctx, func(tx *memTx) error {
		for _, show := range r.store.shows {
			if show.StartTime.Before(t) {
				shows = append(shows, show)
			}
		}

		return nil
	})

	slices.SortFunc(shows, func(a, b domain.Show) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return shows, err
}

func (r *ShowRepository) Delete(ctx context.Context, id int) error {
	return r.store.run(ctx, func(tx *memTx) error {
		show, ok := r.store.shows[id]
		if !ok {
			return domain.ErrShowNotFound
		}

		delete(r.store.shows, id)
		tx.onRollback(func() { r.store.shows[id] = show })

		return nil
	})
}
