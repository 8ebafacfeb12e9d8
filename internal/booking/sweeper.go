package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/clock"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/metinatakli/movie-booking-engine/internal/metrics"
)

// Locker is a lease shared by every replica running a sweeper.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

type SweepResult struct {
	ExpiredHolds int
	ExpiredShows int
}

// Sweeper reclaims seats of holds older than the hold TTL and removes shows
// that have started.
type Sweeper struct {
	store   Store
	holds   *HoldManager
	catalog *Catalog
	locker  Locker
	clock   clock.Clock
	logger  *slog.Logger
	config  Config
}

// Run sweeps every SweepInterval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.config.SweepInterval.String())

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return nil
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if s.locker != nil {
		acquired, err := s.locker.TryLock(ctx)
		if err != nil {
			s.logger.Error("failed to acquire sweep lock", "error", err)
			return
		}

		if !acquired {
			return
		}

		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Error("failed to release sweep lock", "error", err)
			}
		}()
	}

	result, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
	}

	if result.ExpiredHolds > 0 || result.ExpiredShows > 0 {
		s.logger.Info("sweep finished", "expired_holds", result.ExpiredHolds, "expired_shows", result.ExpiredShows)
	}
}

// Sweep runs one expiry pass. A failure on one hold or show does not stop the
// pass; the failures are joined into the returned error.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	var (
		result SweepResult
		errs   []error
	)

	now := s.clock.Now()

	holds, err := s.store.Holds.ListCreatedBefore(ctx, now.Add(-s.config.HoldTTL))
	if err != nil {
		errs = append(errs, err)
	}

	for _, hold := range holds {
		expired, err := s.holds.ExpireHold(ctx, hold.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if expired {
			result.ExpiredHolds++
		}
	}

	shows, err := s.store.Shows.ListStartedBefore(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}

	for _, show := range shows {
		err := s.catalog.DeleteShow(ctx, show.ID)
		if errors.Is(err, domain.ErrShowNotFound) {
			continue
		}

		if err != nil {
			errs = append(errs, err)
			continue
		}

		result.ExpiredShows++
	}

	metrics.TrackSwept("hold", result.ExpiredHolds)
	metrics.TrackSwept("show", result.ExpiredShows)

	return result, errors.Join(errs...)
}
