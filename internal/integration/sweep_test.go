package integration_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/metinatakli/movie-booking-engine/internal/sweeplock"
	"github.com/stretchr/testify/suite"
)

type SweepTestSuite struct {
	BaseSuite
}

func TestSweepSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(SweepTestSuite))
}

func (s *SweepTestSuite) TestExpiresStaleHolds() {
	ctx := context.Background()
	show := seedShow(s.T(), s.app, 3*time.Hour)

	stale, err := s.app.Engine.Holds.CreateHold(ctx, TestUserId, show.ID, []string{"A1", "A2"})
	s.Require().NoError(err)

	s.app.Clock.Advance(4 * time.Minute)

	fresh, err := s.app.Engine.Holds.CreateHold(ctx, TestOtherUser, show.ID, []string{"B1"})
	s.Require().NoError(err)

	s.app.Clock.Advance(TestHoldTTL - 3*time.Minute)

	result, err := s.app.Engine.Sweeper.Sweep(ctx)
	s.Require().NoError(err)
	s.Equal(1, result.ExpiredHolds)
	s.Equal(0, result.ExpiredShows)

	states := seatStates(s.T(), s.app, show.ID)
	s.Equal(domain.SeatAvailable, states["A1"])
	s.Equal(domain.SeatAvailable, states["A2"])
	s.Equal(domain.SeatLocked, states["B1"])

	_, err = s.app.Engine.Holds.GetUserHold(ctx, TestUserId)
	s.ErrorIs(err, domain.ErrRecordNotFound)

	_, err = s.app.Engine.Ledger.ConfirmHold(ctx, stale.ID, TestUserId)
	s.ErrorIs(err, domain.ErrRecordNotFound)

	pending, err := s.app.Engine.Holds.GetUserHold(ctx, TestOtherUser)
	s.Require().NoError(err)
	s.Equal(fresh.ID, pending.ID)
}

func (s *SweepTestSuite) TestRemovesStartedShows() {
	ctx := context.Background()
	openAccount(s.T(), s.app, TestUserId)

	started := seedShow(s.T(), s.app, 30*time.Minute)
	upcoming := seedShow(s.T(), s.app, 3*time.Hour)

	hold, err := s.app.Engine.Holds.CreateHold(ctx, TestUserId, started.ID, []string{"A1"})
	s.Require().NoError(err)

	_, err = s.app.Engine.Ledger.ConfirmHold(ctx, hold.ID, TestUserId)
	s.Require().NoError(err)

	_, err = s.app.Engine.Holds.CreateHold(ctx, TestOtherUser, started.ID, []string{"B2"})
	s.Require().NoError(err)

	s.app.Clock.Advance(31 * time.Minute)

	result, err := s.app.Engine.Sweeper.Sweep(ctx)
	s.Require().NoError(err)
	s.Equal(1, result.ExpiredShows)

	Scenario{
		Name:           "seat map of the started show is gone",
		Method:         http.MethodGet,
		URL:            "/shows/1/seats",
		ExpectedStatus: http.StatusNotFound,
	}.Run(s.T(), s.app)

	var remaining int
	s.Require().NoError(s.app.DB.QueryRow(ctx, `SELECT COUNT(*) FROM show_seats WHERE show_id = $1`, started.ID).Scan(&remaining))
	s.Zero(remaining)

	s.Require().NoError(s.app.DB.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE show_id = $1`, started.ID).Scan(&remaining))
	s.Zero(remaining)

	_, err = s.app.Engine.Catalog.GetShow(ctx, upcoming.ID)
	s.NoError(err)
}

func (s *SweepTestSuite) TestSweepLockIsExclusive() {
	ctx := context.Background()

	first := sweeplock.New(s.app.Redis, sweeplock.DefaultKey, time.Minute)
	second := sweeplock.New(s.app.Redis, sweeplock.DefaultKey, time.Minute)

	acquired, err := first.TryLock(ctx)
	s.Require().NoError(err)
	s.True(acquired)

	acquired, err = second.TryLock(ctx)
	s.Require().NoError(err)
	s.False(acquired)

	// Releasing a lock held by someone else must not free it.
	s.Require().NoError(second.Unlock(ctx))

	acquired, err = second.TryLock(ctx)
	s.Require().NoError(err)
	s.False(acquired)

	s.Require().NoError(first.Unlock(ctx))

	acquired, err = second.TryLock(ctx)
	s.Require().NoError(err)
	s.True(acquired)

	ttl, err := s.app.Redis.PTTL(ctx, sweeplock.DefaultKey).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}
