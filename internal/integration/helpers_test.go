package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/metinatakli/movie-booking-engine/internal/booking"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"expiresAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		switch v := m[k].(type) {
		case map[string]any:
			cleanMap(v)
		case []any:
			for _, item := range v {
				if nested, ok := item.(map[string]any); ok {
					cleanMap(nested)
				}
			}
		}
	}
}

func bearer(t testing.TB, userID int, admin bool) map[string]string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.Itoa(userID),
		"email": TestUserEmail,
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err)

	return map[string]string{"Authorization": "Bearer " + token}
}

// seedShow creates a show with two rows:
// A1 standard, A2 premium, A3 disabled, A4 vip, B1 standard, B2 standard.
func seedShow(t testing.TB, app *TestApp, startsIn time.Duration) *domain.Show {
	t.Helper()

	show, err := app.Engine.Catalog.CreateShow(context.Background(), booking.CreateShowInput{
		MovieTitle:   TestMovieTitle,
		ScreenNumber: TestScreen,
		StartTime:    app.Clock.Now().Add(startsIn),
		BasePrice:    decimal.NewFromInt(2),
		Layout: domain.ScreenLayout{
			Rows: []domain.LayoutRow{
				{Seats: []domain.LayoutSlot{
					{ID: "A1", Type: domain.SeatStandard},
					{ID: "A2", Type: domain.SeatPremium},
					{ID: "A3", Type: domain.SeatDisabled},
					{ID: "A4", Type: domain.SeatVIP},
				}},
				{Seats: []domain.LayoutSlot{
					{ID: "B1", Type: domain.SeatStandard},
					{ID: "B2", Type: domain.SeatStandard},
				}},
			},
		},
	})
	require.NoError(t, err)

	return show
}

func openAccount(t testing.TB, app *TestApp, userID int) {
	t.Helper()

	_, err := app.Engine.Ledger.OpenAccount(context.Background(), userID, TestUserEmail)
	require.NoError(t, err)
}

func seatStates(t testing.TB, app *TestApp, showID int) map[string]domain.SeatState {
	t.Helper()

	seats, err := app.Engine.Registry.ListSeats(context.Background(), showID)
	require.NoError(t, err)

	states := make(map[string]domain.SeatState, len(seats))
	for _, seat := range seats {
		states[seat.ID] = seat.State
	}

	return states
}
