package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/metinatakli/movie-booking-engine/api"
	"github.com/metinatakli/movie-booking-engine/internal/mocks"
	"github.com/metinatakli/movie-booking-engine/internal/validator"
)

const (
	testSecret  = "test-secret"
	testHoldTTL = 5 * time.Minute
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config: Config{
			Env:     "test",
			Storage: StorageMemory,
			JWT:     JWTConfig{Secret: testSecret},
		},
		validator: validator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		holdTTL:   testHoldTTL,
		registry:  &mocks.MockSeatRegistry{},
		holds:     &mocks.MockHoldManager{},
		ledger:    &mocks.MockLedger{},
		catalog:   &mocks.MockCatalog{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

type tokenClaims struct {
	userID int
	email  string
	admin  bool
	secret string
	expiry time.Duration
}

func signToken(t *testing.T, c tokenClaims) string {
	t.Helper()

	if c.secret == "" {
		c.secret = testSecret
	}

	if c.expiry == 0 {
		c.expiry = time.Hour
	}

	claims := identityClaims{
		Email: c.email,
		Admin: c.admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(c.userID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.expiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.secret))
	if err != nil {
		t.Fatal(err)
	}

	return token
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// serveAs routes the request through the full router, authenticated as the
// given user when userID is positive.
func serveAs(t *testing.T, app *Application, userID int, admin bool, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	w, r := executeRequest(t, method, url, body)

	if userID > 0 {
		token := signToken(t, tokenClaims{userID: userID, email: "user@example.com", admin: admin})
		r.Header.Set("Authorization", "Bearer "+token)
	}

	app.Routes().ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		if len(validationResp.ValidationErrors) == 0 {
			if tt.wantErrMessage != "" && validationResp.Message != tt.wantErrMessage {
				t.Errorf("Error message = %v, want %v", validationResp.Message, tt.wantErrMessage)
			}
			return
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
