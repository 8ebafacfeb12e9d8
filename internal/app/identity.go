package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const identityContextKey = contextKey("identity")

// Identity is the caller as asserted by the auth service's token.
type Identity struct {
	UserID int
	Email  string
	Admin  bool
}

type identityClaims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

var errMissingToken = errors.New("missing bearer token")

func parseIdentity(header, secret string) (*Identity, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, errMissingToken
	}

	var claims identityClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID < 1 {
		return nil, fmt.Errorf("invalid subject %q", claims.Subject)
	}

	return &Identity{
		UserID: userID,
		Email:  claims.Email,
		Admin:  claims.Admin,
	}, nil
}

func contextSetIdentity(r *http.Request, identity *Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, identity)
	return r.WithContext(ctx)
}

func (app *Application) contextGetIdentity(r *http.Request) *Identity {
	identity, ok := r.Context().Value(identityContextKey).(*Identity)
	if !ok {
		panic("missing identity from context")
	}

	return identity
}

func (app *Application) contextGetUserId(r *http.Request) int {
	return app.contextGetIdentity(r).UserID
}
