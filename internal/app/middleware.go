package app

import (
	"fmt"
	"net/http"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := parseIdentity(r.Header.Get("Authorization"), app.config.JWT.Secret)
		if err != nil {
			app.logger.Debug("rejected bearer token", "error", err)
			app.unauthorizedAccessResponse(w, r)
			return
		}

		next.ServeHTTP(w, contextSetIdentity(r, identity))
	})
}

func (app *Application) requireAdmin(next http.Handler) http.Handler {
	return app.requireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.contextGetIdentity(r).Admin {
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	}))
}
