package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))

	r.Get("/healthcheck", app.GetHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/shows/{showId}/seats", app.GetSeatMapHandler)

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Post("/shows/{showId}/holds", app.CreateHoldHandler)
		r.Delete("/holds/{holdId}", app.DeleteHoldHandler)
		r.Post("/holds/{holdId}/confirm", app.ConfirmHoldHandler)

		r.Get("/bookings/{bookingId}", app.GetBookingHandler)
		r.Post("/bookings/{bookingId}/cancel", app.CancelBookingHandler)

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/hold", app.GetUserHoldHandler)
			r.Get("/bookings", app.GetUserBookingsHandler)
			r.Get("/account", app.GetAccountHandler)
			r.Post("/account", app.OpenAccountHandler)
		})
	})

	r.With(app.requireAdmin).Route("/admin", func(r chi.Router) {
		r.Post("/shows", app.CreateShowHandler)
		r.Get("/shows/{showId}/bookings", app.GetShowBookingsHandler)
		r.Delete("/bookings/{bookingId}", app.DeleteBookingHandler)
	})

	return r
}
