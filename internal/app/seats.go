package app

import (
	"net/http"

	"github.com/metinatakli/movie-booking-engine/api"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

func (app *Application) GetSeatMapHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.catalog.GetShow(r.Context(), showID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	seats, err := app.registry.ListSeats(r.Context(), showID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		ShowId:     show.ID,
		MovieTitle: show.MovieTitle,
		StartTime:  show.StartTime,
		BasePrice:  show.BasePrice.String(),
		Seats:      toApiSeats(seats),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	apiSeats := make([]api.Seat, len(seats))

	for i, seat := range seats {
		apiSeats[i] = api.Seat{
			Id:    seat.ID,
			Row:   seat.Row,
			Col:   seat.Col,
			Type:  string(seat.Category),
			Price: seat.Price.String(),
			State: string(seat.State),
		}
	}

	return apiSeats
}
