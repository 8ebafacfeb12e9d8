package app

import (
	"net/http"

	"github.com/metinatakli/movie-booking-engine/api"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readUUIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	summary, err := app.ledger.GetBookingDetails(r.Context(), bookingID, app.contextGetUserId(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiBookingSummary(*summary), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readUUIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	refund, err := app.ledger.CancelBooking(r.Context(), bookingID, app.contextGetUserId(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.CancelBookingResponse{
		BookingId:    bookingID,
		RefundAmount: refund.StringFixed(2),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	params, err := readPaginationParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	summaries, metadata, err := app.ledger.ListUserBookings(r.Context(), app.contextGetUserId(r), toPagination(params))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: make([]api.BookingSummary, len(summaries)),
		Metadata: *toApiMetadata(metadata),
	}

	for i, summary := range summaries {
		resp.Bookings[i] = toApiBookingSummary(summary)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowBookingsHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	bookings, err := app.ledger.ListShowBookings(r.Context(), showID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.ShowBookingsResponse{
		ShowId:   showID,
		Bookings: make([]api.BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		resp.Bookings[i] = toApiBooking(booking)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readUUIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.ledger.DeleteBooking(r.Context(), bookingID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toApiBooking(booking domain.Booking) api.BookingResponse {
	return api.BookingResponse{
		Id:          booking.ID,
		ShowId:      booking.ShowID,
		SeatIds:     booking.SeatIDs,
		TotalAmount: booking.TotalAmount.StringFixed(2),
		CreatedAt:   booking.CreatedAt,
	}
}

func toApiBookingSummary(summary domain.BookingSummary) api.BookingSummary {
	return api.BookingSummary{
		Id:          summary.BookingID,
		MovieTitle:  summary.MovieTitle,
		ShowTime:    summary.ShowTime,
		Seats:       summary.Seats,
		TotalAmount: summary.TotalAmount.StringFixed(2),
		CreatedAt:   summary.CreatedAt,
	}
}
