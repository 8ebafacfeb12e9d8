package app

import (
	"net/http"

	"github.com/metinatakli/movie-booking-engine/api"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

func (app *Application) CreateHoldHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateHoldRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	hold, err := app.holds.CreateHold(r.Context(), app.contextGetUserId(r), showID, input.SeatIds)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, app.toApiHold(hold), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserHoldHandler(w http.ResponseWriter, r *http.Request) {
	hold, err := app.holds.GetUserHold(r.Context(), app.contextGetUserId(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, app.toApiHold(hold), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteHoldHandler(w http.ResponseWriter, r *http.Request) {
	holdID, err := readUUIDParam(r, "holdId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.holds.DeleteHold(r.Context(), holdID, app.contextGetUserId(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) ConfirmHoldHandler(w http.ResponseWriter, r *http.Request) {
	holdID, err := readUUIDParam(r, "holdId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.ledger.ConfirmHold(r.Context(), holdID, app.contextGetUserId(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiBooking(*booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) toApiHold(hold *domain.Hold) api.HoldResponse {
	return api.HoldResponse{
		Id:        hold.ID,
		ShowId:    hold.ShowID,
		SeatIds:   hold.SeatIDs,
		CreatedAt: hold.CreatedAt,
		ExpiresAt: hold.ExpiresAt(app.holdTTL),
	}
}
