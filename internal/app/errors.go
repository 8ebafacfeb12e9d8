package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-booking-engine/api"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	appvalidator "github.com/metinatakli/movie-booking-engine/internal/validator"
)

const (
	ErrInternalServer      = "The server encountered a problem and could not process your request"
	ErrNotFound            = "The requested resource not found"
	ErrUnauthorizedAccess  = "You must be authenticated to access this resource"
	ErrForbidden           = "You are not allowed to access this resource"
	ErrValidation          = "One or more fields have invalid values"
	ErrSeatsUnavailable    = "One or more of the selected seats are not available"
	ErrHoldAlreadyExists   = "You already have a pending hold; confirm or release it first"
	ErrBalanceInsufficient = "Your balance is not sufficient for this booking"
	ErrCancellationClosed  = "Bookings can no longer be cancelled this close to the show"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri, "request_id", middleware.GetReqID(r.Context()))
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorizedAccess)
}

func (app *Application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, ErrForbidden)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, len(validationErrs)),
	}

	for i, fieldErr := range validationErrs {
		resp.ValidationErrors[i] = api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		}
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// bookingErrorResponse maps booking engine errors onto HTTP statuses.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrShowNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrUnauthorized):
		app.forbiddenResponse(w, r)
	case errors.Is(err, domain.ErrSeatUnavailable), errors.Is(err, domain.ErrSeatConflict):
		app.errorResponse(w, r, http.StatusConflict, ErrSeatsUnavailable)
	case errors.Is(err, domain.ErrAlreadyHasHold):
		app.errorResponse(w, r, http.StatusConflict, ErrHoldAlreadyExists)
	case errors.Is(err, domain.ErrInsufficientBalance):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, ErrBalanceInsufficient)
	case errors.Is(err, domain.ErrTooLateToCancel):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, ErrCancellationClosed)
	case errors.Is(err, domain.ErrInvalidSeatSelection), errors.Is(err, domain.ErrInvalidLayout),
		errors.Is(err, domain.ErrInvalidPrice):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		app.serverErrorResponse(w, r, err)
	}
}
