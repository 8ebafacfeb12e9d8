package app

import (
	"net/http"

	"github.com/metinatakli/movie-booking-engine/api"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

// OpenAccountHandler opens the caller's account. The email in the body wins
// over the one carried by the token.
func (app *Application) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	var input api.OpenAccountRequest

	if r.ContentLength != 0 {
		err := app.readJSON(w, r, &input)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	err := app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	identity := app.contextGetIdentity(r)

	email := input.Email
	if email == "" {
		email = identity.Email
	}

	account, err := app.ledger.OpenAccount(r.Context(), identity.UserID, email)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiAccount(account), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	account, err := app.ledger.GetAccount(r.Context(), app.contextGetUserId(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiAccount(account), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiAccount(account *domain.Account) api.AccountResponse {
	return api.AccountResponse{
		UserId:  account.UserID,
		Email:   account.Email,
		Balance: account.Balance.StringFixed(2),
	}
}
