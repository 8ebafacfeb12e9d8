package app

import (
	"net/http"

	"github.com/metinatakli/movie-booking-engine/api"
	"github.com/metinatakli/movie-booking-engine/internal/booking"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/shopspring/decimal"
)

func (app *Application) CreateShowHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateShowRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	basePrice, err := decimal.NewFromString(input.BasePrice)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	layout := toDomainLayout(input.Layout)

	show, err := app.catalog.CreateShow(r.Context(), booking.CreateShowInput{
		MovieTitle:   input.MovieTitle,
		ScreenNumber: input.ScreenNumber,
		StartTime:    input.StartTime,
		BasePrice:    basePrice,
		Layout:       layout,
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.ShowResponse{
		Id:           show.ID,
		MovieTitle:   show.MovieTitle,
		ScreenNumber: show.ScreenNumber,
		StartTime:    show.StartTime,
		BasePrice:    show.BasePrice.String(),
		SeatCount:    layout.SeatCount(),
		CreatedAt:    show.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toDomainLayout(layout api.ScreenLayout) domain.ScreenLayout {
	rows := make([]domain.LayoutRow, len(layout.Rows))

	for i, row := range layout.Rows {
		rows[i].Seats = make([]domain.LayoutSlot, len(row.Seats))

		for j, slot := range row.Seats {
			rows[i].Seats[j] = domain.LayoutSlot{
				ID:   slot.Id,
				Type: domain.SeatCategory(slot.Type),
			}
		}
	}

	return domain.ScreenLayout{Rows: rows}
}
