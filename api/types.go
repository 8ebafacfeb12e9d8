// Package api holds the JSON contracts of the booking HTTP API.
package api

import (
	"time"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Storage     string `json:"storage"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type PaginationParams struct {
	Page     *int `validate:"omitempty,min=1"`
	PageSize *int `validate:"omitempty,min=1,max=100"`
}

type CreateHoldRequest struct {
	SeatIds []string `json:"seatIds" validate:"required,min=1,max=10,dive,seat_id"`
}

type HoldResponse struct {
	Id        string    `json:"id"`
	ShowId    int       `json:"showId"`
	SeatIds   []string  `json:"seatIds"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type BookingResponse struct {
	Id          string    `json:"id"`
	ShowId      int       `json:"showId"`
	SeatIds     []string  `json:"seatIds"`
	TotalAmount string    `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CancelBookingResponse struct {
	BookingId    string `json:"bookingId"`
	RefundAmount string `json:"refundAmount"`
}

type BookingSummary struct {
	Id          string    `json:"id"`
	MovieTitle  string    `json:"movieTitle"`
	ShowTime    time.Time `json:"showTime"`
	Seats       string    `json:"seats"`
	TotalAmount string    `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

type ShowBookingsResponse struct {
	ShowId   int               `json:"showId"`
	Bookings []BookingResponse `json:"bookings"`
}

type Seat struct {
	Id    string `json:"id"`
	Row   string `json:"row"`
	Col   int    `json:"col"`
	Type  string `json:"type"`
	Price string `json:"price"`
	State string `json:"state"`
}

type SeatMapResponse struct {
	ShowId     int       `json:"showId"`
	MovieTitle string    `json:"movieTitle"`
	StartTime  time.Time `json:"startTime"`
	BasePrice  string    `json:"basePrice"`
	Seats      []Seat    `json:"seats"`
}

type LayoutSlot struct {
	Id   string `json:"id" validate:"required,seat_id"`
	Type string `json:"type" validate:"required,seat_type"`
}

type LayoutRow struct {
	Seats []LayoutSlot `json:"seats" validate:"required,min=1,dive"`
}

type ScreenLayout struct {
	Rows []LayoutRow `json:"rows" validate:"required,min=1,dive"`
}

type CreateShowRequest struct {
	MovieTitle   string       `json:"movieTitle" validate:"required,max=200"`
	ScreenNumber int          `json:"screenNumber" validate:"min=1"`
	StartTime    time.Time    `json:"startTime" validate:"required"`
	BasePrice    string       `json:"basePrice" validate:"required,positive_amount"`
	Layout       ScreenLayout `json:"layout"`
}

type ShowResponse struct {
	Id           int       `json:"id"`
	MovieTitle   string    `json:"movieTitle"`
	ScreenNumber int       `json:"screenNumber"`
	StartTime    time.Time `json:"startTime"`
	BasePrice    string    `json:"basePrice"`
	SeatCount    int       `json:"seatCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type OpenAccountRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type AccountResponse struct {
	UserId  int    `json:"userId"`
	Email   string `json:"email"`
	Balance string `json:"balance"`
}
