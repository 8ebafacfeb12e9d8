package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/movie-booking-engine/api"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/metinatakli/movie-booking-engine/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testBookingID = "0c5e7f0e-54a1-4f4f-8a57-5d8f7f1f9c11"

type BookingsTestSuite struct {
	suite.Suite
	app    *Application
	ledger *mocks.MockLedger
}

func (s *BookingsTestSuite) SetupTest() {
	s.ledger = new(mocks.MockLedger)

	s.app = newTestApplication(func(a *Application) {
		a.ledger = s.ledger
	})
}

func TestBookingsSuite(t *testing.T) {
	suite.Run(t, new(BookingsTestSuite))
}

func (s *BookingsTestSuite) TestCancelBookingHandler() {
	tests := []struct {
		name           string
		bookingID      string
		setupMocks     func()
		wantStatus     int
		wantResponse   *api.CancelBookingResponse
		wantErrMessage string
	}{
		{
			name:           "should fail when booking id is not a UUID",
			bookingID:      "abc",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "bookingId must be a valid UUID",
		},
		{
			name:      "should fail when show starts within the cutoff",
			bookingID: testBookingID,
			setupMocks: func() {
				s.ledger.On("CancelBooking", mock.Anything, testBookingID, 1).Return(decimal.Zero, domain.ErrTooLateToCancel)
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: ErrCancellationClosed,
		},
		{
			name:      "should fail when booking belongs to another user",
			bookingID: testBookingID,
			setupMocks: func() {
				s.ledger.On("CancelBooking", mock.Anything, testBookingID, 1).Return(decimal.Zero, domain.ErrUnauthorized)
			},
			wantStatus:     http.StatusForbidden,
			wantErrMessage: ErrForbidden,
		},
		{
			name:      "should cancel and report the refund",
			bookingID: testBookingID,
			setupMocks: func() {
				s.ledger.On("CancelBooking", mock.Anything, testBookingID, 1).Return(decimal.NewFromInt(4), nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.CancelBookingResponse{
				BookingId:    testBookingID,
				RefundAmount: "4.00",
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.ledger.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w := serveAs(s.T(), s.app, 1, false, http.MethodPost, "/bookings/"+tt.bookingID+"/cancel", nil)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.CancelBookingResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *BookingsTestSuite) TestGetUserBookingsHandler() {
	showTime := time.Date(2026, 4, 10, 20, 30, 0, 0, time.UTC)
	createdAt := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		setupMocks     func()
		wantStatus     int
		wantResponse   *api.UserBookingsResponse
		wantErrMessage string
	}{
		{
			name:           "should fail when page is not a number",
			query:          "?page=first",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "page must be an integer",
		},
		{
			name:           "should fail when page size exceeds the limit",
			query:          "?pageSize=500",
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be at most 100",
		},
		{
			name:           "should fail when page is zero",
			query:          "?page=0",
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be at least 1",
		},
		{
			name:  "should fail when storage fails",
			query: "",
			setupMocks: func() {
				s.ledger.On("ListUserBookings", mock.Anything, 1, domain.Pagination{Page: 1, PageSize: 10}).
					Return(nil, nil, errors.New("connection refused"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name:  "should return empty list with default pagination",
			query: "",
			setupMocks: func() {
				s.ledger.On("ListUserBookings", mock.Anything, 1, domain.Pagination{Page: 1, PageSize: 10}).
					Return([]domain.BookingSummary{}, &domain.Metadata{}, nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.UserBookingsResponse{
				Bookings: []api.BookingSummary{},
				Metadata: api.Metadata{},
			},
		},
		{
			name:  "should return requested page",
			query: "?page=2&pageSize=1",
			setupMocks: func() {
				s.ledger.On("ListUserBookings", mock.Anything, 1, domain.Pagination{Page: 2, PageSize: 1}).
					Return([]domain.BookingSummary{
						{
							BookingID:   testBookingID,
							UserID:      1,
							MovieTitle:  "Alien",
							ShowTime:    showTime,
							Seats:       "A1 A2",
							TotalAmount: decimal.RequireFromString("5"),
							CreatedAt:   createdAt,
						},
					}, domain.NewMetadata(2, 2, 1), nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.UserBookingsResponse{
				Bookings: []api.BookingSummary{
					{
						Id:          testBookingID,
						MovieTitle:  "Alien",
						ShowTime:    showTime,
						Seats:       "A1 A2",
						TotalAmount: "5.00",
						CreatedAt:   createdAt,
					},
				},
				Metadata: api.Metadata{
					CurrentPage:  2,
					FirstPage:    1,
					LastPage:     2,
					PageSize:     1,
					TotalRecords: 2,
				},
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.ledger.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w := serveAs(s.T(), s.app, 1, false, http.MethodGet, "/users/me/bookings"+tt.query, nil)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.UserBookingsResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *BookingsTestSuite) TestGetBookingHandler() {
	s.Run("should hide bookings of other users", func() {
		s.SetupTest()
		defer s.ledger.AssertExpectations(s.T())

		s.ledger.On("GetBookingDetails", mock.Anything, testBookingID, 5).Return(nil, domain.ErrUnauthorized)

		w := serveAs(s.T(), s.app, 5, false, http.MethodGet, "/bookings/"+testBookingID, nil)

		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("should return booking summary", func() {
		s.SetupTest()
		defer s.ledger.AssertExpectations(s.T())

		s.ledger.On("GetBookingDetails", mock.Anything, testBookingID, 5).Return(&domain.BookingSummary{
			BookingID:   testBookingID,
			UserID:      5,
			MovieTitle:  "Heat",
			Seats:       "B1",
			TotalAmount: decimal.RequireFromString("12.5"),
		}, nil)

		w := serveAs(s.T(), s.app, 5, false, http.MethodGet, "/bookings/"+testBookingID, nil)

		s.Equal(http.StatusOK, w.Code)

		var response api.BookingSummary
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&response))
		s.Equal("12.50", response.TotalAmount)
		s.Equal("B1", response.Seats)
	})
}

func (s *BookingsTestSuite) TestAdminBookingRoutes() {
	s.Run("should reject non admin users", func() {
		s.SetupTest()

		w := serveAs(s.T(), s.app, 1, false, http.MethodGet, "/admin/shows/1/bookings", nil)

		s.Equal(http.StatusForbidden, w.Code)
		s.ledger.AssertNotCalled(s.T(), "ListShowBookings", mock.Anything, mock.Anything)
	})

	s.Run("should reject anonymous users", func() {
		s.SetupTest()

		w := serveAs(s.T(), s.app, 0, false, http.MethodDelete, "/admin/bookings/"+testBookingID, nil)

		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("should list bookings of a show", func() {
		s.SetupTest()
		defer s.ledger.AssertExpectations(s.T())

		s.ledger.On("ListShowBookings", mock.Anything, 1).Return([]domain.Booking{
			{ID: testBookingID, UserID: 2, ShowID: 1, SeatIDs: []string{"A1"}, TotalAmount: decimal.NewFromInt(2)},
		}, nil)

		w := serveAs(s.T(), s.app, 9, true, http.MethodGet, "/admin/shows/1/bookings", nil)

		s.Equal(http.StatusOK, w.Code)

		var response api.ShowBookingsResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&response))
		s.Equal(1, response.ShowId)
		s.Require().Len(response.Bookings, 1)
		s.Equal("2.00", response.Bookings[0].TotalAmount)
	})

	s.Run("should return not found for unknown show", func() {
		s.SetupTest()
		defer s.ledger.AssertExpectations(s.T())

		s.ledger.On("ListShowBookings", mock.Anything, 3).Return(nil, domain.ErrShowNotFound)

		w := serveAs(s.T(), s.app, 9, true, http.MethodGet, "/admin/shows/3/bookings", nil)

		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("should delete booking", func() {
		s.SetupTest()
		defer s.ledger.AssertExpectations(s.T())

		s.ledger.On("DeleteBooking", mock.Anything, testBookingID).Return(nil)

		w := serveAs(s.T(), s.app, 9, true, http.MethodDelete, "/admin/bookings/"+testBookingID, nil)

		s.Equal(http.StatusNoContent, w.Code)
	})
}
