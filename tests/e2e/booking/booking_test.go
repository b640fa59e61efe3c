//go:build e2e

package booking_test

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	resdto "hotel-broker/internal/handler/dto/response"
	"hotel-broker/tests/common/builder"
	"hotel-broker/tests/common/httptest"
	"hotel-broker/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/suite"
)

const bookingsURL = "/api/bookings"

type bookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(bookingSuite))
}

func (s *bookingSuite) scriptHappyUpstream(orderID string) {
	s.Upstream.On("/hotel/prebook", func(w http.ResponseWriter, r *http.Request) {
		e2e.WriteData(w, map[string]any{
			"hash":          "p-" + orderID,
			"price_changed": false,
			"payment_options": []map[string]any{{
				"original": map[string]any{"amount": 100.0, "currency": "EUR"},
				"current":  map[string]any{"amount": 100.0, "currency": "EUR"},
			}},
		})
	})
	s.Upstream.On("/hotel/order/booking/form", func(w http.ResponseWriter, r *http.Request) {
		e2e.WriteData(w, map[string]any{"order_id": orderID, "item_id": "item-" + orderID})
	})
	s.Upstream.On("/hotel/order/booking/finish", func(w http.ResponseWriter, r *http.Request) {
		e2e.WriteData(w, map[string]any{})
	})
	s.Upstream.On("/hotel/order/booking/finish/status", func(w http.ResponseWriter, r *http.Request) {
		e2e.WriteData(w, map[string]any{"status": "confirmed"})
	})
}

func (s *bookingSuite) TestCreateBooking() {
	s.Run("single room books end to end", func() {
		s.scriptHappyUpstream("ord-e2e-1")

		reqBody := builder.NewIntentBuilder().BuildRequest()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, reqBody, nil)

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal("success", resp.Status)
		s.Require().Len(resp.Rooms, 1)

		expected := resdto.RoomResponse{
			State:       "confirmed",
			OrderID:     "ord-e2e-1",
			ItemID:      "item-ord-e2e-1",
			QuotedPrice: &resdto.PricePayload{Amount: 100, Currency: "EUR"},
			LockedPrice: &resdto.PricePayload{Amount: 100, Currency: "EUR"},
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(resdto.RoomResponse{}, "ReservationID"),
		}
		if diff := cmp.Diff(expected, resp.Rooms[0], opts...); diff != "" {
			s.T().Errorf("Room response mismatch (-want +got):\n%s", diff)
		}
		s.Equal(1, s.Upstream.Calls("/hotel/prebook"))
		s.Equal(1, s.Upstream.Calls("/hotel/order/booking/finish"))
	})

	s.Run("status stays processing until upstream confirms", func() {
		s.scriptHappyUpstream("ord-e2e-2")
		var polls atomic.Int32
		s.Upstream.On("/hotel/order/booking/finish/status", func(w http.ResponseWriter, r *http.Request) {
			if polls.Add(1) < 3 {
				e2e.WriteData(w, map[string]any{"status": "processing"})
				return
			}
			e2e.WriteData(w, map[string]any{"status": "confirmed"})
		})

		reqBody := builder.NewIntentBuilder().BuildRequest()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, reqBody, nil)

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal("success", resp.Status)
		s.GreaterOrEqual(s.Upstream.Calls("/hotel/order/booking/finish/status"), 3)
	})

	s.Run("sold-out rate yields failed outcome with 200", func() {
		s.Upstream.On("/hotel/prebook", func(w http.ResponseWriter, r *http.Request) {
			e2e.WriteError(w, http.StatusOK, "no_available_rates")
		})

		reqBody := builder.NewIntentBuilder().BuildRequest()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, reqBody, nil)

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("failed", resp.Status)
		s.Equal("no_available_rates", resp.Rooms[0].FailureCode)
		s.Equal(0, s.Upstream.Calls("/hotel/order/booking/finish"))
	})

	s.Run("two rooms succeed and fail independently", func() {
		s.scriptHappyUpstream("ord-e2e-3")
		s.Upstream.On("/hotel/prebook", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Hash string `json:"hash"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Hash == "h-sold-out" {
				e2e.WriteError(w, http.StatusOK, "no_available_rates")
				return
			}
			e2e.WriteData(w, map[string]any{
				"hash":          "p-ord-e2e-3",
				"price_changed": false,
				"payment_options": []map[string]any{{
					"original": map[string]any{"amount": 100.0, "currency": "EUR"},
					"current":  map[string]any{"amount": 100.0, "currency": "EUR"},
				}},
			})
		})

		reqBody := builder.NewIntentBuilder().WithRooms(
			builder.RoomSpec{RateRef: "h-available", Adults: 2, Residency: "gb", Tolerance: 5},
			builder.RoomSpec{RateRef: "h-sold-out", Adults: 2, Residency: "gb", Tolerance: 5},
		).BuildRequest()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, reqBody, nil)

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("partial", resp.Status)
		s.Require().Len(resp.Rooms, 2)
		s.Equal("confirmed", resp.Rooms[0].State)
		s.Equal("failed", resp.Rooms[1].State)
	})

	s.Run("malformed body is rejected before any upstream call", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL,
			map[string]any{"payment_type": "deposit"}, nil)

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
		s.Equal(0, s.Upstream.Calls("/hotel/prebook"))
	})
}
