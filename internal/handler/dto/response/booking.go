package response

import (
	"github.com/jinzhu/copier"

	"hotel-broker/internal/domain/booking"
)

type BookingResponse struct {
	Status string         `json:"status"`
	Rooms  []RoomResponse `json:"rooms"`
}

type RoomResponse struct {
	Index          int           `json:"index"`
	ReservationID  string        `json:"reservation_id"`
	State          string        `json:"state"`
	OrderID        string        `json:"order_id,omitempty"`
	ItemID         string        `json:"item_id,omitempty"`
	PriceChanged   bool          `json:"price_changed"`
	QuotedPrice    *PricePayload `json:"quoted_price,omitempty"`
	LockedPrice    *PricePayload `json:"locked_price,omitempty"`
	FailureCode    string        `json:"failure_code,omitempty"`
	FailureMessage string        `json:"failure_message,omitempty"`
}

type PricePayload struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func FromOutcome(outcome *booking.Outcome) *BookingResponse {
	resp := &BookingResponse{
		Status: string(outcome.Status),
		Rooms:  make([]RoomResponse, len(outcome.Rooms)),
	}
	for i, room := range outcome.Rooms {
		resp.Rooms[i] = fromRoomResult(room)
	}
	return resp
}

func fromRoomResult(room booking.RoomResult) RoomResponse {
	var rr RoomResponse
	// Field-for-field copy of the scalar columns; typed fields below.
	_ = copier.Copy(&rr, &room)
	rr.State = string(room.State)
	rr.FailureCode = string(room.FailureCode)
	rr.QuotedPrice = pricePayload(room.QuotedPrice)
	rr.LockedPrice = pricePayload(room.LockedPrice)
	return rr
}

func pricePayload(p booking.Price) *PricePayload {
	if p.IsZero() {
		return nil
	}
	return &PricePayload{Amount: p.Amount, Currency: p.Currency}
}
