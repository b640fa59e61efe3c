package request

import (
	"strings"

	"hotel-broker/internal/domain/booking"
)

// CreateBookingRequest accepts the wire shapes the frontend has shipped
// over time: a rooms[] list, or the legacy single-room book_hash /
// booking_hash fields with room attributes at the top level. ToIntent
// collapses them into one normalized intent; nothing past this boundary
// branches on wire-format variations.
type CreateBookingRequest struct {
	PartnerOrderID string         `json:"partner_order_id,omitempty"`
	PaymentType    string         `json:"payment_type" binding:"required"`
	Contact        ContactPayload `json:"contact" binding:"required"`

	Rooms []RoomPayload `json:"rooms,omitempty" binding:"omitempty,dive"`

	// Legacy single-room shape.
	BookHash             *string        `json:"book_hash,omitempty"`
	BookingHash          *string        `json:"booking_hash,omitempty"`
	Guests               *GuestsPayload `json:"guests,omitempty"`
	Residency            *string        `json:"residency,omitempty"`
	PriceIncreasePercent *float64       `json:"price_increase_percent,omitempty"`
}

type RoomPayload struct {
	BookHash             string        `json:"book_hash" binding:"required"`
	Guests               GuestsPayload `json:"guests" binding:"required"`
	Residency            string        `json:"residency" binding:"required"`
	PriceIncreasePercent float64       `json:"price_increase_percent"`
}

type GuestsPayload struct {
	Adults       int   `json:"adults" binding:"required,min=1,max=6"`
	ChildrenAges []int `json:"children_ages"`
}

type ContactPayload struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone,omitempty"`
}

// ToIntent normalizes the request into a booking.Intent. headerKey is
// the Idempotency-Key header value, used when the body carries no
// partner_order_id.
func (r CreateBookingRequest) ToIntent(headerKey string) (*booking.Intent, error) {
	partnerKey, err := booking.NewIdempotencyKey(r.partnerOrderID(headerKey))
	if err != nil {
		return nil, err
	}

	payment, err := booking.NewPaymentType(r.PaymentType)
	if err != nil {
		return nil, err
	}

	contact, err := booking.NewContactInfo(r.Contact.Email, r.Contact.Phone)
	if err != nil {
		return nil, err
	}

	payloads := r.normalizedRooms()
	if len(payloads) == 0 {
		return nil, booking.ErrMissingRateRef
	}

	rooms := make([]booking.RoomRequest, 0, len(payloads))
	for _, p := range payloads {
		room, err := p.toRoomRequest()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return booking.NewIntent(partnerKey, rooms, payment, contact)
}

func (r CreateBookingRequest) partnerOrderID(headerKey string) string {
	if v := strings.TrimSpace(r.PartnerOrderID); v != "" {
		return v
	}
	return strings.TrimSpace(headerKey)
}

// normalizedRooms prefers the rooms[] shape; the legacy top-level fields
// become a single-room list.
func (r CreateBookingRequest) normalizedRooms() []RoomPayload {
	if len(r.Rooms) > 0 {
		return r.Rooms
	}

	hash := ""
	if r.BookHash != nil {
		hash = strings.TrimSpace(*r.BookHash)
	}
	if hash == "" && r.BookingHash != nil {
		hash = strings.TrimSpace(*r.BookingHash)
	}
	if hash == "" {
		return nil
	}

	single := RoomPayload{BookHash: hash}
	if r.Guests != nil {
		single.Guests = *r.Guests
	}
	if r.Residency != nil {
		single.Residency = *r.Residency
	}
	if r.PriceIncreasePercent != nil {
		single.PriceIncreasePercent = *r.PriceIncreasePercent
	}
	return []RoomPayload{single}
}

func (p RoomPayload) toRoomRequest() (booking.RoomRequest, error) {
	ref, err := booking.NewRateReference(p.BookHash)
	if err != nil {
		return booking.RoomRequest{}, err
	}
	guests, err := booking.NewGuestComposition(p.Guests.Adults, p.Guests.ChildrenAges)
	if err != nil {
		return booking.RoomRequest{}, err
	}
	residency, err := booking.NewResidency(p.Residency)
	if err != nil {
		return booking.RoomRequest{}, err
	}
	return booking.NewRoomRequest(ref, guests, residency, booking.NewTolerance(p.PriceIncreasePercent))
}
