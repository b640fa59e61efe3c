//go:build unit || e2e

package builder

import (
	"hotel-broker/internal/domain/booking"
	reqdto "hotel-broker/internal/handler/dto/request"
)

type RoomSpec struct {
	RateRef   string
	Adults    int
	ChildAges []int
	Residency string
	Tolerance float64
}

type IntentBuilder struct {
	PartnerKey string
	Rooms      []RoomSpec
	Payment    string
	Email      string
	Phone      string
}

func NewIntentBuilder() *IntentBuilder {
	return &IntentBuilder{
		PartnerKey: "partner-order-001",
		Rooms: []RoomSpec{
			{RateRef: "h-abc123", Adults: 2, Residency: "gb", Tolerance: 5},
		},
		Payment: "deposit",
		Email:   "guest@example.com",
		Phone:   "+44 20 7946 0000",
	}
}

func (b *IntentBuilder) With(mutate func(*IntentBuilder)) *IntentBuilder {
	mutate(b)
	return b
}

func (b *IntentBuilder) WithRooms(rooms ...RoomSpec) *IntentBuilder {
	b.Rooms = rooms
	return b
}

func (b *IntentBuilder) WithRoomCount(n int) *IntentBuilder {
	rooms := make([]RoomSpec, n)
	for i := range rooms {
		rooms[i] = RoomSpec{RateRef: "h-abc123", Adults: 2, Residency: "gb", Tolerance: 5}
	}
	b.Rooms = rooms
	return b
}

// Build methods
func (b *IntentBuilder) BuildDomain() (*booking.Intent, error) {
	key, err := booking.NewIdempotencyKey(b.PartnerKey)
	if err != nil {
		return nil, err
	}
	payment, err := booking.NewPaymentType(b.Payment)
	if err != nil {
		return nil, err
	}
	contact, err := booking.NewContactInfo(b.Email, b.Phone)
	if err != nil {
		return nil, err
	}
	rooms := make([]booking.RoomRequest, 0, len(b.Rooms))
	for _, spec := range b.Rooms {
		room, err := buildRoom(spec)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return booking.NewIntent(key, rooms, payment, contact)
}

func (b *IntentBuilder) BuildRequest() reqdto.CreateBookingRequest {
	rooms := make([]reqdto.RoomPayload, 0, len(b.Rooms))
	for _, spec := range b.Rooms {
		rooms = append(rooms, reqdto.RoomPayload{
			BookHash: spec.RateRef,
			Guests: reqdto.GuestsPayload{
				Adults:       spec.Adults,
				ChildrenAges: spec.ChildAges,
			},
			Residency:            spec.Residency,
			PriceIncreasePercent: spec.Tolerance,
		})
	}
	return reqdto.CreateBookingRequest{
		PartnerOrderID: b.PartnerKey,
		PaymentType:    b.Payment,
		Contact: reqdto.ContactPayload{
			Email: b.Email,
			Phone: b.Phone,
		},
		Rooms: rooms,
	}
}

func buildRoom(spec RoomSpec) (booking.RoomRequest, error) {
	rateRef, err := booking.NewRateReference(spec.RateRef)
	if err != nil {
		return booking.RoomRequest{}, err
	}
	guests, err := booking.NewGuestComposition(spec.Adults, spec.ChildAges)
	if err != nil {
		return booking.RoomRequest{}, err
	}
	residency, err := booking.NewResidency(spec.Residency)
	if err != nil {
		return booking.RoomRequest{}, err
	}
	return booking.NewRoomRequest(rateRef, guests, residency, booking.NewTolerance(spec.Tolerance))
}
