package booking

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	MinRooms = 1
	MaxRooms = 6
)

var (
	ErrNoRooms           = errors.New("intent must contain at least one room")
	ErrTooManyRooms      = errors.New("intent must not exceed six rooms")
	ErrInvalidTransition = errors.New("invalid room state transition")
	ErrOrderReassigned   = errors.New("order identifiers are immutable once assigned")
)

// RoomRequest is one room's booking intent. Immutable once built.
type RoomRequest struct {
	rateRef   RateReference
	guests    GuestComposition
	residency Residency
	tolerance Tolerance
}

func NewRoomRequest(rateRef RateReference, guests GuestComposition, residency Residency, tolerance Tolerance) (RoomRequest, error) {
	if rateRef.IsZero() {
		return RoomRequest{}, ErrMissingRateRef
	}
	return RoomRequest{
		rateRef:   rateRef,
		guests:    guests,
		residency: residency,
		tolerance: tolerance,
	}, nil
}

func (r RoomRequest) RateRef() RateReference    { return r.rateRef }
func (r RoomRequest) Guests() GuestComposition  { return r.guests }
func (r RoomRequest) Residency() Residency      { return r.residency }
func (r RoomRequest) Tolerance() Tolerance      { return r.tolerance }

// Intent is the overall booking request. Never mutated after dispatch.
type Intent struct {
	partnerKey IdempotencyKey
	rooms      []RoomRequest
	payment    PaymentType
	contact    ContactInfo
}

func NewIntent(partnerKey IdempotencyKey, rooms []RoomRequest, payment PaymentType, contact ContactInfo) (*Intent, error) {
	if partnerKey.IsZero() {
		return nil, ErrMissingPartnerKey
	}
	if len(rooms) < MinRooms {
		return nil, ErrNoRooms
	}
	if len(rooms) > MaxRooms {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyRooms, len(rooms))
	}
	rs := make([]RoomRequest, len(rooms))
	copy(rs, rooms)
	return &Intent{
		partnerKey: partnerKey,
		rooms:      rs,
		payment:    payment,
		contact:    contact,
	}, nil
}

func (i *Intent) PartnerKey() IdempotencyKey { return i.partnerKey }
func (i *Intent) Payment() PaymentType       { return i.payment }
func (i *Intent) Contact() ContactInfo       { return i.contact }

func (i *Intent) Rooms() []RoomRequest {
	out := make([]RoomRequest, len(i.rooms))
	copy(out, i.rooms)
	return out
}

// Failure is the recorded reason a room reservation ended in StateFailed.
type Failure struct {
	Code    FailureCode
	Message string
	Err     error // original classified failure, kept for diagnostics
}

// RoomReservation is the mutable per-room record. It is owned exclusively
// by the pipeline driving it and never shared across rooms.
type RoomReservation struct {
	id           uuid.UUID
	index        int
	state        RoomState
	token        RateLockToken
	orderID      string
	itemID       string
	quotedPrice  Price
	lockedPrice  Price
	priceChanged bool
	failure      *Failure
}

func NewRoomReservation(index int) *RoomReservation {
	return &RoomReservation{
		id:    uuid.New(),
		index: index,
		state: StateCreated,
	}
}

func (r *RoomReservation) ID() uuid.UUID       { return r.id }
func (r *RoomReservation) Index() int          { return r.index }
func (r *RoomReservation) State() RoomState    { return r.state }
func (r *RoomReservation) Token() RateLockToken { return r.token }
func (r *RoomReservation) OrderID() string     { return r.orderID }
func (r *RoomReservation) ItemID() string      { return r.itemID }
func (r *RoomReservation) QuotedPrice() Price  { return r.quotedPrice }
func (r *RoomReservation) LockedPrice() Price  { return r.lockedPrice }
func (r *RoomReservation) PriceChanged() bool  { return r.priceChanged }
func (r *RoomReservation) Failure() *Failure   { return r.failure }
func (r *RoomReservation) IsConfirmed() bool   { return r.state == StateConfirmed }
func (r *RoomReservation) IsTerminal() bool    { return r.state.IsTerminal() }

// Advance moves the reservation one step forward in the pipeline.
func (r *RoomReservation) Advance(next RoomState) error {
	if !r.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, next)
	}
	r.state = next
	return nil
}

// Fail records the terminal failure. The first recorded failure wins; a
// reservation never transitions out of a terminal state.
func (r *RoomReservation) Fail(code FailureCode, message string, err error) {
	if r.state.IsTerminal() {
		return
	}
	r.state = StateFailed
	r.failure = &Failure{Code: code, Message: message, Err: err}
}

// RecordLock stores the lock token and the quoted/locked price pair
// observed at lock time.
func (r *RoomReservation) RecordLock(token RateLockToken, quoted, locked Price) {
	r.token = token
	r.quotedPrice = quoted
	r.lockedPrice = locked
}

// FlagPriceChanged marks a drift that was within tolerance; the caller
// decides whether to proceed with the new price.
func (r *RoomReservation) FlagPriceChanged() {
	r.priceChanged = true
}

// AssignOrder stores the upstream order/item identifiers. They are
// immutable for the lifetime of the reservation once set.
func (r *RoomReservation) AssignOrder(orderID, itemID string) error {
	if r.orderID != "" || r.itemID != "" {
		return ErrOrderReassigned
	}
	r.orderID = orderID
	r.itemID = itemID
	return nil
}
