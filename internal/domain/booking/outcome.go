package booking

// RoomResult is an immutable snapshot of one room's terminal (or last
// known) state, safe to hand to callers.
type RoomResult struct {
	Index          int
	ReservationID  string
	State          RoomState
	OrderID        string
	ItemID         string
	QuotedPrice    Price
	LockedPrice    Price
	PriceChanged   bool
	FailureCode    FailureCode
	FailureMessage string
}

// Outcome is the aggregate result of one intent. Computed once, never
// mutated, returned to the caller.
type Outcome struct {
	Status OutcomeStatus
	Rooms  []RoomResult
}

// Snapshot freezes the reservation into a RoomResult.
func (r *RoomReservation) Snapshot() RoomResult {
	res := RoomResult{
		Index:         r.index,
		ReservationID: r.id.String(),
		State:         r.state,
		OrderID:       r.orderID,
		ItemID:        r.itemID,
		QuotedPrice:   r.quotedPrice,
		LockedPrice:   r.lockedPrice,
		PriceChanged:  r.priceChanged,
	}
	if r.failure != nil {
		res.FailureCode = r.failure.Code
		res.FailureMessage = r.failure.Message
	}
	return res
}

// ComputeOutcome derives the overall status: all rooms confirmed is
// success, at least one confirmed is partial, none confirmed is failed.
// Rooms still processing (unconfirmed, keep polling) never count as
// confirmed.
func ComputeOutcome(rooms []*RoomReservation) *Outcome {
	out := &Outcome{Rooms: make([]RoomResult, len(rooms))}
	confirmed := 0
	for i, r := range rooms {
		out.Rooms[i] = r.Snapshot()
		if r.IsConfirmed() {
			confirmed++
		}
	}
	switch {
	case confirmed == len(rooms):
		out.Status = OutcomeSuccess
	case confirmed > 0:
		out.Status = OutcomePartial
	default:
		out.Status = OutcomeFailed
	}
	return out
}
