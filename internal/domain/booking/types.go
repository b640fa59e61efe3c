package booking

// RoomState is the position of one room inside the reservation pipeline.
// States only ever move forward; StateFailed is reachable from every
// non-terminal state.
type RoomState string

const (
	StateCreated    RoomState = "created"
	StateLocked     RoomState = "locked"
	StateFormReady  RoomState = "form_ready"
	StateSubmitted  RoomState = "submitted"
	StateProcessing RoomState = "processing"
	StateConfirmed  RoomState = "confirmed"
	StateFailed     RoomState = "failed"
)

var stateOrder = map[RoomState]int{
	StateCreated:    0,
	StateLocked:     1,
	StateFormReady:  2,
	StateSubmitted:  3,
	StateProcessing: 4,
	StateConfirmed:  5,
}

func (s RoomState) String() string {
	return string(s)
}

func (s RoomState) IsTerminal() bool {
	return s == StateConfirmed || s == StateFailed
}

// CanTransitionTo reports whether s -> next is a legal pipeline step.
func (s RoomState) CanTransitionTo(next RoomState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	cur, ok := stateOrder[s]
	if !ok {
		return false
	}
	nxt, ok := stateOrder[next]
	if !ok {
		return false
	}
	return nxt == cur+1
}

// OutcomeStatus is the aggregate result of a multi-room intent.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomePartial OutcomeStatus = "partial"
	OutcomeFailed  OutcomeStatus = "failed"
)

// FailureCode is the machine-readable reason attached to a failed room or
// surfaced to the HTTP layer. Values are either an upstream error category
// or a pipeline-specific code.
type FailureCode string

const (
	CodeValidation          FailureCode = "validation"
	CodeRateLimited         FailureCode = "rate_limited"
	CodeUpstreamUnavailable FailureCode = "upstream_unavailable"
	CodeNotFound            FailureCode = "not_found"
	CodeAuth                FailureCode = "auth"
	CodeUnknown             FailureCode = "unknown"

	// Pipeline-specific codes.
	CodeNoAvailableRates   FailureCode = "no_available_rates"
	CodePriceChanged       FailureCode = "price_changed"
	CodeMissingBookingHash FailureCode = "missing_booking_hash"
	CodeBookingFailed      FailureCode = "booking_failed"
)
