package commands

import (
	"context"
	"encoding/json"

	"hotel-broker/internal/domain/booking"
)

// Snapshots crossing the upstream boundary; keeps the pipeline free of
// wire-format types.

type LockResult struct {
	Token        booking.RateLockToken
	PriceChanged bool
	Options      []booking.PriceOption
}

type FormResult struct {
	OrderID string
	ItemID  string
	// Schema is the upstream's required-field schema, passed through to
	// the caller untouched.
	Schema json.RawMessage
}

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderFailed     OrderStatus = "failed"
)

type SubmitParams struct {
	OrderID    string
	ItemID     string
	Guests     booking.GuestComposition
	Payment    booking.PaymentType
	PartnerKey booking.IdempotencyKey
	Contact    booking.ContactInfo
}

// ReservationSteps are the four dependent upstream calls of the
// reservation pipeline. Implementations own per-step timeouts and retry
// budgets; callers see classified failures only.
type ReservationSteps interface {
	LockRate(ctx context.Context, ref booking.RateReference, guests booking.GuestComposition, residency booking.Residency, tolerance booking.Tolerance) (*LockResult, error)
	CollectRequiredFields(ctx context.Context, token booking.RateLockToken, partnerKey booking.IdempotencyKey) (*FormResult, error)
	Submit(ctx context.Context, params SubmitParams) error
	PollStatus(ctx context.Context, orderID string) (OrderStatus, error)
}
