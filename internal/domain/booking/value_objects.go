package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingRateRef    = errors.New("missing rate reference")
	ErrUnknownRatePrefix = errors.New("unrecognized rate reference prefix")
	ErrInvalidAdults     = errors.New("adults count must be between 1 and 6")
	ErrInvalidChildAge   = errors.New("child age must be between 0 and 17")
	ErrInvalidResidency  = errors.New("residency must be a two-letter code")
	ErrMissingPartnerKey = errors.New("partner idempotency key required")
	ErrInvalidPayment    = errors.New("unsupported payment type")
	ErrInvalidContact    = errors.New("invalid contact info")
)

// RateOrigin tells where a rate reference came from.
type RateOrigin string

const (
	OriginMatch   RateOrigin = "match"    // raw search match, "h-" prefix
	OriginPrelock RateOrigin = "pre_lock" // already pre-locked, "p-" prefix
	OriginLocked  RateOrigin = "locked"   // fully locked, "b-" prefix
)

var originByPrefix = map[string]RateOrigin{
	"h-": OriginMatch,
	"p-": OriginPrelock,
	"b-": OriginLocked,
}

// RateReference is the opaque tagged identifier for a room/price
// combination from a prior search. The prefix must be recognized before
// any network call is made with it.
type RateReference struct {
	value  string
	origin RateOrigin
}

func NewRateReference(raw string) (RateReference, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return RateReference{}, ErrMissingRateRef
	}
	if len(v) < 3 {
		return RateReference{}, ErrUnknownRatePrefix
	}
	origin, ok := originByPrefix[v[:2]]
	if !ok {
		return RateReference{}, fmt.Errorf("%w: %q", ErrUnknownRatePrefix, v[:2])
	}
	return RateReference{value: v, origin: origin}, nil
}

func (r RateReference) String() string     { return r.value }
func (r RateReference) Origin() RateOrigin { return r.origin }
func (r RateReference) IsZero() bool       { return r.value == "" }

// RateLockToken is the short-lived token returned by a successful lock.
type RateLockToken string

func (t RateLockToken) String() string { return string(t) }
func (t RateLockToken) IsZero() bool   { return t == "" }

// Tolerance is the accepted price increase between quote and lock, in
// percent. Always clamped to [0,100]; zero means no increase accepted.
type Tolerance struct {
	percent float64
}

func NewTolerance(percent float64) Tolerance {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Tolerance{percent: percent}
}

func (t Tolerance) Percent() float64 { return t.percent }
func (t Tolerance) IsZero() bool     { return t.percent == 0 }

// Allows reports whether moving from quoted to locked stays within the
// tolerated increase. Price drops are always allowed.
func (t Tolerance) Allows(quoted, locked Price) bool {
	return IncreasePercent(quoted, locked) <= t.percent
}

// Price is an upstream-quoted amount. Upstream owns the precision; this
// service only compares and passes through.
type Price struct {
	Amount   float64
	Currency string
}

func (p Price) IsZero() bool { return p.Amount == 0 && p.Currency == "" }

// IncreasePercent returns the percent increase from quoted to locked,
// or 0 when the price dropped or the quote is unusable.
func IncreasePercent(quoted, locked Price) float64 {
	if quoted.Amount <= 0 || locked.Amount <= quoted.Amount {
		return 0
	}
	return (locked.Amount - quoted.Amount) / quoted.Amount * 100
}

// PriceOption is one payment option's quoted-vs-locked pair as reported
// by the lock step.
type PriceOption struct {
	Quoted Price
	Locked Price
}

// GuestComposition is the occupancy for one room.
type GuestComposition struct {
	adults    int
	childAges []int
}

func NewGuestComposition(adults int, childAges []int) (GuestComposition, error) {
	if adults < 1 || adults > 6 {
		return GuestComposition{}, ErrInvalidAdults
	}
	for _, age := range childAges {
		if age < 0 || age > 17 {
			return GuestComposition{}, fmt.Errorf("%w: %d", ErrInvalidChildAge, age)
		}
	}
	ages := make([]int, len(childAges))
	copy(ages, childAges)
	return GuestComposition{adults: adults, childAges: ages}, nil
}

func (g GuestComposition) Adults() int { return g.adults }

func (g GuestComposition) ChildAges() []int {
	out := make([]int, len(g.childAges))
	copy(out, g.childAges)
	return out
}

// Residency is the guest residency country code.
type Residency struct {
	code string
}

func NewResidency(code string) (Residency, error) {
	c := strings.ToLower(strings.TrimSpace(code))
	if len(c) != 2 {
		return Residency{}, ErrInvalidResidency
	}
	for _, r := range c {
		if r < 'a' || r > 'z' {
			return Residency{}, ErrInvalidResidency
		}
	}
	return Residency{code: c}, nil
}

func (r Residency) String() string { return r.code }

// IdempotencyKey is the partner-supplied key that lets the upstream
// system collapse duplicate submissions.
type IdempotencyKey struct {
	value string
}

func NewIdempotencyKey(raw string) (IdempotencyKey, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return IdempotencyKey{}, ErrMissingPartnerKey
	}
	return IdempotencyKey{value: v}, nil
}

func (k IdempotencyKey) String() string { return k.value }
func (k IdempotencyKey) IsZero() bool   { return k.value == "" }

// ForRoom derives a per-room key so the upstream system never coalesces
// two rooms of the same intent into one order.
func (k IdempotencyKey) ForRoom(index int) IdempotencyKey {
	return IdempotencyKey{value: fmt.Sprintf("%s-r%d", k.value, index)}
}

// PaymentType selects how the booking is paid upstream.
type PaymentType string

const (
	PaymentDeposit PaymentType = "deposit"
	PaymentNow     PaymentType = "now"
	PaymentAtHotel PaymentType = "hotel"
)

func NewPaymentType(raw string) (PaymentType, error) {
	switch PaymentType(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentDeposit:
		return PaymentDeposit, nil
	case PaymentNow:
		return PaymentNow, nil
	case PaymentAtHotel:
		return PaymentAtHotel, nil
	}
	return "", ErrInvalidPayment
}

func (p PaymentType) String() string { return string(p) }

// ContactInfo is the booking-level contact passed to the upstream system.
type ContactInfo struct {
	email string
	phone string
}

func NewContactInfo(email, phone string) (ContactInfo, error) {
	e := strings.TrimSpace(email)
	if e == "" || !strings.Contains(e, "@") {
		return ContactInfo{}, ErrInvalidContact
	}
	return ContactInfo{email: e, phone: strings.TrimSpace(phone)}, nil
}

func (c ContactInfo) Email() string { return c.email }
func (c ContactInfo) Phone() string { return c.phone }
