package commands

import (
	"context"
	"errors"
	"log/slog"

	"hotel-broker/internal/domain/booking"
	"hotel-broker/internal/infra"
	"hotel-broker/internal/pkg/clock"
	"hotel-broker/internal/pkg/config"
)

// roomMachine drives a single room through
// created -> locked -> form_ready -> submitted -> processing -> terminal.
// It never lets an error escape its boundary: every failure ends up as a
// classified Failure on the RoomReservation it owns.
type roomMachine struct {
	steps  ReservationSteps
	clk    clock.Clock
	cfg    config.BookingConfig
	logger *slog.Logger

	req     booking.RoomRequest
	roomKey booking.IdempotencyKey
	payment booking.PaymentType
	contact booking.ContactInfo

	res *booking.RoomReservation
}

func newRoomMachine(
	steps ReservationSteps,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
	intent *booking.Intent,
	req booking.RoomRequest,
	index int,
) *roomMachine {
	return &roomMachine{
		steps:   steps,
		clk:     clk,
		cfg:     cfg,
		logger:  logger,
		req:     req,
		roomKey: intent.PartnerKey().ForRoom(index),
		payment: intent.Payment(),
		contact: intent.Contact(),
		res:     booking.NewRoomReservation(index),
	}
}

func (m *roomMachine) reservation() *booking.RoomReservation {
	return m.res
}

// prepare runs lock + price check + field collection. Rooms prepare
// independently; the orchestrator gates the commit phase on every room
// having finished preparing.
func (m *roomMachine) prepare(ctx context.Context) {
	if !m.lock(ctx) {
		return
	}
	if !m.checkPriceDrift() {
		return
	}
	m.collectFields(ctx)
}

// commit submits the prepared room and polls until the upstream reports
// a terminal status or the poll timeout elapses.
func (m *roomMachine) commit(ctx context.Context) {
	if m.res.State() != booking.StateFormReady {
		return
	}
	if !m.submit(ctx) {
		return
	}
	m.pollUntilTerminal(ctx)
}

func (m *roomMachine) lock(ctx context.Context) bool {
	result, err := m.steps.LockRate(ctx, m.req.RateRef(), m.req.Guests(), m.req.Residency(), m.req.Tolerance())
	if err != nil {
		if errors.Is(err, infra.ErrNoAvailableRates) {
			m.fail(booking.CodeNoAvailableRates, "rate no longer available within tolerance", err)
			return false
		}
		m.failClassified(err, "rate lock failed")
		return false
	}

	quoted, locked := m.selectPrices(result)
	m.res.RecordLock(result.Token, quoted, locked)
	if result.PriceChanged {
		m.res.FlagPriceChanged()
	}
	if err := m.res.Advance(booking.StateLocked); err != nil {
		m.fail(booking.CodeUnknown, "room pipeline corrupted", err)
		return false
	}
	return true
}

// checkPriceDrift compares the locked price against the quote. Drift
// beyond tolerance halts the pipeline only when the tolerance is
// explicitly zero; otherwise the room is flagged and advances, leaving
// the decision to the caller.
func (m *roomMachine) checkPriceDrift() bool {
	quoted, locked := m.res.QuotedPrice(), m.res.LockedPrice()
	increase := booking.IncreasePercent(quoted, locked)
	if increase == 0 {
		return true
	}

	if m.req.Tolerance().IsZero() {
		m.res.FlagPriceChanged()
		m.fail(booking.CodePriceChanged, "locked price exceeds quote and no increase is accepted", nil)
		return false
	}
	if !m.req.Tolerance().Allows(quoted, locked) {
		m.res.FlagPriceChanged()
		m.logger.Warn("price drift beyond tolerance, advancing flagged",
			"room", m.res.Index(),
			"increase_percent", increase,
			"tolerance_percent", m.req.Tolerance().Percent(),
		)
	}
	return true
}

func (m *roomMachine) collectFields(ctx context.Context) {
	result, err := m.steps.CollectRequiredFields(ctx, m.res.Token(), m.roomKey)
	if err != nil {
		m.failClassified(err, "booking form fetch failed")
		return
	}
	if err := m.res.AssignOrder(result.OrderID, result.ItemID); err != nil {
		m.fail(booking.CodeUnknown, "room pipeline corrupted", err)
		return
	}
	if err := m.res.Advance(booking.StateFormReady); err != nil {
		m.fail(booking.CodeUnknown, "room pipeline corrupted", err)
	}
}

func (m *roomMachine) submit(ctx context.Context) bool {
	err := m.steps.Submit(ctx, SubmitParams{
		OrderID:    m.res.OrderID(),
		ItemID:     m.res.ItemID(),
		Guests:     m.req.Guests(),
		Payment:    m.payment,
		PartnerKey: m.roomKey,
		Contact:    m.contact,
	})
	if err != nil {
		m.failClassified(err, "booking submission failed")
		return false
	}
	if err := m.res.Advance(booking.StateSubmitted); err != nil {
		m.fail(booking.CodeUnknown, "room pipeline corrupted", err)
		return false
	}
	if err := m.res.Advance(booking.StateProcessing); err != nil {
		m.fail(booking.CodeUnknown, "room pipeline corrupted", err)
		return false
	}
	return true
}

// pollUntilTerminal polls the order status on a fixed interval. When the
// poll window closes the room stays in processing — unconfirmed, caller
// keeps polling — and is never silently marked failed.
func (m *roomMachine) pollUntilTerminal(ctx context.Context) {
	deadline := m.clk.Now().Add(m.cfg.PollTimeout)

	for {
		status, err := m.steps.PollStatus(ctx, m.res.OrderID())
		if err != nil {
			if infra.Classify(err).Retryable {
				// Transient read failure after exhausted retries: the
				// booking may still be progressing upstream. Keep the
				// room unconfirmed rather than fabricating a failure.
				m.logger.Warn("status poll unavailable, leaving room unconfirmed",
					"room", m.res.Index(), "order_id", m.res.OrderID())
				return
			}
			m.failClassified(err, "status poll failed")
			return
		}

		switch status {
		case OrderConfirmed:
			if err := m.res.Advance(booking.StateConfirmed); err != nil {
				m.fail(booking.CodeUnknown, "room pipeline corrupted", err)
			}
			return
		case OrderFailed:
			m.fail(booking.CodeBookingFailed, "upstream reported booking failure", nil)
			return
		}

		if !m.clk.Now().Add(m.cfg.PollInterval).Before(deadline) {
			m.logger.Warn("poll window elapsed, leaving room unconfirmed",
				"room", m.res.Index(), "order_id", m.res.OrderID())
			return
		}
		if err := m.clk.Sleep(ctx, m.cfg.PollInterval); err != nil {
			// Caller gave up waiting; the room stays unconfirmed.
			return
		}
	}
}

// selectPrices picks the quoted/locked pair used for drift detection:
// the first payment option by default, or the option with the largest
// increase when configured to compare them all.
func (m *roomMachine) selectPrices(result *LockResult) (quoted, locked booking.Price) {
	if len(result.Options) == 0 {
		return booking.Price{}, booking.Price{}
	}
	pick := result.Options[0]
	if m.cfg.CompareAllPaymentOptions {
		worst := booking.IncreasePercent(pick.Quoted, pick.Locked)
		for _, opt := range result.Options[1:] {
			if inc := booking.IncreasePercent(opt.Quoted, opt.Locked); inc > worst {
				worst = inc
				pick = opt
			}
		}
	}
	return pick.Quoted, pick.Locked
}

func (m *roomMachine) fail(code booking.FailureCode, msg string, err error) {
	m.res.Fail(code, msg, err)
	m.logger.Warn("room pipeline failed",
		"room", m.res.Index(), "code", string(code), "error", err)
}

// failClassified maps a classified upstream failure onto the room's
// terminal failure code.
func (m *roomMachine) failClassified(err error, msg string) {
	classified := infra.Classify(err)
	m.fail(categoryCode(classified.Category), msg, err)
}

func categoryCode(cat infra.Category) booking.FailureCode {
	switch cat {
	case infra.CategoryValidation:
		return booking.CodeValidation
	case infra.CategoryRateLimited:
		return booking.CodeRateLimited
	case infra.CategoryUnavailable:
		return booking.CodeUpstreamUnavailable
	case infra.CategoryNotFound:
		return booking.CodeNotFound
	case infra.CategoryAuth:
		return booking.CodeAuth
	default:
		return booking.CodeUnknown
	}
}
