package commands

import (
	"context"
	"log/slog"
	"sync"

	"hotel-broker/internal/domain/booking"
	"hotel-broker/internal/pkg/clock"
	"hotel-broker/internal/pkg/config"
	"hotel-broker/internal/pkg/errs"
)

var (
	ErrInvalidIntent = errs.New("invalid booking intent")
)

// BookingCommands is the orchestrator entry point consumed by the thin
// HTTP layer.
type BookingCommands interface {
	CreateBooking(ctx context.Context, intent *booking.Intent) (*booking.Outcome, error)
}

type bookingUseCaseImpl struct {
	steps  ReservationSteps
	clk    clock.Clock
	cfg    config.BookingConfig
	logger *slog.Logger
}

func NewBookingCommands(steps ReservationSteps, clk clock.Clock, cfg config.BookingConfig, logger *slog.Logger) BookingCommands {
	return &bookingUseCaseImpl{
		steps:  steps,
		clk:    clk,
		cfg:    cfg,
		logger: logger,
	}
}

// CreateBooking fans the intent out into one room pipeline per room.
// The prepare phase (lock + form) runs for every room before any room is
// submitted, so the caller gets a full price/availability picture before
// payment is committed for any of them. Failures are isolated per room.
func (b *bookingUseCaseImpl) CreateBooking(ctx context.Context, intent *booking.Intent) (*booking.Outcome, error) {
	if err := validateIntent(intent); err != nil {
		return nil, errs.Mark(err, ErrInvalidIntent)
	}

	rooms := intent.Rooms()
	machines := make([]*roomMachine, len(rooms))
	for i, req := range rooms {
		machines[i] = newRoomMachine(b.steps, b.clk, b.cfg, b.logger, intent, req, i)
	}

	b.runPhase(ctx, machines, (*roomMachine).prepare)
	b.runPhase(ctx, machines, (*roomMachine).commit)

	reservations := make([]*booking.RoomReservation, len(machines))
	for i, m := range machines {
		reservations[i] = m.reservation()
	}
	outcome := booking.ComputeOutcome(reservations)

	b.logger.Info("booking intent processed",
		"partner_order_id", intent.PartnerKey().String(),
		"rooms", len(rooms),
		"status", string(outcome.Status),
	)
	return outcome, nil
}

// runPhase runs one pipeline phase for every room concurrently and waits
// for all of them. No room's progress depends on another's within a
// phase.
func (b *bookingUseCaseImpl) runPhase(ctx context.Context, machines []*roomMachine, phase func(*roomMachine, context.Context)) {
	var wg sync.WaitGroup
	for _, m := range machines {
		wg.Add(1)
		go func(m *roomMachine) {
			defer wg.Done()
			phase(m, ctx)
		}(m)
	}
	wg.Wait()
}

// validateIntent re-checks the invariants the orchestrator relies on.
// The intent constructors enforce them too, but nothing upstream of this
// boundary is trusted to have used them.
func validateIntent(intent *booking.Intent) error {
	if intent == nil {
		return booking.ErrNoRooms
	}
	if intent.PartnerKey().IsZero() {
		return booking.ErrMissingPartnerKey
	}
	rooms := intent.Rooms()
	if len(rooms) < booking.MinRooms {
		return booking.ErrNoRooms
	}
	if len(rooms) > booking.MaxRooms {
		return booking.ErrTooManyRooms
	}
	for _, r := range rooms {
		if r.RateRef().IsZero() {
			return booking.ErrMissingRateRef
		}
	}
	return nil
}
