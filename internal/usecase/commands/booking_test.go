//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"hotel-broker/internal/domain/booking"
	"hotel-broker/internal/infra"
	"hotel-broker/internal/pkg/clock"
	"hotel-broker/internal/pkg/config"
	"hotel-broker/internal/usecase/commands"
	"hotel-broker/tests/common/builder"
	commandsmock "hotel-broker/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bookingTestDeps struct {
	steps *commandsmock.MockReservationSteps
	clk   *clock.MockClock
	cfg   config.BookingConfig
}

func newBookingCommands(t *testing.T, mutate ...func(*bookingTestDeps)) (commands.BookingCommands, *bookingTestDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := &bookingTestDeps{
		steps: commandsmock.NewMockReservationSteps(ctrl),
		clk:   clock.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		cfg:   config.NewTestConfig().Booking,
	}
	for _, f := range mutate {
		f(deps)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return commands.NewBookingCommands(deps.steps, deps.clk, deps.cfg, logger), deps
}

func lockResult(token string, quoted, locked float64) *commands.LockResult {
	return &commands.LockResult{
		Token: booking.RateLockToken(token),
		Options: []booking.PriceOption{{
			Quoted: booking.Price{Amount: quoted, Currency: "EUR"},
			Locked: booking.Price{Amount: locked, Currency: "EUR"},
		}},
	}
}

func expectHappyRoom(t *testing.T, deps *bookingTestDeps, ref any, roomKey, orderID string) {
	t.Helper()
	deps.steps.EXPECT().
		LockRate(gomock.Any(), ref, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(lockResult("p-"+orderID, 100, 100), nil)
	deps.steps.EXPECT().
		CollectRequiredFields(gomock.Any(), booking.RateLockToken("p-"+orderID), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ booking.RateLockToken, key booking.IdempotencyKey) (*commands.FormResult, error) {
			assert.Equal(t, roomKey, key.String(), "room keys must stay distinct per room")
			return &commands.FormResult{OrderID: orderID, ItemID: "item-" + orderID}, nil
		})
	deps.steps.EXPECT().
		Submit(gomock.Any(), gomock.Cond(func(p commands.SubmitParams) bool { return p.OrderID == orderID })).
		DoAndReturn(func(_ context.Context, params commands.SubmitParams) error {
			assert.Equal(t, roomKey, params.PartnerKey.String())
			assert.Equal(t, "item-"+orderID, params.ItemID)
			return nil
		})
	deps.steps.EXPECT().
		PollStatus(gomock.Any(), orderID).
		Return(commands.OrderConfirmed, nil)
}

func TestCreateBooking_SingleRoomSuccess(t *testing.T) {
	uc, deps := newBookingCommands(t)
	expectHappyRoom(t, deps, gomock.Any(), "partner-order-001-r0", "ord-1")

	intent, err := builder.NewIntentBuilder().BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, booking.OutcomeSuccess, out.Status)
	require.Len(t, out.Rooms, 1)
	room := out.Rooms[0]
	assert.Equal(t, booking.StateConfirmed, room.State)
	assert.Equal(t, "ord-1", room.OrderID)
	assert.Equal(t, "item-ord-1", room.ItemID)
	assert.False(t, room.PriceChanged)
	assert.Empty(t, room.FailureCode)
}

func TestCreateBooking_MultiRoomPartial(t *testing.T) {
	uc, deps := newBookingCommands(t)

	roomA, err := booking.NewRateReference("h-room-a")
	require.NoError(t, err)
	roomB, err := booking.NewRateReference("h-room-b")
	require.NoError(t, err)

	expectHappyRoom(t, deps, roomA, "partner-order-001-r0", "ord-a")
	deps.steps.EXPECT().
		LockRate(gomock.Any(), roomB, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, infra.ErrNoAvailableRates)

	intent, err := builder.NewIntentBuilder().WithRooms(
		builder.RoomSpec{RateRef: "h-room-a", Adults: 2, Residency: "gb", Tolerance: 5},
		builder.RoomSpec{RateRef: "h-room-b", Adults: 2, Residency: "gb", Tolerance: 5},
	).BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, booking.OutcomePartial, out.Status)
	require.Len(t, out.Rooms, 2)
	assert.Equal(t, booking.StateConfirmed, out.Rooms[0].State)
	assert.Equal(t, booking.StateFailed, out.Rooms[1].State)
	assert.Equal(t, booking.CodeNoAvailableRates, out.Rooms[1].FailureCode)
}

func TestCreateBooking_ZeroToleranceHaltsOnIncrease(t *testing.T) {
	uc, deps := newBookingCommands(t)

	deps.steps.EXPECT().
		LockRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(lockResult("p-1", 100, 101), nil)
	// No form fetch, no submit: the pipeline halts at the drift check.

	intent, err := builder.NewIntentBuilder().WithRooms(
		builder.RoomSpec{RateRef: "h-abc", Adults: 2, Residency: "gb", Tolerance: 0},
	).BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, booking.OutcomeFailed, out.Status)
	room := out.Rooms[0]
	assert.Equal(t, booking.StateFailed, room.State)
	assert.Equal(t, booking.CodePriceChanged, room.FailureCode)
	assert.True(t, room.PriceChanged)
}

func TestCreateBooking_DriftWithinToleranceProceedsFlagged(t *testing.T) {
	uc, deps := newBookingCommands(t)

	deps.steps.EXPECT().
		LockRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(lockResult("p-1", 100, 104), nil)
	deps.steps.EXPECT().
		CollectRequiredFields(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&commands.FormResult{OrderID: "ord-1", ItemID: "item-1"}, nil)
	deps.steps.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(nil)
	deps.steps.EXPECT().
		PollStatus(gomock.Any(), "ord-1").
		Return(commands.OrderConfirmed, nil)

	intent, err := builder.NewIntentBuilder().BuildDomain() // tolerance 5%
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, booking.OutcomeSuccess, out.Status)
	room := out.Rooms[0]
	assert.Equal(t, booking.StateConfirmed, room.State)
	assert.Equal(t, 100.0, room.QuotedPrice.Amount)
	assert.Equal(t, 104.0, room.LockedPrice.Amount)
}

func TestCreateBooking_FormFailureNeverSubmits(t *testing.T) {
	uc, deps := newBookingCommands(t)

	deps.steps.EXPECT().
		LockRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(lockResult("p-1", 100, 100), nil)
	deps.steps.EXPECT().
		CollectRequiredFields(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &infra.StatusError{Code: 404, Slug: "hash_not_found"})
	// Submit must never be called for a room that is not form_ready.

	intent, err := builder.NewIntentBuilder().BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, booking.OutcomeFailed, out.Status)
	room := out.Rooms[0]
	assert.Equal(t, booking.StateFailed, room.State)
	assert.Equal(t, booking.CodeNotFound, room.FailureCode)
}

func TestCreateBooking_PollTimeoutLeavesRoomProcessing(t *testing.T) {
	uc, deps := newBookingCommands(t)

	deps.steps.EXPECT().
		LockRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(lockResult("p-1", 100, 100), nil)
	deps.steps.EXPECT().
		CollectRequiredFields(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&commands.FormResult{OrderID: "ord-1", ItemID: "item-1"}, nil)
	deps.steps.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(nil)
	deps.steps.EXPECT().
		PollStatus(gomock.Any(), "ord-1").
		Return(commands.OrderProcessing, nil).
		MinTimes(1)

	intent, err := builder.NewIntentBuilder().BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	// The booking may still complete upstream: never report it failed.
	assert.Equal(t, booking.OutcomeFailed, out.Status)
	room := out.Rooms[0]
	assert.Equal(t, booking.StateProcessing, room.State)
	assert.Empty(t, room.FailureCode)
}

func TestCreateBooking_PollUnavailableLeavesRoomProcessing(t *testing.T) {
	uc, deps := newBookingCommands(t)

	deps.steps.EXPECT().
		LockRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(lockResult("p-1", 100, 100), nil)
	deps.steps.EXPECT().
		CollectRequiredFields(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&commands.FormResult{OrderID: "ord-1", ItemID: "item-1"}, nil)
	deps.steps.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(nil)
	deps.steps.EXPECT().
		PollStatus(gomock.Any(), "ord-1").
		Return(commands.OrderStatus(""), &infra.StatusError{Code: 503})

	intent, err := builder.NewIntentBuilder().BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	room := out.Rooms[0]
	assert.Equal(t, booking.StateProcessing, room.State)
	assert.Empty(t, room.FailureCode)
}

func TestCreateBooking_UpstreamReportsFailure(t *testing.T) {
	uc, deps := newBookingCommands(t)

	deps.steps.EXPECT().
		LockRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(lockResult("p-1", 100, 100), nil)
	deps.steps.EXPECT().
		CollectRequiredFields(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&commands.FormResult{OrderID: "ord-1", ItemID: "item-1"}, nil)
	deps.steps.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(nil)
	gomock.InOrder(
		deps.steps.EXPECT().PollStatus(gomock.Any(), "ord-1").Return(commands.OrderProcessing, nil),
		deps.steps.EXPECT().PollStatus(gomock.Any(), "ord-1").Return(commands.OrderFailed, nil),
	)

	intent, err := builder.NewIntentBuilder().BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, booking.OutcomeFailed, out.Status)
	room := out.Rooms[0]
	assert.Equal(t, booking.StateFailed, room.State)
	assert.Equal(t, booking.CodeBookingFailed, room.FailureCode)
}

func TestCreateBooking_SubmitFailureIsIsolated(t *testing.T) {
	uc, deps := newBookingCommands(t)

	roomA, err := booking.NewRateReference("h-room-a")
	require.NoError(t, err)
	roomB, err := booking.NewRateReference("h-room-b")
	require.NoError(t, err)

	expectHappyRoom(t, deps, roomA, "partner-order-001-r0", "ord-a")
	deps.steps.EXPECT().
		LockRate(gomock.Any(), roomB, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(lockResult("p-b", 100, 100), nil)
	deps.steps.EXPECT().
		CollectRequiredFields(gomock.Any(), booking.RateLockToken("p-b"), gomock.Any()).
		Return(&commands.FormResult{OrderID: "ord-b", ItemID: "item-b"}, nil)
	deps.steps.EXPECT().
		Submit(gomock.Any(), gomock.Cond(func(p commands.SubmitParams) bool { return p.OrderID == "ord-b" })).
		Return(&infra.StatusError{Code: 500})

	intent, err := builder.NewIntentBuilder().WithRooms(
		builder.RoomSpec{RateRef: "h-room-a", Adults: 2, Residency: "gb", Tolerance: 5},
		builder.RoomSpec{RateRef: "h-room-b", Adults: 2, Residency: "gb", Tolerance: 5},
	).BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, booking.OutcomePartial, out.Status)
	assert.Equal(t, booking.StateConfirmed, out.Rooms[0].State)
	assert.Equal(t, booking.StateFailed, out.Rooms[1].State)
	assert.Equal(t, booking.CodeUpstreamUnavailable, out.Rooms[1].FailureCode)
}

func TestCreateBooking_WorstOptionDriftWhenComparingAll(t *testing.T) {
	uc, deps := newBookingCommands(t, func(d *bookingTestDeps) {
		d.cfg.CompareAllPaymentOptions = true
	})

	deps.steps.EXPECT().
		LockRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&commands.LockResult{
			Token: "p-1",
			Options: []booking.PriceOption{
				{Quoted: booking.Price{Amount: 100, Currency: "EUR"}, Locked: booking.Price{Amount: 100, Currency: "EUR"}},
				{Quoted: booking.Price{Amount: 100, Currency: "EUR"}, Locked: booking.Price{Amount: 120, Currency: "EUR"}},
			},
		}, nil)

	intent, err := builder.NewIntentBuilder().WithRooms(
		builder.RoomSpec{RateRef: "h-abc", Adults: 2, Residency: "gb", Tolerance: 0},
	).BuildDomain()
	require.NoError(t, err)

	out, err := uc.CreateBooking(context.Background(), intent)
	require.NoError(t, err)

	room := out.Rooms[0]
	assert.Equal(t, booking.CodePriceChanged, room.FailureCode)
	assert.Equal(t, 120.0, room.LockedPrice.Amount)
}

func TestCreateBooking_InvalidIntent(t *testing.T) {
	uc, _ := newBookingCommands(t)

	out, err := uc.CreateBooking(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, commands.ErrInvalidIntent)
}
