package components

import (
	"hotel-broker/internal/pkg/clock"
	"hotel-broker/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewBookingCommands,
	),
)
