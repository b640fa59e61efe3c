package bootstrap

import (
	"hotel-broker/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	UpstreamModule,
	components.UseCaseModule,
	components.HandlerModule,
)
