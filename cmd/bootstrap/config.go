package bootstrap

import (
	"hotel-broker/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.UpstreamConfig { return cfg.Upstream },
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
	),
)
