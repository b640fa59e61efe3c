package bootstrap

import (
	"net/http"

	"go.uber.org/fx"

	"hotel-broker/internal/infra"
	"hotel-broker/internal/infra/upstream"
	"hotel-broker/internal/usecase/commands"
)

// UpstreamModule wires the outbound side: one shared HTTP client pool
// (safe for concurrent use across room pipelines), the retry executor,
// and the typed step client.
var UpstreamModule = fx.Module("upstream",
	fx.Provide(
		newHTTPClient,
		func(c *http.Client) upstream.Doer { return c },
		infra.NewExecutor,
		fx.Annotate(
			upstream.NewClient,
			fx.As(new(commands.ReservationSteps)),
		),
	),
)

func newHTTPClient() *http.Client {
	// No client-level timeout; each step bounds its own attempts.
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        64,
			MaxIdleConnsPerHost: 16,
		},
	}
}
