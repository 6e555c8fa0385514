package statement

import "go.uber.org/fx"

// Module exposes the monthly aggregator via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
