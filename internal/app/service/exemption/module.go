package exemption

import "go.uber.org/fx"

// Module exposes the exemption resolver via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
