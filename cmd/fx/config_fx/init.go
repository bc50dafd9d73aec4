package config_fx

import (
	"go.uber.org/fx"

	"sapipay/internal/config"
)

var Module = fx.Provide(config.Load)
