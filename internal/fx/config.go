package fx

import (
	"Finary/config"
	"Finary/internal/logger"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Invoke(loadEnvFiles),
	fx.Provide(
		config.Load,
	),
	fx.Invoke(
		initLogger,
	),
)

func loadEnvFiles() {
	config.LoadEnvFiles()
}

func initLogger(cfg *config.Config) {
	logger.Init(cfg)
}
