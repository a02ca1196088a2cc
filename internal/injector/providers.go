package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/arpg/internal/config"
	"github.com/zeusync/arpg/internal/core/events/bus"
	"github.com/zeusync/arpg/internal/core/observability/log"
	"github.com/zeusync/arpg/internal/game"
	"github.com/zeusync/arpg/internal/server"
)

// ConfigPath is the YAML file to load. Empty means built-in defaults.
type ConfigPath string

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideServerConfig,
	ProvideLogger,
	ProvideBus,
	ProvideGame,
	server.NewServer,
)

func ProvideConfig(path ConfigPath) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(string(path))
}

func ProvideServerConfig(cfg config.Config) config.Server {
	return cfg.Server
}

func ProvideLogger(cfg config.Config) (log.Log, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

// ProvideBus builds the session bus with delivery logging attached.
func ProvideBus(logger log.Log) bus.EventBus {
	return bus.New(bus.NewLogObserver(logger))
}

func ProvideGame(cfg config.Config, logger log.Log, eb bus.EventBus) (*game.Game, error) {
	return game.NewDemo(cfg, logger, eb)
}
