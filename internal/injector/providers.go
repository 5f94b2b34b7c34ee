// Package injector wires a complete arena application from a config path.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/arena/internal/arena"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/telemetry"
	"github.com/zeusync/arena/pkg/encoding"
)

// ConfigPath is the YAML file to load; empty means built-in defaults.
type ConfigPath string

// summaryEvery is how many frames pass between /stats snapshots.
const summaryEvery = 30

// App is everything cmd/arena runs.
type App struct {
	Config  config.Config
	Logger  *log.Logger
	Bus     bus.EventBus
	Session *arena.Session
	Hub     *telemetry.Hub
	Server  *telemetry.Server
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideBus,
	ProvideSession,
	ProvideHub,
	ProvideServer,
)

func ProvideConfig(path ConfigPath) (config.Config, error) {
	return config.Load(string(path))
}

func ProvideLogger(cfg config.Config) (*log.Logger, func(), error) {
	logger, err := cfg.Log.Logger()
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideBus(logger *log.Logger) bus.EventBus {
	return bus.New(logger)
}

func ProvideSession(cfg config.Config, logger *log.Logger, b bus.EventBus) (*arena.Session, func(), error) {
	s, err := arena.NewSession(cfg, logger, arena.WithBus(b))
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			logger.Warn("session close", log.Error(err))
		}
	}, nil
}

// ProvideHub attaches the telemetry hub to the bus and feeds it session
// snapshots. With telemetry disabled the hub stays detached.
func ProvideHub(cfg config.Config, logger *log.Logger, b bus.EventBus, s *arena.Session) (*telemetry.Hub, func(), error) {
	codec, err := encoding.ByName(cfg.Telemetry.Format)
	if err != nil {
		return nil, nil, err
	}
	hub := telemetry.NewHub(cfg.Telemetry.Buffer, logger, telemetry.WithCodec(codec))
	if !cfg.Telemetry.Enabled {
		return hub, func() {}, nil
	}
	if err := hub.Attach(b); err != nil {
		return nil, nil, err
	}
	s.Observe(summaryEvery, func(sum arena.Summary) { hub.SetSummary(sum) })
	return hub, hub.Detach, nil
}

func ProvideServer(cfg config.Config, hub *telemetry.Hub, b bus.EventBus, logger *log.Logger) *telemetry.Server {
	return telemetry.NewServer(cfg.Telemetry.Addr, hub, b, logger)
}
