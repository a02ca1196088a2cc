// Package config loads the simulation and server settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/arpg/internal/core/movement"
	"github.com/zeusync/arpg/internal/core/npc"
	"github.com/zeusync/arpg/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log      Log                     `yaml:"log"`
	Movement movement.Tuning         `yaml:"movement"`
	Steering movement.SteeringTuning `yaml:"steering"`
	Waypoint movement.WaypointTuning `yaml:"waypoint"`
	Shooter  npc.Tuning              `yaml:"shooter"`
	Server   Server                  `yaml:"server"`
	Demo     Demo                    `yaml:"demo"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Server configures the fixed-tick loop and the viewer bridge.
type Server struct {
	Addr     string `yaml:"addr"`
	TickRate int    `yaml:"tick_rate"`
	// Token, when set, must be passed by viewers as ?token= or as an
	// "Authorization: Bearer" header.
	Token      string `yaml:"token"`
	MaxViewers int    `yaml:"max_viewers"`
	SendBuffer int    `yaml:"send_buffer"`
	// MaxCommands caps viewer commands waiting for the next tick. Commands
	// beyond it are refused with an error notice.
	MaxCommands  int           `yaml:"max_commands"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ShutdownWait time.Duration `yaml:"shutdown_wait"`
}

// TickInterval is the wall-clock duration of one simulation frame.
func (s Server) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// Demo shapes the scene built by the launcher.
type Demo struct {
	PlayerSpeed float64 `yaml:"player_speed"`
	EnemySpeed  float64 `yaml:"enemy_speed"`
	Radius      float64 `yaml:"radius"`
	Enemies     int     `yaml:"enemies"`
	EnemyRing   float64 `yaml:"enemy_ring"`
	Props       int     `yaml:"props"`
}

func Default() Config {
	return Config{
		Log:      Log{Level: "info"},
		Movement: movement.DefaultTuning(),
		Steering: movement.DefaultSteeringTuning(),
		Waypoint: movement.DefaultWaypointTuning(),
		Shooter:  npc.DefaultShooterTuning(),
		Server: Server{
			Addr:         "127.0.0.1:8080",
			TickRate:     60,
			MaxViewers:   16,
			SendBuffer:   8,
			MaxCommands:  64,
			WriteTimeout: 2 * time.Second,
			ShutdownWait: 5 * time.Second,
		},
		Demo: Demo{
			PlayerSpeed: 5,
			EnemySpeed:  3,
			Radius:      0.5,
			Enemies:     4,
			EnemyRing:   12,
			Props:       6,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML on top of the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs,
		c.Movement.Validate(),
		c.Steering.Validate(),
		c.Waypoint.Validate(),
		c.Shooter.Validate(),
		c.Server.validate(),
		c.Demo.validate(),
	)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (s Server) validate() error {
	switch {
	case s.Addr == "":
		return errors.New("server.addr is required")
	case s.TickRate <= 0 || s.TickRate > 1000:
		return errors.New("server.tick_rate must be within (0,1000]")
	case s.MaxViewers <= 0:
		return errors.New("server.max_viewers must be positive")
	case s.SendBuffer <= 0:
		return errors.New("server.send_buffer must be positive")
	case s.MaxCommands <= 0:
		return errors.New("server.max_commands must be positive")
	case s.WriteTimeout <= 0 || s.ShutdownWait <= 0:
		return errors.New("server timeouts must be positive")
	}
	return nil
}

func (d Demo) validate() error {
	switch {
	case d.Radius <= 0:
		return errors.New("demo.radius must be positive")
	case d.PlayerSpeed < 0 || d.EnemySpeed < 0:
		return errors.New("demo speeds must not be negative")
	case d.Enemies < 0 || d.Props < 0:
		return errors.New("demo counts must not be negative")
	case d.Enemies > 0 && d.EnemyRing <= 0:
		return errors.New("demo.enemy_ring must be positive")
	}
	return nil
}
