// Package config loads server settings from flags and the environment.
package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	KeyPort          = "port"
	KeyKillOnIdle    = "kill_on_idle"
	KeyDisableTicker = "disable_ticker"
	KeyMaxRooms      = "max_rooms"
	KeyTickInterval  = "tick_interval"
	KeyLogLevel      = "log_level"
	KeyDev           = "dev"
	KeyPretty        = "pretty"
)

// Config is the process-wide configuration.
type Config struct {
	Port          int
	KillOnIdle    bool
	DisableTicker bool
	MaxRooms      int
	TickInterval  time.Duration
	LogLevel      string
	Dev           bool
	Pretty        bool
}

var flagNames = map[string]string{
	KeyPort:          "port",
	KeyKillOnIdle:    "kill-on-idle",
	KeyDisableTicker: "disable-ticker",
	KeyMaxRooms:      "max-rooms",
	KeyTickInterval:  "tick-interval",
	KeyLogLevel:      "log-level",
	KeyDev:           "dev",
	KeyPretty:        "pretty",
}

// New returns a viper instance with defaults set and the environment bound.
// Environment variables use the upper-cased key, e.g. PORT or KILL_ON_IDLE.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, 5000)
	v.SetDefault(KeyKillOnIdle, false)
	v.SetDefault(KeyDisableTicker, false)
	v.SetDefault(KeyMaxRooms, 64)
	v.SetDefault(KeyTickInterval, time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDev, false)
	v.SetDefault(KeyPretty, false)
	v.AutomaticEnv()
	return v
}

// BindFlags registers the server flags on cmd and binds them into v.
func BindFlags(v *viper.Viper, cmd *cobra.Command) error {
	fs := cmd.Flags()
	fs.Int(flagNames[KeyPort], v.GetInt(KeyPort), "listen port")
	fs.Bool(flagNames[KeyKillOnIdle], v.GetBool(KeyKillOnIdle), "exit the process when a room is reset for inactivity")
	fs.Bool(flagNames[KeyDisableTicker], v.GetBool(KeyDisableTicker), "disable the ticker for new rooms")
	fs.Int(flagNames[KeyMaxRooms], v.GetInt(KeyMaxRooms), "maximum number of live rooms")
	fs.Duration(flagNames[KeyTickInterval], v.GetDuration(KeyTickInterval), "how often rooms are ticked")
	fs.String(flagNames[KeyLogLevel], v.GetString(KeyLogLevel), "log level")
	fs.Bool(flagNames[KeyDev], v.GetBool(KeyDev), "enable debug endpoints")
	fs.Bool(flagNames[KeyPretty], v.GetBool(KeyPretty), "human readable logs")

	for key, name := range flagNames {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the effective configuration out of v.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Port:          v.GetInt(KeyPort),
		KillOnIdle:    v.GetBool(KeyKillOnIdle),
		DisableTicker: v.GetBool(KeyDisableTicker),
		MaxRooms:      v.GetInt(KeyMaxRooms),
		TickInterval:  v.GetDuration(KeyTickInterval),
		LogLevel:      v.GetString(KeyLogLevel),
		Dev:           v.GetBool(KeyDev),
		Pretty:        v.GetBool(KeyPretty),
	}
	if c.Port <= 0 || c.Port > 65535 {
		return c, fmt.Errorf("invalid port %d", c.Port)
	}
	if c.TickInterval <= 0 {
		return c, fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if _, err := c.Level(); err != nil {
		return c, err
	}
	return c, nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
