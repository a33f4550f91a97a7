package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/DoyleJ11/darts-scoreboard/internal/engine"
)

type Config struct {
	Addr     string   `env:"DARTS_ADDR" envDefault:":50001"`
	LogLevel string   `env:"DARTS_LOG_LEVEL" envDefault:"info"`
	LogDev   bool     `env:"DARTS_LOG_DEV" envDefault:"false"`
	Mode     string   `env:"DARTS_MODE" envDefault:"Standard"`
	Start    int      `env:"DARTS_STANDARD_START" envDefault:"501"`
	Players  []string `env:"DARTS_PLAYERS" envDefault:"Foo,Bar,Baz" envSeparator:","`

	SerialDevice     string `env:"DARTS_SERIAL_DEVICE"`
	SerialDeviceFile string `env:"DARTS_SERIAL_DEVICE_FILE"`
	SerialBaud       int    `env:"DARTS_SERIAL_BAUD" envDefault:"9600"`

	DatabaseURL    string   `env:"DATABASE_URL"`
	AllowedOrigins []string `env:"DARTS_WS_ORIGINS" envSeparator:","`
}

// Load reads the given .env files (".env" when none are named; missing
// files are fine) and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := engine.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Start <= 0 {
		return fmt.Errorf("DARTS_STANDARD_START must be positive, got %d", c.Start)
	}
	if c.SerialBaud <= 0 {
		return fmt.Errorf("DARTS_SERIAL_BAUD must be positive, got %d", c.SerialBaud)
	}
	return nil
}

// GameMode is the validated initial mode.
func (c Config) GameMode() engine.Mode { return engine.Mode(c.Mode) }

// SeedPlayers drops blank entries from DARTS_PLAYERS.
func (c Config) SeedPlayers() []string {
	var names []string
	for _, n := range c.Players {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Device returns the serial device path. DARTS_SERIAL_DEVICE wins over the
// first line of DARTS_SERIAL_DEVICE_FILE. An empty result means the board
// is not attached.
func (c Config) Device() (string, error) {
	if c.SerialDevice != "" {
		return c.SerialDevice, nil
	}
	if c.SerialDeviceFile == "" {
		return "", nil
	}
	b, err := os.ReadFile(c.SerialDeviceFile)
	if err != nil {
		return "", fmt.Errorf("read device file: %w", err)
	}
	line, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimSpace(line), nil
}
