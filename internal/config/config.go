// Package config collects the environment-driven settings shared by
// the command-line tools.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"alien_rfid_go/internal/transport"
)

type Config struct {
	Host     string
	Port     int
	Device   string
	Baud     int
	Login    string
	Password string
	Timeout  time.Duration
	Debug    bool
	Demo     bool
}

func Load() Config {
	return Config{
		Host:     strings.TrimSpace(os.Getenv("ALIEN_HOST")),
		Port:     envInt("ALIEN_PORT", transport.DefaultTCPPort),
		Device:   strings.TrimSpace(os.Getenv("ALIEN_DEVICE")),
		Baud:     envInt("ALIEN_BAUD", transport.DefaultBaud),
		Login:    strings.TrimSpace(os.Getenv("ALIEN_LOGIN")),
		Password: os.Getenv("ALIEN_PASSWORD"),
		Timeout:  envDurationMS("ALIEN_TIMEOUT_MS", 3000),
		Debug:    envBool("ALIEN_DEBUG", false),
		Demo:     envBool("ALIEN_DEMO", false),
	}
}

// OpenChannel picks the channel the configuration describes: the
// emulator in demo mode, a serial link when a device is set, otherwise
// TCP.
func (c Config) OpenChannel() (transport.Channel, error) {
	switch {
	case c.Demo:
		return transport.NewEmulator(), nil
	case c.Device != "":
		return transport.OpenSerial(c.Device, c.Baud, c.Timeout)
	case c.Host != "":
		return transport.DialTCP(c.Host, c.Port, c.Timeout)
	default:
		return nil, fmt.Errorf("set ALIEN_HOST, ALIEN_DEVICE, or ALIEN_DEMO=1")
	}
}

// Target names the endpoint the configuration points at, for banners
// and logs.
func (c Config) Target() string {
	switch {
	case c.Demo:
		return "emulator"
	case c.Device != "":
		return c.Device
	default:
		return fmt.Sprintf("%s:%d", c.Host, c.Port)
	}
}

func envInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func envDurationMS(key string, fallbackMS int) time.Duration {
	return time.Duration(envInt(key, fallbackMS)) * time.Millisecond
}
