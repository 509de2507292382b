package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort     = 8080
	DefaultTimezone = "Asia/Seoul"
	DefaultTokenTTL = 24 * time.Hour
)

// ServerConfigMarshall is the mutable version of ServerConfig, read from yaml.
//
// Environment variables with prefix "MG_" override values in yaml.
type ServerConfigMarshall struct {
	Port     int32              `yaml:"port" env:"MG_PORT"`
	DBURI    string             `yaml:"dburi" env:"MG_DBURI"`
	LogLevel string             `yaml:"loglevel" env:"MG_LOGLEVEL"`
	Timezone string             `yaml:"timezone" env:"MG_TIMEZONE"`
	Schema   string             `yaml:"schema" env:"MG_SCHEMA"`
	Auth     AuthConfigMarshall `yaml:"auth" envPrefix:"MG_AUTH_"`
}

type AuthConfigMarshall struct {
	Key    string `yaml:"key" env:"KEY"`
	Issuer string `yaml:"issuer" env:"ISSUER"`
	TTL    string `yaml:"ttl" env:"TTL"`
}

// LoadServerConfig reads the config file and environment variables.
//
// When filepath is empty, only environment variables are read.
func LoadServerConfig(filepath string) (*ServerConfig, error) {
	if filepath == "" {
		return Unmarshal(nil)
	}
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

// Unmarshal parses yaml, applies environment variables and verifies them.
func Unmarshal(conf []byte) (*ServerConfig, error) {
	var m ServerConfigMarshall
	if err := yaml.Unmarshal(conf, &m); err != nil {
		return nil, err
	}
	if err := env.Parse(&m); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return m.Seal()
}

// Seal verifies values and makes the readonly version.
func (m *ServerConfigMarshall) Seal() (*ServerConfig, error) {
	port := m.Port
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || 65535 < port {
		return nil, fmt.Errorf("port: out of range: %d", port)
	}

	if m.DBURI == "" {
		return nil, fmt.Errorf("dburi is required")
	}

	lvl, err := ParseLogLevel(m.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("loglevel: %w", err)
	}

	tz := m.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	auth, err := m.Auth.seal()
	if err != nil {
		return nil, fmt.Errorf("auth.%w", err)
	}

	return &ServerConfig{
		port:     port,
		dburi:    m.DBURI,
		loglevel: lvl,
		location: loc,
		schema:   m.Schema,
		auth:     auth,
	}, nil
}

func (a *AuthConfigMarshall) seal() (*AuthConfig, error) {
	if a.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	ttl := DefaultTokenTTL
	if a.TTL != "" {
		d, err := time.ParseDuration(a.TTL)
		if err != nil {
			return nil, fmt.Errorf("ttl: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("ttl: should be positive: %s", a.TTL)
		}
		ttl = d
	}
	issuer := a.Issuer
	if issuer == "" {
		issuer = "mindgarden"
	}
	return &AuthConfig{key: []byte(a.Key), issuer: issuer, ttl: ttl}, nil
}

// ParseLogLevel parses "debug", "info", "warn", "error" or "off".
//
// Empty string is "info".
func ParseLogLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("unknown log level: %q", s)
}
