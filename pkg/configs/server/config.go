package server

import (
	"time"

	"github.com/labstack/gommon/log"
)

// ServerConfig is the configuration of mgd.
//
// To get ServerConfig, load it with `LoadServerConfig` or `Unmarshal`.
type ServerConfig struct {
	port     int32
	dburi    string
	loglevel log.Lvl
	location *time.Location
	schema   string
	auth     *AuthConfig
}

func (c *ServerConfig) Port() int32 {
	return c.port
}

// Connection string for database.
func (c *ServerConfig) DBURI() string {
	return c.dburi
}

func (c *ServerConfig) LogLevel() log.Lvl {
	return c.loglevel
}

// Location is the timezone where "today" of schedules is decided.
func (c *ServerConfig) Location() *time.Location {
	return c.location
}

// Directory of schema repository. Empty means the builtin one.
func (c *ServerConfig) SchemaRepository() string {
	return c.schema
}

func (c *ServerConfig) Auth() *AuthConfig {
	return c.auth
}

type AuthConfig struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

// Key signing tokens (HS256).
func (a *AuthConfig) Key() []byte {
	return a.key
}

func (a *AuthConfig) Issuer() string {
	return a.issuer
}

// TTL of issued tokens.
func (a *AuthConfig) TTL() time.Duration {
	return a.ttl
}
