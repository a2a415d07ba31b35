package config

import "time"

type AppConfig struct {
	DBDriver   string        `yaml:"db_driver" env:"ITRACK_DB_DRIVER" env-default:"sqlite"`
	DBURL      string        `yaml:"db_url" env:"ITRACK_DB_URL"`
	DBPath     string        `yaml:"db_path" env:"ITRACK_DB_PATH" env-default:"data/itrack.db"`
	ListenAddr string        `yaml:"listen_addr" env:"ITRACK_LISTEN_ADDR" env-default:"0.0.0.0:3000"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"ITRACK_SESSION_TTL" env-default:"24h"`
	AppEnv     string        `yaml:"app_env" env:"ITRACK_APP_ENV" env-default:"production"`
	Pepper     string        `yaml:"pepper" env:"ITRACK_PEPPER"`

	AdminUsername string `yaml:"admin_username" env:"ITRACK_ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string `yaml:"admin_password" env:"ITRACK_ADMIN_PASSWORD"`

	Security  SecurityConfig  `yaml:"security"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

type SecurityConfig struct {
	TrustedProxies []string `yaml:"trusted_proxies" env:"ITRACK_TRUSTED_PROXIES" env-separator:","`
}

type RateLimitConfig struct {
	Enabled   bool          `yaml:"enabled" env:"ITRACK_RATE_LIMIT_ENABLED" env-default:"true"`
	Window    time.Duration `yaml:"window" env:"ITRACK_RATE_LIMIT_WINDOW" env-default:"60s"`
	MaxPerWin int           `yaml:"max_per_window" env:"ITRACK_RATE_LIMIT_MAX" env-default:"100"`
}

// CatalogConfig carries the closed enumerations the repositories validate
// against. Each list is ordered; the first incident status is the default for
// newly created incidents.
type CatalogConfig struct {
	RootCauses         []string `yaml:"root_causes" env:"ROOT_CAUSES" env-separator:","`
	IncidentStatuses   []string `yaml:"incident_statuses" env:"INCIDENT_STATUSES" env-separator:","`
	ActionItemStatuses []string `yaml:"action_item_statuses" env:"ACTION_ITEM_STATUSES" env-separator:","`
	Assignees          []string `yaml:"assignees" env:"USERS" env-separator:","`
}

const maxSessionTTL = 24 * time.Hour

func (c *AppConfig) EffectiveSessionTTL() time.Duration {
	ttl := maxSessionTTL
	if c != nil && c.SessionTTL > 0 {
		ttl = c.SessionTTL
	}
	if ttl > maxSessionTTL {
		return maxSessionTTL
	}
	return ttl
}

func (c *AppConfig) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
