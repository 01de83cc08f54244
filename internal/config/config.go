package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ProductionMode  = "production"
	DevelopmentMode = "development"
)

const (
	PostgresDB = "pgsql"
	SqliteDB   = "sqlite"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"solo-db"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address           string        `envconfig:"MARKETPLACE_ADDRESS" default:":5000"`
	Port              string        `envconfig:"PORT" default:""`
	MetricsAddress    string        `envconfig:"MARKETPLACE_METRICS_ADDRESS" default:":8080"`
	LogLevel          string        `envconfig:"MARKETPLACE_LOG_LEVEL" default:"info"`
	Mode              string        `envconfig:"NODE_ENV" default:"development"`
	AllowedOrigins    string        `envconfig:"MARKETPLACE_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	MigrationFolder   string        `envconfig:"MARKETPLACE_MIGRATIONS_FOLDER" default:""`
	StrictTransitions bool          `envconfig:"MARKETPLACE_STRICT_BID_TRANSITIONS" default:"false"`
	ReconcileInterval time.Duration `envconfig:"MARKETPLACE_RECONCILE_INTERVAL" default:"0"`
	EventsEnabled     bool          `envconfig:"MARKETPLACE_EVENTS_ENABLED" default:"false"`
	GatewayPrefix     string        `envconfig:"MARKETPLACE_GATEWAY_PREFIX" default:""`
	Auth              Auth
}

type Auth struct {
	SecretKey  string        `envconfig:"SECRET_KEY" default:""`
	CookieName string        `envconfig:"MARKETPLACE_COOKIE_NAME" default:"token"`
	TokenTTL   time.Duration `envconfig:"MARKETPLACE_TOKEN_TTL" default:"8760h"`
}

// New loads the configuration from the environment once and returns the cached value afterwards.
func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config backed by an in-memory sqlite database.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: SqliteDB,
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:        ":5000",
			MetricsAddress: ":8080",
			LogLevel:       "info",
			Mode:           DevelopmentMode,
			AllowedOrigins: "http://localhost:5173",
			Auth: Auth{
				SecretKey:  "secret",
				CookieName: "token",
				TokenTTL:   365 * 24 * time.Hour,
			},
		},
	}
}

// ListenAddress prefers PORT, as set by most hosting platforms, over the configured address.
func (c *Config) ListenAddress() string {
	if c.Service.Port != "" {
		return ":" + c.Service.Port
	}
	return c.Service.Address
}

func (c *Config) IsProduction() bool {
	return c.Service.Mode == ProductionMode
}

// Origins splits the comma separated list of allowed CORS origins.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.Service.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
