package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/logging"
)

// Config holds runtime settings for the travelmate CLI.
//
// Fields:
//   - APIURL: base URL of the REST service, including any path prefix.
//   - RequestTimeout: per-request HTTP timeout.
//   - StateDBPath: sqlite file holding the session token and cookies.
//   - Env: logging environment (local, dev, prod).
//   - TokenPassphrase: when set, the stored token is sealed with it.
type Config struct {
	APIURL          string        `env:"TRAVELMATE_API_URL" env-description:"base URL of the travelmate API"`
	RequestTimeout  time.Duration `env:"TRAVELMATE_REQUEST_TIMEOUT" env-description:"HTTP request timeout"`
	StateDBPath     string        `env:"TRAVELMATE_STATE_DB" env-description:"path of the local state database"`
	Env             string        `env:"TRAVELMATE_ENV" env-description:"logging environment: local, dev or prod"`
	TokenPassphrase string        `env:"TRAVELMATE_TOKEN_PASSPHRASE" env-description:"passphrase sealing the stored token"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:5000/api"
	c.RequestTimeout = 15 * time.Second
	c.StateDBPath = DefaultStateDBPath()
	c.Env = logging.EnvLocal
	c.TokenPassphrase = ""
}

// DefaultStateDBPath places the state database in the user's config
// directory, or in the working directory when that is unknown.
func DefaultStateDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".travelmate", "state.db")
	}
	return filepath.Join(dir, "travelmate", "state.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays a dotenv
// file, JSON (if present), environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotenv()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
