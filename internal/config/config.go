package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListen       = "127.0.0.1:8094"
	DefaultOffsetDeg    = 88.0
	DefaultWindowMin    = 70.0
	DefaultWindowMax    = 110.0
	DefaultToleranceDeg = 0.01
	DefaultMaxIter      = 80
	DefaultHouseSystem  = "P"

	// APIKeysEnv overrides the configured key list; comma-separated.
	APIKeysEnv = "EPHEMERISD_API_KEYS"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Engine EngineConfig `yaml:"engine"`
	Solver SolverConfig `yaml:"solver"`
	Houses HousesConfig `yaml:"houses"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	APIKeys         []string      `yaml:"api_keys"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type EngineConfig struct {
	Sidereal  bool   `yaml:"sidereal"`
	Ayanamsha string `yaml:"ayanamsha"`
}

// SolverConfig carries defaults for design-time requests; each request
// may override any of them.
type SolverConfig struct {
	OffsetDeg    float64 `yaml:"offset_deg"`
	WindowMin    float64 `yaml:"window_min_days"`
	WindowMax    float64 `yaml:"window_max_days"`
	ToleranceDeg float64 `yaml:"tolerance_deg"`
	MaxIter      int     `yaml:"max_iter"`
}

type HousesConfig struct {
	DefaultSystem string `yaml:"default_system"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          DefaultListen,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Solver: SolverConfig{
			OffsetDeg:    DefaultOffsetDeg,
			WindowMin:    DefaultWindowMin,
			WindowMax:    DefaultWindowMax,
			ToleranceDeg: DefaultToleranceDeg,
			MaxIter:      DefaultMaxIter,
		},
		Houses: HousesConfig{
			DefaultSystem: DefaultHouseSystem,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveAPIKeys returns the effective key list: the environment variable
// wins over the file. An empty list means open access (development mode).
func (c *Config) ResolveAPIKeys() []string {
	if env := os.Getenv(APIKeysEnv); env != "" {
		var keys []string
		for _, k := range strings.Split(env, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		return keys
	}
	return append([]string(nil), c.Server.APIKeys...)
}
