package appconfig

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// DefaultColorsPath is the backing file served by /api/colors when no
// override is configured. Relative paths resolve against the working directory.
const DefaultColorsPath = "assets/jsonfiles/colors.json"

// ColorModeConfig holds the UI color-mode preference.
type ColorModeConfig struct {
	Preference string `json:"preference"`
}

// AppConfig describes how the frontend is bootstrapped. It is fixed at build
// time: Load never reads it from files, flags or the environment.
type AppConfig struct {
	SSR               bool
	DevTools          bool
	Modules           []string
	ColorMode         ColorModeConfig
	CompatibilityDate string
}

// App returns the build-time application record.
func App() AppConfig {
	return AppConfig{
		SSR:               false,
		DevTools:          false,
		Modules:           []string{"@nuxt/ui"},
		ColorMode:         ColorModeConfig{Preference: "dark"},
		CompatibilityDate: "2024-04-03",
	}
}

// PublicApp is the part of AppConfig exposed to the browser.
type PublicApp struct {
	SSR       bool            `json:"ssr"`
	Modules   []string        `json:"modules"`
	ColorMode ColorModeConfig `json:"colorMode"`
}

// Public returns the subset of the app settings the SPA needs at boot.
func (a AppConfig) Public() PublicApp {
	modules := make([]string, len(a.Modules))
	copy(modules, a.Modules)
	return PublicApp{
		SSR:       a.SSR,
		Modules:   modules,
		ColorMode: a.ColorMode,
	}
}

type ServerConfig struct {
	Listen       string   `toml:"listen"`
	Port         int      `toml:"port"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout"`
}

type ColorsConfig struct {
	Path          string   `toml:"path"`
	WatchInterval Duration `toml:"watch_interval"`
}

type RateLimitConfig struct {
	Limit  int      `toml:"limit"`
	Window Duration `toml:"window"`
	// TrustProxy keys clients on X-Forwarded-For / X-Real-IP instead of the
	// peer address. Only enable behind a proxy that overwrites those headers.
	TrustProxy bool `toml:"trust_proxy"`
}

// Enabled reports whether requests should be rate limited at all.
func (r RateLimitConfig) Enabled() bool {
	return r.Limit > 0 && r.Window.Duration > 0
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	App       AppConfig       `toml:"-"`
	Server    ServerConfig    `toml:"server"`
	Colors    ColorsConfig    `toml:"colors"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Logging   LoggingConfig   `toml:"logging"`
}

// Duration wraps time.Duration so it can be written as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Defaults() Config {
	return Config{
		App: App(),
		Server: ServerConfig{
			Listen:       "127.0.0.1",
			Port:         7654,
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			IdleTimeout:  Duration{60 * time.Second},
		},
		Colors: ColorsConfig{
			Path:          DefaultColorsPath,
			WatchInterval: Duration{2 * time.Second},
		},
		RateLimit: RateLimitConfig{
			Limit:  600,
			Window: Duration{time.Minute},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, the
// TOML file at path (or a well-known location) and COLORSERVE_* variables,
// in that order of precedence.
func Load(path string) (Config, error) {
	cfg := Defaults()

	// A missing .env is normal; variables may come from the environment.
	_ = godotenv.Load()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Listen, strconv.Itoa(c.Server.Port))
}

// Validate checks that values are usable. All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Colors.Path == "" {
		errs = append(errs, errors.New("colors path is required"))
	}
	if c.Colors.WatchInterval.Duration <= 0 {
		errs = append(errs, errors.New("colors watch interval must be positive"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.Logging.Level == "" {
		errs = append(errs, errors.New("log level is required"))
	} else if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func findConfigFile() string {
	candidates := []string{}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".colorserve", "config.toml"))
	}
	candidates = append(candidates, "/etc/colorserve/config.toml")

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func applyEnv(cfg *Config) error {
	var errs []error

	if v := os.Getenv("COLORSERVE_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("COLORSERVE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("COLORSERVE_PORT: %w", err))
		} else {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("COLORSERVE_COLORS_PATH"); v != "" {
		cfg.Colors.Path = v
	}
	if v := os.Getenv("COLORSERVE_WATCH_INTERVAL"); v != "" {
		if err := cfg.Colors.WatchInterval.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("COLORSERVE_WATCH_INTERVAL: %w", err))
		}
	}
	if v := os.Getenv("COLORSERVE_RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("COLORSERVE_RATE_LIMIT: %w", err))
		} else {
			cfg.RateLimit.Limit = limit
		}
	}
	if v := os.Getenv("COLORSERVE_RATE_WINDOW"); v != "" {
		if err := cfg.RateLimit.Window.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("COLORSERVE_RATE_WINDOW: %w", err))
		}
	}
	if v := os.Getenv("COLORSERVE_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("COLORSERVE_TRUST_PROXY: %w", err))
		} else {
			cfg.RateLimit.TrustProxy = trust
		}
	}
	if v := os.Getenv("COLORSERVE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("COLORSERVE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	return errors.Join(errs...)
}
