package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sidemix/signals-hyperliquid/internal/domain"
)

// Config collects every setting the executor reads. Loaded once from
// YAML, then sensitive values are overridden from the environment so
// keys never have to live in the file.
type Config struct {
	App struct {
		Name     string `yaml:"name"`
		Version  string `yaml:"version"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Trading struct {
		DryRun bool `yaml:"dry_run"`
		// AllowedSymbols is the execution allow-list. Entries may be
		// full symbols ("BTC/USD") or bare coins ("BTC"). Empty means
		// everything is allowed.
		AllowedSymbols []string `yaml:"allowed_symbols"`
		NotionalUSD    float64  `yaml:"notional_usd"`
		FixedQty       float64  `yaml:"fixed_qty"` // wins over notional when > 0
		DefaultTIF     string   `yaml:"default_tif"`
	} `yaml:"trading"`

	API struct {
		URL            string `yaml:"url"`
		AccountAddress string `yaml:"account_address"`
		PrivateKey     string `yaml:"private_key"`
		TimeoutSec     int    `yaml:"timeout_sec"`
	} `yaml:"api"`

	Assets struct {
		// Per-coin operator overrides; they win over fetched metadata.
		TickOverrides map[string]float64 `yaml:"tick_overrides"`
		StepOverrides map[string]float64 `yaml:"step_overrides"`
		Fallback      struct {
			PriceTick float64 `yaml:"price_tick"`
			SizeStep  float64 `yaml:"size_step"`
			MinSize   float64 `yaml:"min_size"`
		} `yaml:"fallback"`
	} `yaml:"assets"`

	Idempotency struct {
		TTLSec   int    `yaml:"ttl_sec"`
		RedisURL string `yaml:"redis_url"` // when set, redis is authoritative
		DBPath   string `yaml:"db_path"`   // sqlite fallback store
		LockPath string `yaml:"lock_path"` // inter-process lock for the sqlite writer
	} `yaml:"idempotency"`

	Metrics struct {
		Addr string `yaml:"addr"` // empty disables the /metrics server
	} `yaml:"metrics"`

	Submit struct {
		MaxRoundingRetries int `yaml:"max_rounding_retries"`
	} `yaml:"submit"`
}

const (
	DefaultAPIURL      = "https://api.hyperliquid.xyz"
	DefaultTTLSec      = 86400
	DefaultNotionalUSD = 50
	DefaultTimeoutSec  = 10
	DefaultMaxRetries  = 8

	DefaultFallbackTick = 0.01
	DefaultFallbackStep = 0.001
)

// LoadConfig reads and validates the YAML config at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.URL == "" {
		c.API.URL = DefaultAPIURL
	}
	if c.API.TimeoutSec <= 0 {
		c.API.TimeoutSec = DefaultTimeoutSec
	}
	if c.Trading.NotionalUSD <= 0 {
		c.Trading.NotionalUSD = DefaultNotionalUSD
	}
	if c.Idempotency.TTLSec <= 0 {
		c.Idempotency.TTLSec = DefaultTTLSec
	}
	if c.Idempotency.DBPath == "" {
		c.Idempotency.DBPath = DefaultIdempotencyDBPath()
	}
	if c.Idempotency.LockPath == "" {
		c.Idempotency.LockPath = c.Idempotency.DBPath + ".lock"
	}
	if c.Assets.Fallback.PriceTick <= 0 {
		c.Assets.Fallback.PriceTick = DefaultFallbackTick
	}
	if c.Assets.Fallback.SizeStep <= 0 {
		c.Assets.Fallback.SizeStep = DefaultFallbackStep
	}
	if c.Submit.MaxRoundingRetries <= 0 {
		c.Submit.MaxRoundingRetries = DefaultMaxRetries
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
}

// overrideWithEnv lets the environment win for secrets and deployment
// knobs, mirroring how the hosted version of this bot was driven.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("HYPER_PRIVATE_KEY"); v != "" {
		cfg.API.PrivateKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("HYPER_ACCOUNT_ADDRESS"); v != "" {
		cfg.API.AccountAddress = strings.TrimSpace(v)
	}
	if v := os.Getenv("HYPER_API_URL"); v != "" {
		cfg.API.URL = strings.TrimSpace(v)
	}
	if v := os.Getenv("IDEMP_REDIS_URL"); v != "" {
		cfg.Idempotency.RedisURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("HYPER_ONLY_EXECUTE_SYMBOLS"); v != "" {
		cfg.Trading.AllowedSymbols = splitList(v)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate fails fast on anything that would otherwise only blow up
// after the first signal arrives.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return fmt.Errorf("invalid API URL: %s", c.API.URL)
	}
	if !c.Trading.DryRun {
		if c.API.PrivateKey == "" {
			return fmt.Errorf("missing private key (set HYPER_PRIVATE_KEY or enable dry_run)")
		}
		if c.API.AccountAddress == "" {
			return fmt.Errorf("missing account address (set HYPER_ACCOUNT_ADDRESS)")
		}
	}
	if c.Trading.FixedQty < 0 {
		return fmt.Errorf("fixed_qty must not be negative")
	}
	if tif := c.Trading.DefaultTIF; tif != "" && domain.ParseTIF(tif) == "" {
		return fmt.Errorf("unknown default_tif %q (want Alo, Ioc or Gtc)", tif)
	}
	return nil
}

// SymbolAllowed checks the allow-list; both the full symbol and the
// bare coin are accepted spellings.
func (c *Config) SymbolAllowed(sig domain.Signal) bool {
	if len(c.Trading.AllowedSymbols) == 0 {
		return true
	}
	sym := strings.ToUpper(strings.TrimSpace(sig.Symbol))
	coin := sig.Coin()
	for _, a := range c.Trading.AllowedSymbols {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a == sym || a == coin {
			return true
		}
	}
	return false
}

// DefaultTIF returns the configured default time-in-force, falling
// back to post-only, which is what the upstream always ran with.
func (c *Config) DefaultTIF() domain.TimeInForce {
	if tif := domain.ParseTIF(c.Trading.DefaultTIF); tif != "" {
		return tif
	}
	return domain.TifAlo
}

// MaskedKey renders the private key safe for the boot log.
func (c *Config) MaskedKey() string {
	k := c.API.PrivateKey
	if len(k) <= 10 {
		return strings.Repeat("*", len(k))
	}
	return k[:6] + "…" + k[len(k)-4:]
}
