// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/pumpstream/internal/events"
	"github.com/rovshanmuradov/pumpstream/internal/export"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/utils/logger"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const EnvPrefix = "PUMPSTREAM"

type LogConfig struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxBackups  int    `mapstructure:"max_backups"`
	Compress    bool   `mapstructure:"compress"`
	Development bool   `mapstructure:"development"`
	Pretty      bool   `mapstructure:"pretty"`
}

type Config struct {
	WebSocketURL        string        `mapstructure:"websocket_url"`
	Commitment          string        `mapstructure:"commitment"`
	Programs            []string      `mapstructure:"programs"`
	Events              string        `mapstructure:"events"`
	IncludeFailed       bool          `mapstructure:"include_failed"`
	ConnectTimeout      time.Duration `mapstructure:"connect_timeout"`
	ReconnectMaxElapsed time.Duration `mapstructure:"reconnect_max_elapsed"`
	DedupSize           int           `mapstructure:"dedup_size"`
	DedupTTL            time.Duration `mapstructure:"dedup_ttl"`
	MetricsAddr         string        `mapstructure:"metrics_addr"`
	ExportCSV           string        `mapstructure:"export_csv"`
	ExportCSVMint       string        `mapstructure:"export_csv_mint"`
	ExportCSVSide       string        `mapstructure:"export_csv_side"`
	Log                 LogConfig     `mapstructure:"log"`
}

const (
	DefaultWebSocketURL   = "wss://api.mainnet-beta.solana.com"
	DefaultCommitment     = string(rpc.CommitmentProcessed)
	DefaultEvents         = "all"
	DefaultConnectTimeout = 10 * time.Second
	DefaultDedupSize      = 4096
	DefaultDedupTTL       = 2 * time.Minute
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"websocket_url":         DefaultWebSocketURL,
		"commitment":            DefaultCommitment,
		"programs":              []string{protocol.NamePump, protocol.NamePumpAMM},
		"events":                DefaultEvents,
		"include_failed":        false,
		"connect_timeout":       DefaultConnectTimeout,
		"reconnect_max_elapsed": time.Duration(0),
		"dedup_size":            DefaultDedupSize,
		"dedup_ttl":             DefaultDedupTTL,
		"metrics_addr":          "",
		"export_csv":            "",
		"export_csv_mint":       "",
		"export_csv_side":       "",
		"log.level":             "info",
		"log.file":              "",
		"log.max_size":          100,
		"log.max_age":           7,
		"log.max_backups":       3,
		"log.compress":          true,
		"log.development":       false,
		"log.pretty":            false,
	}
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"ws-url":         "websocket_url",
	"commitment":     "commitment",
	"programs":       "programs",
	"events":         "events",
	"include-failed": "include_failed",
	"metrics-addr":   "metrics_addr",
	"csv":            "export_csv",
	"csv-mint":       "export_csv_mint",
	"csv-side":       "export_csv_side",
	"log-level":      "log.level",
	"log-file":       "log.file",
	"pretty":         "log.pretty",
}

// Load merges defaults, an optional config file, PUMPSTREAM_* environment variables and flags.
// An empty path means no file. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Programs = cleanStrings(cfg.Programs)

	return &cfg, cfg.Validate()
}

// Validate checks every field and wraps failures in ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validateURL(c.WebSocketURL, "ws"); err != nil {
		return fmt.Errorf("%w: websocket_url: %v", ErrInvalidConfig, err)
	}
	if _, err := c.CommitmentType(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(c.Programs) == 0 {
		return fmt.Errorf("%w: programs is empty", ErrInvalidConfig)
	}
	if _, err := c.ResolvePrograms(protocol.NewDefaultRegistry(nil)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Kinds(); err != nil {
		return fmt.Errorf("%w: events: %v", ErrInvalidConfig, err)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("%w: connect_timeout must be positive", ErrInvalidConfig)
	}
	if c.ReconnectMaxElapsed < 0 {
		return fmt.Errorf("%w: reconnect_max_elapsed must not be negative", ErrInvalidConfig)
	}
	if c.DedupSize <= 0 {
		return fmt.Errorf("%w: dedup_size must be positive", ErrInvalidConfig)
	}
	if c.DedupTTL <= 0 {
		return fmt.Errorf("%w: dedup_ttl must be positive", ErrInvalidConfig)
	}
	if _, err := c.ExportOptions(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CommitmentType returns the RPC commitment level.
func (c *Config) CommitmentType() (rpc.CommitmentType, error) {
	switch ct := rpc.CommitmentType(strings.ToLower(c.Commitment)); ct {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
		return ct, nil
	default:
		return "", fmt.Errorf("unsupported commitment %q", c.Commitment)
	}
}

// Kinds parses the events filter.
func (c *Config) Kinds() (events.KindSet, error) {
	return events.ParseKindSet(c.Events)
}

// ResolvePrograms maps the configured names or base58 ids to programs.
func (c *Config) ResolvePrograms(reg *protocol.Registry) ([]protocol.Program, error) {
	out := make([]protocol.Program, 0, len(c.Programs))
	seen := make(map[string]bool, len(c.Programs))
	for _, p := range c.Programs {
		prog, err := reg.Resolve(p)
		if err != nil {
			return nil, err
		}
		if events.ForProgram(prog.ID) == events.NoKinds {
			return nil, fmt.Errorf("program %s emits no decodable events (event sources: %s)",
				prog.Name, strings.Join(eventSources(reg), ", "))
		}
		if seen[prog.Name] {
			continue
		}
		seen[prog.Name] = true
		out = append(out, prog)
	}
	return out, nil
}

func eventSources(reg *protocol.Registry) []string {
	var names []string
	for _, t := range []protocol.Type{protocol.TypeBondingCurve, protocol.TypeAMM} {
		for _, p := range reg.GetByType(t) {
			names = append(names, p.Name)
		}
	}
	return names
}

// ExportOptions builds the CSV exporter filter from export_csv_mint and export_csv_side.
func (c *Config) ExportOptions() (export.Options, error) {
	var opts export.Options
	if mint := strings.TrimSpace(c.ExportCSVMint); mint != "" {
		pk, err := solana.PublicKeyFromBase58(mint)
		if err != nil {
			return opts, fmt.Errorf("export_csv_mint: %w", err)
		}
		opts.Mint = pk
	}
	switch side := strings.ToLower(strings.TrimSpace(c.ExportCSVSide)); side {
	case "", "buy", "sell":
		opts.Side = side
	default:
		return opts, fmt.Errorf("export_csv_side must be buy or sell, got %q", c.ExportCSVSide)
	}
	return opts, nil
}

// LoggerConfig converts the log section into the logger package config.
func (c *Config) LoggerConfig() *logger.Config {
	return &logger.Config{
		Level:       c.Log.Level,
		LogFile:     c.Log.File,
		MaxSize:     c.Log.MaxSize,
		MaxAge:      c.Log.MaxAge,
		MaxBackups:  c.Log.MaxBackups,
		Compress:    c.Log.Compress,
		Development: c.Log.Development,
		Pretty:      c.Log.Pretty,
	}
}

func validateURL(rawURL string, scheme string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, scheme) || parsed.Host == "" {
		return fmt.Errorf("invalid URL %q", rawURL)
	}
	return nil
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
