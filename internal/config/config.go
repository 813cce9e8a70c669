package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Logical field names understood by the header resolver.
const (
	FieldAccountStatus   = "account_status"
	FieldAccountSet      = "account_set"
	FieldAccountNickname = "account_nickname"
	FieldBrainID         = "brain_id"
	FieldDate            = "date"
	FieldLimits          = "limits"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldBalanceStart    = "balance_start"
	FieldBalanceEnd      = "balance_end"
	FieldBalanceTotal    = "balance_total"
	FieldHands           = "hands"
)

// RequiredFields lists the logical fields the status engine reads.
var RequiredFields = []string{
	FieldAccountStatus,
	FieldAccountSet,
	FieldAccountNickname,
	FieldBrainID,
	FieldDate,
	FieldLimits,
	FieldStartTime,
	FieldEndTime,
}

// Config holds the complete application configuration.
// It is built once by Load and must not be modified afterwards.
type Config struct {
	Sheets     SheetsConfig     `mapstructure:"sheets"`
	Accounts   AccountsConfig   `mapstructure:"accounts"`
	Status     StatusConfig     `mapstructure:"status"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Headers    HeadersConfig    `mapstructure:"headers"`
	Parser     ParserConfig     `mapstructure:"parser"`
	Report     ReportConfig     `mapstructure:"report"`
	Output     OutputConfig     `mapstructure:"output"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Watch      WatchConfig      `mapstructure:"watch"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SheetsConfig names the workbook directory and the sheets inside it
type SheetsConfig struct {
	Dir      string `mapstructure:"dir"`
	Accounts string `mapstructure:"accounts"`
	Log      string `mapstructure:"log"`
	Report   string `mapstructure:"report"`
}

// AccountsConfig defines how the roster is read
type AccountsConfig struct {
	RowLimit    int    `mapstructure:"row_limit"`
	SentinelSet string `mapstructure:"sentinel_set"` // equipment tag exempt from brain id
}

// StatusConfig defines status classification settings
type StatusConfig struct {
	RestThresholdHours float64 `mapstructure:"rest_threshold_hours"`
	Timezone           string  `mapstructure:"timezone"`
	ReadyStatus        string  `mapstructure:"ready_status"`
	AttentionStatus    string  `mapstructure:"attention_status"`
}

// ThresholdsConfig carries operator warning levels
type ThresholdsConfig struct {
	BalanceWarning float64 `mapstructure:"balance_warning"`
	HandsWarning   int     `mapstructure:"hands_warning"`
}

// HeadersConfig maps logical field names to accepted header labels
type HeadersConfig struct {
	Synonyms map[string][]string `mapstructure:"synonyms"`
}

// ParserConfig defines temporal parser settings
type ParserConfig struct {
	DateCacheSize int `mapstructure:"date_cache_size"`
}

// ReportConfig defines report ordering
type ReportConfig struct {
	Collation string `mapstructure:"collation"` // BCP 47 tag, empty for byte order
}

// OutputConfig selects where the report is drawn
type OutputConfig struct {
	Type  string `mapstructure:"type"` // "console", "file" or "redis"
	Path  string `mapstructure:"path"`
	Color bool   `mapstructure:"color"`
}

// StorageConfig defines storage backend settings
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig defines Redis connection settings
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  string `mapstructure:"dial_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	KeyPrefix    string `mapstructure:"key_prefix"`
}

// NotifyConfig defines run notifications
type NotifyConfig struct {
	Desktop bool   `mapstructure:"desktop"`
	AppName string `mapstructure:"app_name"`
}

// WatchConfig defines the scheduled trigger
type WatchConfig struct {
	Interval string `mapstructure:"interval"`
}

// MetricsConfig defines the metrics endpoint used by watch mode
type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	v.SetConfigFile(configPath)
	v.SetEnvPrefix("QQHELPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)

	return &cfg
}

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	// Sheets
	v.SetDefault("sheets.dir", ".")
	v.SetDefault("sheets.accounts", "Accs")
	v.SetDefault("sheets.log", "QQpoker")
	v.SetDefault("sheets.report", "QQ_Helper")

	// Accounts
	v.SetDefault("accounts.row_limit", 75)
	v.SetDefault("accounts.sentinel_set", "s59")

	// Status
	v.SetDefault("status.rest_threshold_hours", 7.0)
	v.SetDefault("status.timezone", "Local")
	v.SetDefault("status.ready_status", "ready")
	v.SetDefault("status.attention_status", "sla")

	// Thresholds
	v.SetDefault("thresholds.balance_warning", 45.0)
	v.SetDefault("thresholds.hands_warning", 150)

	// Headers
	v.SetDefault("headers.synonyms", DefaultSynonyms())

	// Parser
	v.SetDefault("parser.date_cache_size", 256)

	// Report
	v.SetDefault("report.collation", "")

	// Output
	v.SetDefault("output.type", "console")
	v.SetDefault("output.path", "")
	v.SetDefault("output.color", true)

	// Storage
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.pool_size", 4)
	v.SetDefault("storage.redis.min_idle_conns", 1)
	v.SetDefault("storage.redis.dial_timeout", "5s")
	v.SetDefault("storage.redis.read_timeout", "3s")
	v.SetDefault("storage.redis.write_timeout", "3s")
	v.SetDefault("storage.redis.key_prefix", "qqhelper:")

	// Notify
	v.SetDefault("notify.desktop", false)
	v.SetDefault("notify.app_name", "QQ Helper")

	// Watch
	v.SetDefault("watch.interval", "5m")

	// Metrics
	v.SetDefault("metrics.listen", "127.0.0.1:9090")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// DefaultSynonyms returns the built-in header synonym table. Order within each
// list is significant: the first label found in a header row wins.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		FieldAccountStatus:   {"статус", "status"},
		FieldAccountSet:      {"комплект", "pc"},
		FieldAccountNickname: {"никнейм", "ник", "account"},
		FieldBrainID:         {"brain id", "bid"},
		FieldDate:            {"date", "дата"},
		FieldLimits:          {"limit", "лимит"},
		FieldStartTime:       {"start time", "время начала сессии"},
		FieldEndTime:         {"end time", "время окончания"},
		FieldBalanceStart:    {"start br", "начальный баланс"},
		FieldBalanceEnd:      {"end br", "конечный"},
		FieldBalanceTotal:    {"total br", "total"},
		FieldHands:           {"hands", "руки"},
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Status.Timezone == "" || strings.EqualFold(c.Status.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Status.Timezone)
}

// RestThreshold returns the rest threshold as a duration.
func (c *Config) RestThreshold() time.Duration {
	return time.Duration(c.Status.RestThresholdHours * float64(time.Hour))
}

// ReportPath returns the file the report is written to for file output,
// defaulting to the report sheet name inside the workbook directory.
func (c *Config) ReportPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	return filepath.Join(c.Sheets.Dir, c.Sheets.Report+".txt")
}

// WatchInterval returns the parsed watch interval.
func (c *Config) WatchInterval() time.Duration {
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

func isNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	// SetConfigFile bypasses the search path, so a missing file surfaces as a
	// plain os error instead of ConfigFileNotFoundError.
	return errors.Is(err, fs.ErrNotExist)
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Accounts.RowLimit <= 0 {
		return fmt.Errorf("accounts.row_limit must be positive: %d", cfg.Accounts.RowLimit)
	}
	if cfg.Status.RestThresholdHours <= 0 {
		return fmt.Errorf("status.rest_threshold_hours must be positive: %v", cfg.Status.RestThresholdHours)
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("invalid status.timezone %q: %w", cfg.Status.Timezone, err)
	}

	if cfg.Sheets.Accounts == "" || cfg.Sheets.Log == "" {
		return fmt.Errorf("sheets.accounts and sheets.log are required")
	}

	for _, field := range RequiredFields {
		if len(cfg.Headers.Synonyms[field]) == 0 {
			return fmt.Errorf("headers.synonyms.%s must list at least one label", field)
		}
	}

	if cfg.Parser.DateCacheSize < 0 {
		return fmt.Errorf("parser.date_cache_size must not be negative: %d", cfg.Parser.DateCacheSize)
	}

	if cfg.Report.Collation != "" {
		if _, err := language.Parse(cfg.Report.Collation); err != nil {
			return fmt.Errorf("invalid report.collation %q: %w", cfg.Report.Collation, err)
		}
	}

	switch cfg.Output.Type {
	case "console", "file", "redis":
	default:
		return fmt.Errorf("unsupported output type: %s (console, file or redis)", cfg.Output.Type)
	}

	interval, err := time.ParseDuration(cfg.Watch.Interval)
	if err != nil {
		return fmt.Errorf("invalid watch.interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("watch.interval must be positive: %s", cfg.Watch.Interval)
	}

	for name, value := range map[string]string{
		"dial_timeout":  cfg.Storage.Redis.DialTimeout,
		"read_timeout":  cfg.Storage.Redis.ReadTimeout,
		"write_timeout": cfg.Storage.Redis.WriteTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid storage.redis.%s: %w", name, err)
		}
	}

	return nil
}
