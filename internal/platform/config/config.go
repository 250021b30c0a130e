// Package config はアプリケーション設定を環境変数と任意の config.yaml から読み込みます。
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"stock_ingest/internal/feature/pricebars/domain/entity"
	"stock_ingest/internal/platform/db"
	"stock_ingest/internal/platform/externalapi/alphavantage"

	"github.com/spf13/viper"
)

const (
	SinkPostgres = "postgres"
	SinkGCS      = "gcs"

	WindowLastNDays = "last_n_days"
	WindowSingleDay = "single_day"

	dateLayout = "2006-01-02"
)

// Config は1回の取り込み実行に必要な設定をすべて保持します。
type Config struct {
	Symbols []string `mapstructure:"symbols"`

	AlphaVantageAPIKey  string `mapstructure:"alphavantage_api_key"`
	AlphaVantageBaseURL string `mapstructure:"alphavantage_base_url"`

	Series           string `mapstructure:"series"`
	IntradayInterval string `mapstructure:"intraday_interval"`

	Window     string `mapstructure:"window"`
	WindowDays int    `mapstructure:"window_days"`
	WindowDate string `mapstructure:"window_date"` // YYYY-MM-DD。空なら実行日

	Sink string `mapstructure:"sink"`

	DBHost           string        `mapstructure:"db_host"`
	DBPort           string        `mapstructure:"db_port"`
	DBUser           string        `mapstructure:"db_user"`
	DBPassword       string        `mapstructure:"db_password"`
	DBName           string        `mapstructure:"db_name"`
	DBSSLMode        string        `mapstructure:"db_sslmode"`
	InstanceName     string        `mapstructure:"instance_connection_name"`
	DBConnectTimeout time.Duration `mapstructure:"db_connect_timeout"`

	GCSBucket string `mapstructure:"gcs_bucket"`

	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	RunTimeout       time.Duration `mapstructure:"run_timeout"`

	Port           string `mapstructure:"port"`
	LogLevel       string `mapstructure:"log_level"`
	MarketTimezone string `mapstructure:"market_timezone"`

	location *time.Location
}

// envKeys は設定キーと環境変数名の対応です。
var envKeys = map[string]string{
	"symbols":                  "SYMBOLS",
	"alphavantage_api_key":     "ALPHAVANTAGE_API_KEY",
	"alphavantage_base_url":    "ALPHAVANTAGE_BASE_URL",
	"series":                   "SERIES",
	"intraday_interval":        "INTRADAY_INTERVAL",
	"window":                   "WINDOW",
	"window_days":              "WINDOW_DAYS",
	"window_date":              "WINDOW_DATE",
	"sink":                     "SINK",
	"db_host":                  "DB_HOST",
	"db_port":                  "DB_PORT",
	"db_user":                  "DB_USER",
	"db_password":              "DB_PASSWORD",
	"db_name":                  "DB_NAME",
	"db_sslmode":               "DB_SSLMODE",
	"instance_connection_name": "INSTANCE_CONNECTION_NAME",
	"db_connect_timeout":       "DB_CONNECT_TIMEOUT",
	"gcs_bucket":               "GCS_BUCKET",
	"request_timeout":          "REQUEST_TIMEOUT",
	"statement_timeout":        "STATEMENT_TIMEOUT",
	"run_timeout":              "RUN_TIMEOUT",
	"port":                     "PORT",
	"log_level":                "LOG_LEVEL",
	"market_timezone":          "MARKET_TIMEZONE",
}

// Load はデフォルト値、config.yaml（存在する場合）、環境変数の順に設定を読み込みます。
// overrides はコマンドラインフラグなど最優先の値で、nil でも構いません。
// 不足・不正な項目はまとめて1つのエラーとして返します。
func Load(overrides map[string]any) (*Config, error) {
	v := viper.New()

	v.SetDefault("symbols", []string{"META", "AAPL", "AMZN", "NFLX", "GOOGL"})
	v.SetDefault("alphavantage_base_url", alphavantage.DefaultBaseURL)
	v.SetDefault("series", "daily")
	v.SetDefault("intraday_interval", "5min")
	v.SetDefault("window", WindowLastNDays)
	v.SetDefault("window_days", 30)
	v.SetDefault("sink", SinkPostgres)
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_connect_timeout", 30*time.Second)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("statement_timeout", 30*time.Second)
	v.SetDefault("run_timeout", 5*time.Minute)
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("market_timezone", "America/New_York")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	// config.yaml は任意
	_ = v.ReadInConfig()

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	for key, val := range overrides {
		v.Set(key, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Symbols = normalizeSymbols(cfg.Symbols)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeSymbols は空白を除去し、空要素を取り除きます。
func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		// "META, AAPL" のような値は1要素で渡ってくることがある
		for _, part := range strings.Split(s, ",") {
			if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) validate() error {
	var problems []string

	if c.AlphaVantageAPIKey == "" {
		problems = append(problems, "ALPHAVANTAGE_API_KEY is required")
	}
	if len(c.Symbols) == 0 {
		problems = append(problems, "SYMBOLS must list at least one symbol")
	}
	if _, err := alphavantage.SeriesByName(c.Series, c.IntradayInterval); err != nil {
		problems = append(problems, "SERIES/INTRADAY_INTERVAL: "+err.Error())
	}

	loc, err := time.LoadLocation(c.MarketTimezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("MARKET_TIMEZONE %q: %v", c.MarketTimezone, err))
	} else {
		c.location = loc
	}

	switch c.Window {
	case WindowLastNDays:
		if c.WindowDays <= 0 {
			problems = append(problems, fmt.Sprintf("WINDOW_DAYS must be positive, got %d", c.WindowDays))
		}
	case WindowSingleDay:
		if c.WindowDate != "" {
			if _, err := time.Parse(dateLayout, c.WindowDate); err != nil {
				problems = append(problems, fmt.Sprintf("WINDOW_DATE %q must be YYYY-MM-DD", c.WindowDate))
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("WINDOW %q must be %s or %s", c.Window, WindowLastNDays, WindowSingleDay))
	}

	switch c.Sink {
	case SinkPostgres:
		var missing []string
		if c.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if c.DBHost == "" && c.InstanceName == "" {
			missing = append(missing, "DB_HOST or INSTANCE_CONNECTION_NAME")
		}
		if len(missing) > 0 {
			problems = append(problems, "SINK=postgres requires "+strings.Join(missing, ", "))
		}
	case SinkGCS:
		if c.GCSBucket == "" {
			problems = append(problems, "SINK=gcs requires GCS_BUCKET")
		}
	default:
		problems = append(problems, fmt.Sprintf("SINK %q must be %s or %s", c.Sink, SinkPostgres, SinkGCS))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q must be debug, info, warn or error", c.LogLevel))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location は取引所のタイムゾーンを返します。
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// SeriesDef は設定された時系列の定義を返します。
func (c *Config) SeriesDef() (alphavantage.Series, error) {
	return alphavantage.SeriesByName(c.Series, c.IntradayInterval)
}

// FetchWindow は now を基準に取得ウィンドウを組み立てます。
// single_day で日付が未指定の場合は、取引所タイムゾーンでの当日になります。
func (c *Config) FetchWindow(now time.Time) entity.FetchWindow {
	if c.Window == WindowSingleDay {
		loc := c.Location()
		if c.WindowDate != "" {
			if d, err := time.ParseInLocation(dateLayout, c.WindowDate, loc); err == nil {
				return entity.SingleDay(d)
			}
		}
		y, m, d := now.In(loc).Date()
		return entity.SingleDay(time.Date(y, m, d, 0, 0, 0, 0, loc))
	}
	return entity.LastNDays(c.WindowDays)
}

// AlphaVantage は Alpha Vantage クライアントの設定を返します。
func (c *Config) AlphaVantage() alphavantage.Config {
	return alphavantage.Config{
		APIKey:   c.AlphaVantageAPIKey,
		BaseURL:  c.AlphaVantageBaseURL,
		Timeout:  c.RequestTimeout,
		Location: c.Location(),
	}
}

// DB は PostgreSQL の接続設定を返します。
func (c *Config) DB() db.Config {
	return db.Config{
		User:             c.DBUser,
		Password:         c.DBPassword,
		Name:             c.DBName,
		Host:             c.DBHost,
		Port:             c.DBPort,
		SSLMode:          c.DBSSLMode,
		InstanceName:     c.InstanceName,
		StatementTimeout: c.StatementTimeout,
	}
}
