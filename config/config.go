package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bank-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Log         LogConfig         `mapstructure:"log"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Ledger      LedgerConfig      `mapstructure:"ledger"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"` // empty = CORS off, "*" = any origin
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection URL with credentials escaped.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	OpTimeout   time.Duration `mapstructure:"op_timeout"` // per command; callers fail open
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig configures operator tokens. An empty secret disables API auth.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

type IdempotencyConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig sets per-minute request budgets. Limits need Redis;
// a non-positive budget leaves its group unlimited.
type RateLimitConfig struct {
	Enabled            bool  `mapstructure:"enabled"`
	ReadsPerMinute     int64 `mapstructure:"reads_per_minute"`
	MutationsPerMinute int64 `mapstructure:"mutations_per_minute"`
}

// LedgerConfig holds the ledger name, numbering and per-kind defaults.
// Money values are kept as strings so they reach decimal without float rounding.
type LedgerConfig struct {
	Name               string         `mapstructure:"name"`
	FirstAccountNumber int64          `mapstructure:"first_account_number"`
	Savings            SavingsConfig  `mapstructure:"savings"`
	Checking           CheckingConfig `mapstructure:"checking"`
	Business           BusinessConfig `mapstructure:"business"`
}

type SavingsConfig struct {
	InterestRate   string `mapstructure:"interest_rate"`
	MinimumBalance string `mapstructure:"minimum_balance"`
}

type CheckingConfig struct {
	OverdraftLimit     string `mapstructure:"overdraft_limit"`
	OverdraftRepayment string `mapstructure:"overdraft_repayment"` // none, deposit_first
}

type BusinessConfig struct {
	MonthlyFee string `mapstructure:"monthly_fee"`
	Type       string `mapstructure:"type"`
}

// Defaults parses the per-kind defaults into domain values.
func (l LedgerConfig) Defaults() (domain.Defaults, error) {
	var (
		d   domain.Defaults
		err error
	)
	if d.InterestRate, err = parseMoney("ledger.savings.interest_rate", l.Savings.InterestRate); err != nil {
		return d, err
	}
	if d.MinimumBalance, err = parseMoney("ledger.savings.minimum_balance", l.Savings.MinimumBalance); err != nil {
		return d, err
	}
	if d.OverdraftLimit, err = parseMoney("ledger.checking.overdraft_limit", l.Checking.OverdraftLimit); err != nil {
		return d, err
	}
	if d.OverdraftRepayment, err = domain.ParseOverdraftRepayment(l.Checking.OverdraftRepayment); err != nil {
		return d, fmt.Errorf("ledger.checking.overdraft_repayment: %w", err)
	}
	if d.MonthlyFee, err = parseMoney("ledger.business.monthly_fee", l.Business.MonthlyFee); err != nil {
		return d, err
	}
	d.BusinessType = l.Business.Type
	if d.BusinessType == "" {
		d.BusinessType = domain.DefaultBusinessType
	}
	return d, nil
}

func parseMoney(key, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: must not be negative, got %s", key, s)
	}
	return v, nil
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: LEDGER_.
// Nested keys use underscore: LEDGER_DATABASE_HOST, LEDGER_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "bank_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.dial_timeout", "2s")
	v.SetDefault("redis.op_timeout", "250ms")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "bank-ledger")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("idempotency.ttl", "24h")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.reads_per_minute", 300)
	v.SetDefault("ratelimit.mutations_per_minute", 60)
	v.SetDefault("ledger.name", "Community Bank")
	v.SetDefault("ledger.first_account_number", domain.DefaultFirstAccountNumber)
	v.SetDefault("ledger.savings.interest_rate", "0.02")
	v.SetDefault("ledger.savings.minimum_balance", "100")
	v.SetDefault("ledger.checking.overdraft_limit", "500")
	v.SetDefault("ledger.checking.overdraft_repayment", string(domain.OverdraftRepaymentNone))
	v.SetDefault("ledger.business.monthly_fee", "25")
	v.SetDefault("ledger.business.type", domain.DefaultBusinessType)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: LEDGER_DATABASE_HOST -> database.host
	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if _, err := cfg.Ledger.Defaults(); err != nil {
		return nil, fmt.Errorf("invalid ledger config: %w", err)
	}

	return &cfg, nil
}
