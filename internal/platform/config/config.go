package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	defaultSigningKey = "dev-secret-key-change-in-production"
)

// Config is the full service configuration. Values come from defaults, then
// the optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Addr        string `yaml:"addr"`
	Env         string `yaml:"app_env"`
	LogLevel    string `yaml:"log_level"`
	ServiceName string `yaml:"service_name"`

	JWTSigningKey string        `yaml:"jwt_signing_key"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	MessageMaxAge time.Duration `yaml:"message_max_age"`

	DatabaseURL     string        `yaml:"database_url"`
	RedisURL        string        `yaml:"redis_url"`
	ProfileCacheTTL time.Duration `yaml:"profile_cache_ttl"`

	RPCURL           string        `yaml:"rpc_url"`
	ContractAddress  string        `yaml:"contract_address"`
	PrivateKey       string        `yaml:"private_key"`
	TxConfirmTimeout time.Duration `yaml:"tx_confirm_timeout"`
	DomainCooldown   time.Duration `yaml:"domain_cooldown"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	AuditTopic   string   `yaml:"audit_topic"`

	AllowedOrigins []string `yaml:"allowed_origins"`
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Addr:             ":3001",
		Env:              EnvDevelopment,
		LogLevel:         "info",
		ServiceName:      "SkillChain",
		JWTSigningKey:    defaultSigningKey,
		TokenTTL:         time.Hour,
		MessageMaxAge:    5 * time.Minute,
		ProfileCacheTTL:  10 * time.Minute,
		TxConfirmTimeout: 2 * time.Minute,
		DomainCooldown:   24 * time.Hour,
		AuditTopic:       "skillchain.audit",
	}
}

// Load builds the configuration so main stays lean.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = splitList(v)
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}

	str("ADDR", &cfg.Addr)
	str("APP_ENV", &cfg.Env)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("SERVICE_NAME", &cfg.ServiceName)
	str("JWT_SIGNING_KEY", &cfg.JWTSigningKey)
	dur("TOKEN_TTL", &cfg.TokenTTL)
	dur("MESSAGE_MAX_AGE", &cfg.MessageMaxAge)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("REDIS_URL", &cfg.RedisURL)
	dur("PROFILE_CACHE_TTL", &cfg.ProfileCacheTTL)
	str("RPC_URL", &cfg.RPCURL)
	str("CONTRACT_ADDRESS", &cfg.ContractAddress)
	str("PRIVATE_KEY", &cfg.PrivateKey)
	dur("TX_CONFIRM_TIMEOUT", &cfg.TxConfirmTimeout)
	dur("DOMAIN_COOLDOWN", &cfg.DomainCooldown)
	list("KAFKA_BROKERS", &cfg.KafkaBrokers)
	str("AUDIT_TOPIC", &cfg.AuditTopic)
	list("ALLOWED_ORIGINS", &cfg.AllowedOrigins)
	list("TRUSTED_PROXIES", &cfg.TrustedProxies)

	return errors.Join(errs...)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	var errs []error
	if c.RPCURL == "" {
		errs = append(errs, errors.New("RPC_URL is required"))
	}
	if c.ContractAddress == "" {
		errs = append(errs, errors.New("CONTRACT_ADDRESS is required"))
	}
	if c.IsProduction() && (c.JWTSigningKey == "" || c.JWTSigningKey == defaultSigningKey) {
		errs = append(errs, errors.New("JWT_SIGNING_KEY must be set in production"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.MessageMaxAge <= 0 {
		errs = append(errs, errors.New("MESSAGE_MAX_AGE must be positive"))
	}
	if c.TxConfirmTimeout <= 0 {
		errs = append(errs, errors.New("TX_CONFIRM_TIMEOUT must be positive"))
	}
	if len(c.KafkaBrokers) > 0 && c.AuditTopic == "" {
		errs = append(errs, errors.New("AUDIT_TOPIC is required when KAFKA_BROKERS is set"))
	}
	return errors.Join(errs...)
}
