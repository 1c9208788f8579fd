package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	EnvName           string        `env:"ENV_NAME"`
	StoreBackend      string        `env:"STORE_BACKEND"`
	RedisAddress      string        `env:"REDIS_ADDR"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB"`
	DatabaseDSN       string        `env:"DATABASE_URI"`
	StoreTimeout      time.Duration `env:"STORE_TIMEOUT"`
	HashCost          int           `env:"HASH_COST"`
	HashTimeout       time.Duration `env:"HASH_TIMEOUT"`
	HashWorkers       int           `env:"HASH_WORKERS"`
	MinPasswordLength int           `env:"MIN_PASSWORD_LENGTH"`
	Debug             bool          `env:"DEBUG"`
}

func Default() *Config {
	return &Config{
		EnvName:           "dev",
		StoreBackend:      BackendRedis,
		RedisAddress:      "localhost:6379",
		StoreTimeout:      5 * time.Second,
		HashCost:          10,
		HashTimeout:       5 * time.Second,
		HashWorkers:       4,
		MinPasswordLength: 1,
	}
}

// Resolve reads flags from args and then environment, env wins
func Resolve(args []string) (*Config, []string, error) {
	conf := Default()

	rest, err := parseFlags(conf, args)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	err = parseEnv(conf)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing env: %w", err)
	}

	err = Validate(conf)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return conf, rest, nil
}

func parseFlags(conf *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("accounts", flag.ContinueOnError)

	fs.StringVar(&conf.EnvName, "env", conf.EnvName, "Environment name, used as the store namespace")
	fs.StringVar(&conf.StoreBackend, "store", conf.StoreBackend, "Record store backend: redis, postgres or memory")
	fs.StringVar(&conf.RedisAddress, "redis", conf.RedisAddress, "Redis address, host:port")
	fs.StringVar(&conf.DatabaseDSN, "d", conf.DatabaseDSN, "Database DSN for PostgreSQL connection")
	fs.DurationVar(&conf.StoreTimeout, "store-timeout", conf.StoreTimeout, "Timeout of a single record store call")
	fs.IntVar(&conf.HashCost, "cost", conf.HashCost, "bcrypt cost factor")
	fs.BoolVar(&conf.Debug, "debug", conf.Debug, "Development logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return fs.Args(), nil
}

func parseEnv(conf *Config) error {
	if err := env.Parse(conf); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return nil
}

func Validate(conf *Config) error {
	if conf.EnvName == "" {
		return errors.New("env name is required")
	}

	switch conf.StoreBackend {
	case BackendRedis:
		if err := validateServerAddress(conf.RedisAddress); err != nil {
			return fmt.Errorf("invalid redis address: %w", err)
		}
	case BackendPostgres:
		if conf.DatabaseDSN == "" {
			return errors.New("database DSN is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend: %q", conf.StoreBackend)
	}

	if conf.HashCost < bcrypt.MinCost || conf.HashCost > bcrypt.MaxCost {
		return fmt.Errorf("hash cost out of range: %d", conf.HashCost)
	}

	if conf.StoreTimeout <= 0 || conf.HashTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}

	if conf.HashWorkers <= 0 {
		return fmt.Errorf("hash workers must be positive: %d", conf.HashWorkers)
	}

	if conf.MinPasswordLength < 1 {
		return fmt.Errorf("min password length must be at least 1: %d", conf.MinPasswordLength)
	}

	return nil
}

func validateServerAddress(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return errors.New("need address in a form host:port")
	}

	if err := validateHost(host); err != nil {
		return fmt.Errorf("invalid host: %w", err)
	}

	if err := validatePort(port); err != nil {
		return fmt.Errorf("invalid port in address: %w", err)
	}

	return nil
}

func validateHost(host string) error {
	if host == "" {
		return errors.New("empty host")
	}

	if host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}

	// hostnames like redis or cache.internal
	if strings.ContainsAny(host, " /") {
		return fmt.Errorf("could not parse host: %v", host)
	}

	return nil
}

func validatePort(portString string) error {
	port, err := strconv.Atoi(portString)
	if err != nil {
		return fmt.Errorf("could not parse port: %w", err)
	}

	if port < 0 || port > 65535 {
		return fmt.Errorf("port out of range: %d", port)
	}

	return nil
}
