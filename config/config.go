// Package config centralizes the coordinator's runtime configuration,
// grounded on the reference server's util.GameServerEnvironment but
// generalized from a handful of Redis getters into one typed Config object,
// loadable from an optional YAML file (gopkg.in/yaml.v2) overlaid with
// environment variables the way the reference always preferred env vars for
// secrets (REDIS_PW) and deployment-specific values (REDIS_HOST).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is every knob the coordinator process needs at startup.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	RedisHost string `yaml:"redis_host"`
	RedisPort int    `yaml:"redis_port"`
	RedisPW   string `yaml:"-"`
	RedisDB   int    `yaml:"redis_db"`

	NatsURL string `yaml:"nats_url"`

	IdleRoomTTL      time.Duration `yaml:"idle_room_ttl"`
	ReaperTick       time.Duration `yaml:"reaper_tick"`
	DeviceCacheSize  int           `yaml:"device_cache_size"`
	HeartbeatTick    time.Duration `yaml:"heartbeat_tick"`
	AdmissionRatePS  float64       `yaml:"admission_rate_per_sec"`
	AdmissionBurst   int           `yaml:"admission_burst"`
}

// Default returns the configuration the reference server would effectively
// run with out of the box: local Redis, local NATS, generous liveness
// windows.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		RedisHost:       "localhost",
		RedisPort:       6379,
		RedisDB:         0,
		NatsURL:         "nats://localhost:4222",
		IdleRoomTTL:     30 * time.Minute,
		ReaperTick:      time.Minute,
		DeviceCacheSize: 10000,
		HeartbeatTick:   3 * time.Second,
		AdmissionRatePS: 5,
		AdmissionBurst:  10,
	}
}

// Load builds a Config starting from Default(), overlaying path (if
// non-empty and present) via YAML, then overlaying environment variables —
// the same precedence the reference server used implicitly by reading
// secrets only from the environment and never from a committed file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, errors.Wrapf(err, "read config file %s", path)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.RedisHost = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisPort = n
		}
	}
	cfg.RedisPW = os.Getenv("REDIS_PW")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NatsURL = v
	}
}

// RedisAddr returns host:port for go-redis's Options.Addr.
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
