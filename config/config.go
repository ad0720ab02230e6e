// Package config loads the service configuration: adapter base URLs,
// provider credentials (presence of a credential toggles live vs
// synthetic mode per adapter), and the various TTL windows. YAML file
// with env-var overrides; everything has a workable default, so an
// empty config yields a fully synthetic but fully functional service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration exists because yaml.v2 won't parse "30s" into a
// time.Duration on its own.
type Duration time.Duration

func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.D().String(), nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	str := ""
	if err := unmarshal(&str); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(str)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", str, err)
	}
	*d = Duration(parsed)
	return nil
}

type AdapterConfig struct {
	URL      string   `yaml:"url"`
	Username string   `yaml:"username"` // fa only
	APIKey   string   `yaml:"apikey"`
	CacheTTL Duration `yaml:"cache_ttl"`
}

type CacheConfig struct {
	TTL          Duration `yaml:"ttl"`
	StaleCeiling Duration `yaml:"stale_ceiling"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Aex    AdapterConfig `yaml:"aex"`
	Fa     AdapterConfig `yaml:"fa"`
	Cache  CacheConfig   `yaml:"cache"`
	Server ServerConfig  `yaml:"server"`
}

func Default() *Config {
	return &Config{
		Aex:    AdapterConfig{CacheTTL: Duration(30 * time.Second)},
		Fa:     AdapterConfig{CacheTTL: Duration(30 * time.Second)},
		Cache:  CacheConfig{TTL: Duration(30 * time.Second), StaleCeiling: Duration(60 * time.Second)},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path (optional; "" means defaults only) and then applies
// env overrides. Credentials generally arrive via env rather than file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Cache.StaleCeiling < cfg.Cache.TTL {
		cfg.Cache.StaleCeiling = 2 * cfg.Cache.TTL
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"FLIGHTVIEW_AEX_URL":     &cfg.Aex.URL,
		"FLIGHTVIEW_AEX_APIKEY":  &cfg.Aex.APIKey,
		"FLIGHTVIEW_FA_URL":      &cfg.Fa.URL,
		"FLIGHTVIEW_FA_USERNAME": &cfg.Fa.Username,
		"FLIGHTVIEW_FA_APIKEY":   &cfg.Fa.APIKey,
		"FLIGHTVIEW_ADDR":        &cfg.Server.Addr,
	}
	for name, dst := range overrides {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
}

// Get is the dotted-key string lookup some older call sites prefer.
func (cfg *Config) Get(key string) string {
	switch key {
	case "aex.url":
		return cfg.Aex.URL
	case "aex.apikey":
		return cfg.Aex.APIKey
	case "fa.url":
		return cfg.Fa.URL
	case "fa.username":
		return cfg.Fa.Username
	case "fa.apikey":
		return cfg.Fa.APIKey
	case "server.addr":
		return cfg.Server.Addr
	}
	return ""
}
