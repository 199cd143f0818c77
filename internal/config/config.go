package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration of the derivation service.
type Config struct {
	CacheEnabled    bool
	CacheCapacity   int
	CacheTTL        time.Duration
	StrictQuality   bool
	MinQualityScore int
	TimingFloor     time.Duration
	LogLevel        string
}

type FileConfig struct {
	Cache    CacheSection   `yaml:"cache"`
	Quality  QualitySection `yaml:"quality"`
	Timing   TimingSection  `yaml:"timing"`
	LogLevel string         `yaml:"logLevel"`
}

type CacheSection struct {
	Enabled  *bool         `yaml:"enabled"`
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

type QualitySection struct {
	Strict   *bool `yaml:"strict"`
	MinScore int   `yaml:"minScore"`
}

type TimingSection struct {
	Floor time.Duration `yaml:"floor"`
}

func Default() Config {
	return Config{
		CacheEnabled:    true,
		CacheCapacity:   128,
		CacheTTL:        15 * time.Minute,
		StrictQuality:   false,
		MinQualityScore: 50,
		TimingFloor:     0,
		LogLevel:        "info",
	}
}

func LoadFromPath(configPath string) Config {
	cfg := Default()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"configs/entropyd.yaml",
			"entropyd.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}

		merged := cfg
		Merge(&merged, parsed)
		ApplyEnvOverrides(&merged)
		return merged
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

func Merge(dst *Config, src FileConfig) {
	if src.Cache.Enabled != nil {
		dst.CacheEnabled = *src.Cache.Enabled
	}
	if src.Cache.Capacity != 0 {
		dst.CacheCapacity = src.Cache.Capacity
	}
	if src.Cache.TTL != 0 {
		dst.CacheTTL = src.Cache.TTL
	}
	if src.Quality.Strict != nil {
		dst.StrictQuality = *src.Quality.Strict
	}
	if src.Quality.MinScore != 0 {
		dst.MinQualityScore = src.Quality.MinScore
	}
	if src.Timing.Floor != 0 {
		dst.TimingFloor = src.Timing.Floor
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if raw := strings.TrimSpace(os.Getenv("ENTROPYD_CACHE_DISABLED")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.CacheEnabled = !v
		}
	}
	if raw := strings.TrimSpace(os.Getenv("ENTROPYD_STRICT_QUALITY")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.StrictQuality = v
		}
	}
	if level := strings.TrimSpace(os.Getenv("ENTROPYD_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}
}
