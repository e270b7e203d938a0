package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	AI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"ai"`

	Sessions struct {
		TTLHours   int `yaml:"ttlHours"`
		MaxEntries int `yaml:"maxEntries"`
	} `yaml:"sessions"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Load reads the yaml config file and applies environment overrides. A
// missing file is not an error; every setting then comes from env/defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o-mini"
	}
	if c.Sessions.TTLHours == 0 {
		c.Sessions.TTLHours = 12
	}
	if c.Sessions.MaxEntries == 0 {
		c.Sessions.MaxEntries = 10000
	}
}

// Validate checks the fatal startup conditions. The inference credential is
// required for the whole service, not per request.
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	return nil
}

// SessionTTL returns the session time-to-live as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Sessions.TTLHours) * time.Hour
}

// MinioEnabled reports whether the payload archive is configured.
func (c *Config) MinioEnabled() bool {
	return c.Minio.Endpoint != ""
}
