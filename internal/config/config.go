package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	AI struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		APIKey      string  `yaml:"api_key"`
		BaseURL     string  `yaml:"base_url"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"ai"`
	UML struct {
		PrimaryServer  string `yaml:"primary_server"`
		FallbackServer string `yaml:"fallback_server"`
		Format         string `yaml:"format"`
	} `yaml:"uml"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	var cfg Config

	// 2. Load YAML config (optional; env and defaults cover a missing file)
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("REQDOC_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("REQDOC_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("REQDOC_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if port := os.Getenv("REQDOC_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = n
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.0-flash"
	}
	if c.UML.PrimaryServer == "" {
		c.UML.PrimaryServer = "https://www.plantuml.com/plantuml"
	}
	if c.UML.FallbackServer == "" {
		c.UML.FallbackServer = "https://img.plantuml.biz/plantuml"
	}
	if c.UML.Format == "" {
		c.UML.Format = "png"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "reqdoc.db"
	}
}
