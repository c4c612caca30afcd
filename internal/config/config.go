package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultAnalyzerURL is used when neither config nor environment name one.
const DefaultAnalyzerURL = "http://localhost:8000"

type TokenUser struct {
	UID         string `yaml:"uid"`
	DisplayName string `yaml:"displayName"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Analyzer struct {
		// Mode selects the analysis backend: "remote" posts to an external
		// analyzer service, "openai" runs the analysis in-process.
		Mode    string `yaml:"mode"`
		BaseURL string `yaml:"baseURL"`
		OpenAI  struct {
			APIKey string `yaml:"apiKey"`
			Model  string `yaml:"model"`
		} `yaml:"openai"`
	} `yaml:"analyzer"`

	Auth struct {
		// Static bearer token -> user table, set at deploy time.
		Tokens map[string]TokenUser `yaml:"tokens"`
	} `yaml:"auth"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills unset values; ANALYZER_API_URL wins over the file.
func (c *Config) applyDefaults() {
	if v := os.Getenv("ANALYZER_API_URL"); v != "" {
		c.Analyzer.BaseURL = v
	}
	if c.Analyzer.BaseURL == "" {
		c.Analyzer.BaseURL = DefaultAnalyzerURL
	}
	if c.Analyzer.Mode == "" {
		c.Analyzer.Mode = "remote"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
