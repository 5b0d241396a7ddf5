package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDSN        = "root:password@tcp(127.0.0.1:3306)/easy_read?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL   = "redis://localhost:6379/0"

	defaultUploadMaxBytes = 1 << 20 // 1 MiB
	defaultImageGCGraceH  = 4
)

var defaultUploadFormats = []string{"jpg", "png", "gif"}

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int          `yaml:"port"`
	DSN            string       `yaml:"dsn"` // MySQL DSN
	RedisURL       string       `yaml:"redis_url"`
	Env            string       `yaml:"env"` // "development" | "production"
	JWTSecret      string       `yaml:"jwt_secret"`
	PublicURL      string       `yaml:"public_url"` // base URL used in emails and canonical article links
	AllowedOrigins []string     `yaml:"allowed_origins"`
	AdminEmails    []string     `yaml:"admin_emails"` // fixed admin allow-list
	Mail           MailConfig   `yaml:"mail"`
	S3             S3Config     `yaml:"s3"`
	Upload         UploadConfig `yaml:"upload"`
}

// MailConfig configures the notification collaborator.
type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	UseResend bool   `yaml:"use_resend"`
	ResendKey string `yaml:"resend_key"`
}

// S3Config configures the blob store collaborator.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// UploadConfig bounds image uploads.
type UploadConfig struct {
	MaxBytes       int64    `yaml:"max_bytes"`
	AllowedFormats []string `yaml:"allowed_formats"`
	GCGraceHours   int      `yaml:"gc_grace_hours"`
}

// Load reads the YAML config file and applies defaults.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Missing file falls back to defaults; useful for dev.
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Env == "" {
		c.Env = defaultEnv
	}
	if c.DSN == "" {
		c.DSN = defaultDSN
	}
	if c.RedisURL == "" {
		c.RedisURL = defaultRedisURL
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = defaultUploadMaxBytes
	}
	if len(c.Upload.AllowedFormats) == 0 {
		c.Upload.AllowedFormats = append([]string{}, defaultUploadFormats...)
	}
	if c.Upload.GCGraceHours == 0 {
		c.Upload.GCGraceHours = defaultImageGCGraceH
	}
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")

	for i, addr := range c.AdminEmails {
		c.AdminEmails[i] = strings.ToLower(strings.TrimSpace(addr))
	}
}

func (c *AppConfig) validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("invalid env %q: want development or production", c.Env)
	}
	if !c.IsDev() && len(c.AdminEmails) == 0 {
		return fmt.Errorf("admin_emails must not be empty in production")
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" }

// IsAdmin reports whether an email address is on the admin allow-list.
func (c *AppConfig) IsAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}

// PrimaryAdminEmail returns the fallback recipient for publication requests
// when neither the article nor the author has a publisher.
func (c *AppConfig) PrimaryAdminEmail() string {
	if len(c.AdminEmails) == 0 {
		return ""
	}
	return c.AdminEmails[0]
}
