package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	SiteURL        string             `yaml:"site_url"`
	Database       DatabaseConfig     `yaml:"database"`
	Redis          RedisConfig        `yaml:"redis"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	JWTSecret      string             `yaml:"jwt_secret"`
	Timezone       string             `yaml:"timezone"`
	Admin          AdminConfig        `yaml:"admin"`
	Registration   RegistrationConfig `yaml:"registration"`
	Storage        StorageConfig      `yaml:"storage"`
}

type DatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type RuntimePathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

// AdminConfig describes the dashboard account created on first start.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type RegistrationConfig struct {
	DefaultWhatsAppNumber string `yaml:"default_whatsapp_number"`
}

type StorageConfig struct {
	UploadMaxMB int      `yaml:"upload_max_mb"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicBaseURL   string `yaml:"public_base_url"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
}

// Enabled reports whether enough of the S3 section is filled to upload.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Region != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

type rawAppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"`
	SiteURL        string             `yaml:"site_url"`
	Database       rawDatabaseConfig  `yaml:"database"`
	Redis          rawRedisConfig     `yaml:"redis"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	JWTSecret      string             `yaml:"jwt_secret"`
	Timezone       string             `yaml:"timezone"`
	Admin          AdminConfig        `yaml:"admin"`
	Registration   RegistrationConfig `yaml:"registration"`
	Storage        StorageConfig      `yaml:"storage"`
}

type rawDatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

// Load reads and validates the YAML config at configPath.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content on top of the defaults. Unknown keys are rejected.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}

	applyRawAppConfig(&cfg, raw)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return nil, fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	if cfg.Storage.UploadMaxMB < 1 {
		return nil, fmt.Errorf("invalid storage.upload_max_mb %d, expected >= 1", cfg.Storage.UploadMaxMB)
	}
	if (cfg.Admin.Email == "") != (cfg.Admin.Password == "") {
		return nil, fmt.Errorf("admin.email and admin.password must be set together")
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:    defaultPort,
		Env:     defaultEnv,
		SiteURL: defaultSiteURL,
		Database: DatabaseConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Registration: RegistrationConfig{
			DefaultWhatsAppNumber: DefaultWhatsAppNumber,
		},
		Storage: StorageConfig{
			UploadMaxMB: defaultUploadMB,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Env = normalizeEnv(raw.Env)
	if u := strings.TrimRight(strings.TrimSpace(raw.SiteURL), "/"); u != "" {
		cfg.SiteURL = u
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw.Database)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw.Redis)
	cfg.Paths = normalizeRuntimePaths(raw.Paths)
	cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	cfg.JWTSecret = strings.TrimSpace(raw.JWTSecret)
	cfg.Timezone = strings.TrimSpace(raw.Timezone)
	cfg.Admin = normalizeAdmin(raw.Admin)
	if n := strings.TrimSpace(raw.Registration.DefaultWhatsAppNumber); n != "" {
		cfg.Registration.DefaultWhatsAppNumber = n
	}
	if raw.Storage.UploadMaxMB != 0 {
		cfg.Storage.UploadMaxMB = raw.Storage.UploadMaxMB
	}
	cfg.Storage.S3 = normalizeS3Config(raw.Storage.S3)
}

func applyRawDatabaseConfig(current DatabaseConfig, raw rawDatabaseConfig) DatabaseConfig {
	if raw.DSN != "" {
		current.DSN = raw.DSN
	}
	if raw.Host != "" {
		current.Host = raw.Host
	}
	if raw.Port != 0 {
		current.Port = raw.Port
	}
	if raw.User != "" {
		current.User = raw.User
	}
	if raw.Password != "" {
		current.Password = raw.Password
	}
	if raw.Name != "" {
		current.Name = raw.Name
	}
	if raw.Charset != "" {
		current.Charset = raw.Charset
	}
	if raw.ParseTime != nil {
		current.ParseTime = *raw.ParseTime
	}
	if raw.Loc != "" {
		current.Loc = raw.Loc
	}
	if raw.Params != nil {
		current.Params = raw.Params
	}
	return normalizeDatabaseConfig(current)
}

func applyRawRedisConfig(current RedisConfig, raw rawRedisConfig) RedisConfig {
	if raw.URL != "" {
		current.URL = raw.URL
	}
	if raw.Host != "" {
		current.Host = raw.Host
	}
	if raw.Port != 0 {
		current.Port = raw.Port
	}
	if raw.Username != "" {
		current.Username = raw.Username
	}
	if raw.Password != "" {
		current.Password = raw.Password
	}
	if raw.DB != nil {
		current.DB = *raw.DB
	}
	if raw.TLS != nil {
		current.TLS = *raw.TLS
	}
	return normalizeRedisConfig(current)
}

func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// LogDir returns the absolute directory for native log files.
func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

// StaticDir returns the absolute directory for locally stored uploads.
func (c *AppConfig) StaticDir() string {
	return ResolveRuntimePath(c.Paths.Static, "static")
}

// WhatsAppFallbackNumber is the number used when the settings table has none.
func (c *AppConfig) WhatsAppFallbackNumber() string {
	if n := strings.TrimSpace(c.Registration.DefaultWhatsAppNumber); n != "" {
		return n
	}
	return DefaultWhatsAppNumber
}
