package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Cookie    CookieConfig    `yaml:"cookie"`
	Redis     RedisConfig     `yaml:"redis"`
	Email     EmailConfig     `yaml:"email"`
	AI        AIConfig        `yaml:"ai"`
	Logger    LoggerConfig    `yaml:"logger"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"` // development | production | test
	FrontendURL string `yaml:"frontendUrl"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Host           string   `yaml:"host"`
	ReadTimeout    int      `yaml:"readTimeout"`  // in seconds
	WriteTimeout   int      `yaml:"writeTimeout"` // in seconds
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"` // postgres | sqlite
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	SSLMode      string `yaml:"sslmode"`
	Path         string `yaml:"path"` // sqlite file
	MaxIdleConns int    `yaml:"maxIdleConns"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
	MaxLifetime  int    `yaml:"maxLifetime"` // in minutes
}

type AuthConfig struct {
	JWTSecret        string       `yaml:"jwtSecret"`
	AccessTTLMinutes int          `yaml:"accessTtlMinutes"`
	RefreshTTLDays   int          `yaml:"refreshTtlDays"`
	ResetTTLMinutes  int          `yaml:"resetTtlMinutes"`
	SessionSecret    string       `yaml:"sessionSecret"`
	Google           OAuth2Config `yaml:"google"`
}

type OAuth2Config struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	RedirectURL  string `yaml:"redirectUrl"`
}

// CookieConfig controls the refresh-token cookie. Secure and SameSite are
// derived from the environment when left empty.
type CookieConfig struct {
	Name     string `yaml:"name"`
	Secure   *bool  `yaml:"secure"`
	SameSite string `yaml:"sameSite"`
	MaxAge   int    `yaml:"maxAge"` // in seconds, 0 means refresh TTL
}

type RedisConfig struct {
	Addr                 string `yaml:"addr"`
	Password             string `yaml:"password"`
	DB                   int    `yaml:"db"`
	MaxLoginAttempts     int    `yaml:"maxLoginAttempts"`
	LoginCooldownMinutes int    `yaml:"loginCooldownMinutes"`
}

type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AIConfig struct {
	Provider     string `yaml:"provider"`
	GeminiAPIKey string `yaml:"geminiApiKey"`
	Model        string `yaml:"model"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"outputPath"`
}

type SchedulerConfig struct {
	TokenSweepMinutes int `yaml:"tokenSweepMinutes"`
}

// Load reads the configuration file, applies environment overrides and
// defaults, and validates the result. A missing file is not an error; the
// service can run from environment variables alone.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", configPath, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.App.Env, "APP_ENV")
	setString(&c.App.FrontendURL, "FRONTEND_URL")
	setString(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.Host, "SERVER_HOST")
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Database.Path, "DB_PATH")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setInt(&c.Auth.AccessTTLMinutes, "JWT_ACCESS_EXPIRATION_MINUTES")
	setInt(&c.Auth.RefreshTTLDays, "JWT_REFRESH_EXPIRATION_DAYS")
	setInt(&c.Auth.ResetTTLMinutes, "JWT_RESET_PASSWORD_EXPIRATION_MINUTES")
	setString(&c.Auth.SessionSecret, "SESSION_SECRET")
	setString(&c.Auth.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&c.Auth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&c.Auth.Google.RedirectURL, "GOOGLE_REDIRECT_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Email.Host, "SMTP_HOST")
	setInt(&c.Email.Port, "SMTP_PORT")
	setString(&c.Email.Username, "SMTP_USERNAME")
	setString(&c.Email.Password, "SMTP_PASSWORD")
	setString(&c.Email.From, "EMAIL_FROM")
	setString(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.AI.Model, "GEMINI_MODEL")
	setString(&c.Logger.Level, "LOG_LEVEL")
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "fintrack"
	}
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.App.FrontendURL == "" {
		c.App.FrontendURL = "http://localhost:3000"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{c.App.FrontendURL}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.Path == "" {
		c.Database.Path = "fintrack.db"
	}
	if c.Auth.AccessTTLMinutes == 0 {
		c.Auth.AccessTTLMinutes = 30
	}
	if c.Auth.RefreshTTLDays == 0 {
		c.Auth.RefreshTTLDays = 10
	}
	if c.Auth.ResetTTLMinutes == 0 {
		c.Auth.ResetTTLMinutes = 15
	}
	if c.Cookie.Name == "" {
		c.Cookie.Name = "refreshToken"
	}
	if c.Cookie.Secure == nil {
		secure := c.IsProduction()
		c.Cookie.Secure = &secure
	}
	if c.Cookie.SameSite == "" {
		if c.IsProduction() {
			c.Cookie.SameSite = "None"
		} else {
			c.Cookie.SameSite = "Lax"
		}
	}
	if c.Cookie.MaxAge == 0 {
		c.Cookie.MaxAge = int(c.Auth.RefreshTTL().Seconds())
	}
	if c.Redis.MaxLoginAttempts == 0 {
		c.Redis.MaxLoginAttempts = 5
	}
	if c.Redis.LoginCooldownMinutes == 0 {
		c.Redis.LoginCooldownMinutes = 15
	}
	if c.Email.Port == 0 {
		c.Email.Port = 587
	}
	if c.Email.From == "" {
		c.Email.From = "no-reply@fintrack.local"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-1.5-flash"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Scheduler.TokenSweepMinutes == 0 {
		c.Scheduler.TokenSweepMinutes = 60
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret (JWT_SECRET) is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch strings.ToLower(c.Cookie.SameSite) {
	case "lax", "strict", "none":
	default:
		return fmt.Errorf("unsupported cookie sameSite %q", c.Cookie.SameSite)
	}
	if c.IsProduction() && strings.EqualFold(c.Cookie.SameSite, "none") && !c.Cookie.IsSecure() {
		return errors.New("cookie sameSite=None requires secure cookies")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func (c CookieConfig) IsSecure() bool {
	return c.Secure != nil && *c.Secure
}

func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTTLMinutes) * time.Minute
}

func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTTLDays) * 24 * time.Hour
}

func (a AuthConfig) ResetTTL() time.Duration {
	return time.Duration(a.ResetTTLMinutes) * time.Minute
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
