package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Reminder  ReminderConfig
	Booking   BookingConfig
	Admin     AdminConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port        string
	Env         string
	Timezone    string
	BaseURL     string
	CORSOrigins []string
}

// IsDevelopment reports whether outbound side effects should be logged instead of performed.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Location resolves the clinic time zone, falling back to UTC when unknown.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type ReminderConfig struct {
	DispatchEnabled bool
	DispatchCron    string
	LeadTime        time.Duration
	MaxAttempts     int
	BackoffBase     time.Duration
	BackoffMax      time.Duration
	BatchSize       int
	Concurrency     int
	StaleAfter      time.Duration
	RunTimeout      time.Duration
	LockTTL         time.Duration
}

type BookingConfig struct {
	DefaultLocation string
	RevenuePerVisit decimal.Decimal
}

type AdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AssistantConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_TIMEZONE", "Europe/Rome")
	viper.SetDefault("APP_BASE_URL", "http://localhost:5173")

	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_AUTO_MIGRATE", true)

	viper.SetDefault("REDIS_PORT", "6379")

	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM", `"Centro Medico Plus" <noreply@centromedicoplus.it>`)

	viper.SetDefault("REMINDER_DISPATCH_ENABLED", true)
	viper.SetDefault("REMINDER_DISPATCH_CRON", "@hourly")
	viper.SetDefault("REMINDER_MAX_ATTEMPTS", 5)
	viper.SetDefault("REMINDER_BATCH_SIZE", 500)
	viper.SetDefault("REMINDER_CONCURRENCY", 0)

	viper.SetDefault("BOOKING_DEFAULT_LOCATION", "Studio 1")
	viper.SetDefault("REVENUE_PER_VISIT", "100")

	viper.SetDefault("ADMIN_FIRST_NAME", "Admin")
	viper.SetDefault("ADMIN_LAST_NAME", "Centro Medico")

	viper.SetDefault("ASSISTANT_BASE_URL", "https://openrouter.ai/api/v1")
	viper.SetDefault("ASSISTANT_MODEL", "mistral/mistral-7b-instruct")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine in containers where everything comes from the environment.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	revenuePerVisit, err := decimal.NewFromString(viper.GetString("REVENUE_PER_VISIT"))
	if err != nil {
		revenuePerVisit = decimal.NewFromInt(100)
	}

	config := &Config{
		App: AppConfig{
			Port:        viper.GetString("APP_PORT"),
			Env:         viper.GetString("APP_ENV"),
			Timezone:    viper.GetString("APP_TIMEZONE"),
			BaseURL:     viper.GetString("APP_BASE_URL"),
			CORSOrigins: splitList(viper.GetString("APP_CORS_ORIGINS")),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: durationOr("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Reminder: ReminderConfig{
			DispatchEnabled: viper.GetBool("REMINDER_DISPATCH_ENABLED"),
			DispatchCron:    viper.GetString("REMINDER_DISPATCH_CRON"),
			LeadTime:        durationOr("REMINDER_LEAD_TIME", 24*time.Hour),
			MaxAttempts:     viper.GetInt("REMINDER_MAX_ATTEMPTS"),
			BackoffBase:     durationOr("REMINDER_BACKOFF_BASE", time.Hour),
			BackoffMax:      durationOr("REMINDER_BACKOFF_MAX", 24*time.Hour),
			BatchSize:       viper.GetInt("REMINDER_BATCH_SIZE"),
			Concurrency:     viper.GetInt("REMINDER_CONCURRENCY"),
			StaleAfter:      durationOr("REMINDER_STALE_AFTER", 15*time.Minute),
			RunTimeout:      durationOr("REMINDER_RUN_TIMEOUT", 10*time.Minute),
			LockTTL:         durationOr("REMINDER_LOCK_TTL", 15*time.Minute),
		},
		Booking: BookingConfig{
			DefaultLocation: viper.GetString("BOOKING_DEFAULT_LOCATION"),
			RevenuePerVisit: revenuePerVisit,
		},
		Admin: AdminConfig{
			Email:     viper.GetString("ADMIN_EMAIL"),
			Password:  viper.GetString("ADMIN_PASSWORD"),
			FirstName: viper.GetString("ADMIN_FIRST_NAME"),
			LastName:  viper.GetString("ADMIN_LAST_NAME"),
		},
		Assistant: AssistantConfig{
			APIKey:  viper.GetString("ASSISTANT_API_KEY"),
			BaseURL: viper.GetString("ASSISTANT_BASE_URL"),
			Model:   viper.GetString("ASSISTANT_MODEL"),
			Timeout: durationOr("ASSISTANT_TIMEOUT", 20*time.Second),
		},
	}

	return config, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// splitList parses a comma separated env value
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
