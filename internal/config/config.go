package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	OAuth2Google OAuth2GoogleConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Escalation   EscalationConfig
	OTP          OTPConfig
	RateLimit    RateLimitConfig
	Employee     EmployeeConfig
}

// DatabaseConfig describes the physical PostgreSQL database. The HR/admin and
// timesheet databases are separate schemas inside it.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	AdminSchema     string
	TimesheetSchema string
	MaxConns        int32
	MinConns        int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
	Timezone       string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	FromName     string
	AdminMailbox string
	MaxAttempts  int
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type EscalationConfig struct {
	Enabled       bool
	RunHour       int
	RunMinute     int
	CheckInterval time.Duration
	SystemActor   string
	Reason        string
}

type OTPConfig struct {
	Length int
	TTL    time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type EmployeeConfig struct {
	IDPrefix string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "dtime"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		AdminSchema:     getEnv("DB_ADMIN_SCHEMA", "dadmin"),
		TimesheetSchema: getEnv("DB_TIMESHEET_SCHEMA", "dtime"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 4003)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "dtime-backend"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	smtpAttempts, err := getEnvInt("SMTP_MAX_ATTEMPTS", 1)
	if err != nil {
		return nil, err
	}
	config.SMTP = SMTPConfig{
		Host:         getEnv("SMTP_HOST", ""),
		Port:         smtpPort,
		Username:     getEnv("SMTP_USERNAME", ""),
		Password:     getEnv("SMTP_PASSWORD", ""),
		From:         getEnv("SMTP_FROM", "no-reply@dolluzcorp.in"),
		FromName:     getEnv("SMTP_FROM_NAME", "dTime"),
		AdminMailbox: getEnv("SMTP_ADMIN_MAILBOX", "admin@dolluzcorp.in"),
		MaxAttempts:  smtpAttempts,
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:4003/uploads"),
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	config.Kafka = KafkaConfig{
		Brokers: getEnvSlice("KAFKA_BROKERS"),
		Topic:   getEnv("KAFKA_LEAVE_TOPIC", "dtime.leave.events"),
	}

	runHour, err := getEnvInt("ESCALATION_RUN_HOUR", 12)
	if err != nil {
		return nil, err
	}
	runMinute, err := getEnvInt("ESCALATION_RUN_MINUTE", 0)
	if err != nil {
		return nil, err
	}
	checkInterval, err := getEnvDuration("ESCALATION_CHECK_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	enabled, err := getEnvBool("ESCALATION_ENABLED", true)
	if err != nil {
		return nil, err
	}
	config.Escalation = EscalationConfig{
		Enabled:       enabled,
		RunHour:       runHour,
		RunMinute:     runMinute,
		CheckInterval: checkInterval,
		SystemActor:   getEnv("ESCALATION_SYSTEM_ACTOR", "dAssist-2025-00001"),
		Reason:        getEnv("ESCALATION_REASON", "Expired request auto updated"),
	}

	otpLength, err := getEnvInt("OTP_LENGTH", 6)
	if err != nil {
		return nil, err
	}
	otpTTL, err := getEnvDuration("OTP_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	config.OTP = OTPConfig{Length: otpLength, TTL: otpTTL}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 5)
	if err != nil {
		return nil, err
	}
	config.RateLimit = RateLimitConfig{RequestsPerSecond: rps, Burst: burst}

	config.Employee = EmployeeConfig{
		IDPrefix: getEnv("EMPLOYEE_ID_PREFIX", "dolluzcorp"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.Database.AdminSchema == c.Database.TimesheetSchema {
		return errors.New("DB_ADMIN_SCHEMA and DB_TIMESHEET_SCHEMA must differ")
	}
	if c.Escalation.RunHour < 0 || c.Escalation.RunHour > 23 {
		return errors.New("ESCALATION_RUN_HOUR must be between 0 and 23")
	}
	if c.Escalation.RunMinute < 0 || c.Escalation.RunMinute > 59 {
		return errors.New("ESCALATION_RUN_MINUTE must be between 0 and 59")
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return errors.New("OTP_LENGTH must be between 4 and 10")
	}
	if c.OAuth2Google.ClientID != "" && c.OAuth2Google.RedirectURL == "" {
		return errors.New("REDIRECT_URL is required when CLIENT_ID is set")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the timezone used for wall-clock schedules and day counting.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
