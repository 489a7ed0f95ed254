package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers selectable through STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	StorageDriver  string
	DatabaseURL    string
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Librarian credentials. The password is hashed with bcrypt at startup.
	AdminUsername string
	AdminPassword string

	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"
	LoginRateLimit     string

	SeedDemoData        bool
	OverdueScanInterval time.Duration // zero disables the monitor

	LoanPolicy domain.LoanPolicy
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "8h")
	v.SetDefault("JWT_ISSUER", "library-management-app")
	v.SetDefault("ADMIN_USERNAME", "librarian")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("OVERDUE_SCAN_INTERVAL", "1h")
	v.SetDefault("MAX_RENEWALS", domain.DefaultMaxRenewals)
	v.SetDefault("RENEWAL_EXTENSION_DAYS", domain.DefaultRenewalExtensionDays)
	v.SetDefault("DEFAULT_LOAN_PERIOD_DAYS", domain.DefaultLoanPeriodDays)
	v.SetDefault("FINE_PER_DAY", domain.DefaultFinePerDay.String())

	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:    v.GetString("PGSQL_URL"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		LoginRateLimit: v.GetString("LOGIN_RATE_LIMIT"),
		SeedDemoData:   v.GetBool("SEED_DEMO_DATA"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 8 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	if cfg.AdminPassword == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
		cfg.AdminPassword = "librarian"
		log.Println("Warning: ADMIN_PASSWORD not set. Using default insecure password.")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	scanStr := v.GetString("OVERDUE_SCAN_INTERVAL")
	if scanStr != "" && scanStr != "0" {
		scanInterval, err := time.ParseDuration(scanStr)
		if err != nil || scanInterval < 0 {
			return nil, fmt.Errorf("invalid OVERDUE_SCAN_INTERVAL %q", scanStr)
		}
		cfg.OverdueScanInterval = scanInterval
	}

	finePerDay, err := decimal.NewFromString(v.GetString("FINE_PER_DAY"))
	if err != nil {
		return nil, fmt.Errorf("invalid FINE_PER_DAY: %w", err)
	}
	cfg.LoanPolicy = domain.LoanPolicy{
		MaxRenewals:           v.GetInt("MAX_RENEWALS"),
		RenewalExtensionDays:  v.GetInt("RENEWAL_EXTENSION_DAYS"),
		DefaultLoanPeriodDays: v.GetInt("DEFAULT_LOAN_PERIOD_DAYS"),
		FinePerDay:            finePerDay,
	}
	if err := cfg.LoanPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid loan policy: %w", err)
	}

	return cfg, nil
}
