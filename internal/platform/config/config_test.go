package config

import (
	"testing"
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("JWT_EXPIRY_DURATION", "8h")
	v.SetDefault("OVERDUE_SCAN_INTERVAL", "1h")
	v.SetDefault("MAX_RENEWALS", domain.DefaultMaxRenewals)
	v.SetDefault("RENEWAL_EXTENSION_DAYS", domain.DefaultRenewalExtensionDays)
	v.SetDefault("DEFAULT_LOAN_PERIOD_DAYS", domain.DefaultLoanPeriodDays)
	v.SetDefault("FINE_PER_DAY", "0.50")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, time.Hour, cfg.OverdueScanInterval)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, domain.DefaultMaxRenewals, cfg.LoanPolicy.MaxRenewals)
	assert.True(t, cfg.LoanPolicy.FinePerDay.Equal(domain.DefaultFinePerDay))
	assert.NotEmpty(t, cfg.AdminPassword)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"FINE_PER_DAY":          "1.25",
		"MAX_RENEWALS":          3,
		"CORS_ALLOWED_ORIGINS":  "https://a.example, https://b.example",
		"OVERDUE_SCAN_INTERVAL": "0",
		"STORAGE_DRIVER":        "Postgres",
		"PGSQL_URL":             "postgres://localhost/library",
	}))
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "1.25", cfg.LoanPolicy.FinePerDay.String())
	assert.Equal(t, 3, cfg.LoanPolicy.MaxRenewals)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Zero(t, cfg.OverdueScanInterval)
}

func TestFromViper_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"postgres without url", map[string]any{"STORAGE_DRIVER": StoragePostgres}},
		{"unknown driver", map[string]any{"STORAGE_DRIVER": "sqlite"}},
		{"bad fine", map[string]any{"FINE_PER_DAY": "fifty cents"}},
		{"negative fine", map[string]any{"FINE_PER_DAY": "-1"}},
		{"zero extension", map[string]any{"RENEWAL_EXTENSION_DAYS": 0}},
		{"bad scan interval", map[string]any{"OVERDUE_SCAN_INTERVAL": "often"}},
		{"production default secret", map[string]any{"IS_PRODUCTION": true, "ADMIN_PASSWORD": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			assert.Error(t, err)
		})
	}
}
