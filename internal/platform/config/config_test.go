package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for key, value := range overrides {
		v.Set(key, value)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 3, cfg.SettlementMaxAttempts)
	assert.Equal(t, 2, cfg.LedgerApplyRetries)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, "system-wallet", cfg.SystemAccounts.WalletAccountID)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.KafkaPublishTimeout)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"STORAGE_DRIVER":   "Postgres",
		"PGSQL_URL":        "postgres://localhost/settlement",
		"KAFKA_BROKERS":    "k1:9092, k2:9092,",
		"DEFAULT_CURRENCY": "eur",
	}))
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
}

func TestFromViper_Rejects(t *testing.T) {
	cases := map[string]map[string]any{
		"postgres without url":   {"STORAGE_DRIVER": "postgres"},
		"unknown driver":         {"STORAGE_DRIVER": "mongo"},
		"zero attempts":          {"SETTLEMENT_MAX_ATTEMPTS": 0},
		"negative retries":       {"LEDGER_APPLY_RETRIES": -1},
		"shared system account":  {"SYSTEM_COMMISSION_ACCOUNT_ID": "system-wallet"},
		"empty system account":   {"SYSTEM_DEPOSIT_ACCOUNT_ID": ""},
		"default secret in prod": {"IS_PRODUCTION": true},
		"zero publish timeout":   {"KAFKA_PUBLISH_TIMEOUT": "0s"},
	}
	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fromViper(newTestViper(overrides))
			assert.Error(t, err)
		})
	}
}

func TestFromViper_SharedSystemAccountNamesBothRoles(t *testing.T) {
	_, err := fromViper(newTestViper(map[string]any{"SYSTEM_DEPOSIT_ACCOUNT_ID": "system-wallet"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"system-wallet"`)
	assert.Contains(t, err.Error(), "DEPOSIT_EQUITY")
}
