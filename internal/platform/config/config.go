package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	StorageDriver  string
	DatabaseURL    string
	SQLitePath     string
	MigrationsPath string

	JWTSecret          string
	CORSAllowedOrigins []string
	RateLimit          string

	SettlementMaxAttempts int
	LedgerApplyRetries    int
	DefaultCurrency       string
	SystemAccounts        domain.SystemAccounts

	KafkaBrokers         []string
	KafkaSettlementTopic string
	KafkaPublishTimeout  time.Duration

	OTELEndpoint    string
	OTELServiceName string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "settlement.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("SETTLEMENT_MAX_ATTEMPTS", 3)
	v.SetDefault("LEDGER_APPLY_RETRIES", 2)
	v.SetDefault("DEFAULT_CURRENCY", "USD")
	v.SetDefault("SYSTEM_WALLET_ACCOUNT_ID", "system-wallet")
	v.SetDefault("SYSTEM_SALES_CLEARING_ACCOUNT_ID", "system-sales-clearing")
	v.SetDefault("SYSTEM_COMMISSION_ACCOUNT_ID", "system-commission-revenue")
	v.SetDefault("SYSTEM_DEPOSIT_ACCOUNT_ID", "system-agent-deposits")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_SETTLEMENT_TOPIC", "settlement_posted")
	v.SetDefault("KAFKA_PUBLISH_TIMEOUT", "2s")
	v.SetDefault("OTEL_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "travel-settlement")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:    v.GetString("PGSQL_URL"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),

		JWTSecret:          v.GetString("JWT_SECRET"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:          v.GetString("RATE_LIMIT"),

		SettlementMaxAttempts: v.GetInt("SETTLEMENT_MAX_ATTEMPTS"),
		LedgerApplyRetries:    v.GetInt("LEDGER_APPLY_RETRIES"),
		DefaultCurrency:       strings.ToUpper(v.GetString("DEFAULT_CURRENCY")),
		SystemAccounts: domain.SystemAccounts{
			WalletAccountID:        v.GetString("SYSTEM_WALLET_ACCOUNT_ID"),
			SalesClearingAccountID: v.GetString("SYSTEM_SALES_CLEARING_ACCOUNT_ID"),
			CommissionAccountID:    v.GetString("SYSTEM_COMMISSION_ACCOUNT_ID"),
			DepositAccountID:       v.GetString("SYSTEM_DEPOSIT_ACCOUNT_ID"),
		},

		KafkaBrokers:         splitList(v.GetString("KAFKA_BROKERS")),
		KafkaSettlementTopic: v.GetString("KAFKA_SETTLEMENT_TOPIC"),
		KafkaPublishTimeout:  v.GetDuration("KAFKA_PUBLISH_TIMEOUT"),

		OTELEndpoint:    v.GetString("OTEL_ENDPOINT"),
		OTELServiceName: v.GetString("OTEL_SERVICE_NAME"),
	}

	switch cfg.StorageDriver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %s", StoragePostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.SettlementMaxAttempts < 1 {
		return nil, fmt.Errorf("SETTLEMENT_MAX_ATTEMPTS must be at least 1, got %d", cfg.SettlementMaxAttempts)
	}
	if cfg.LedgerApplyRetries < 0 {
		return nil, fmt.Errorf("LEDGER_APPLY_RETRIES must not be negative, got %d", cfg.LedgerApplyRetries)
	}

	if cfg.KafkaPublishTimeout <= 0 {
		return nil, fmt.Errorf("KAFKA_PUBLISH_TIMEOUT must be positive, got %s", cfg.KafkaPublishTimeout)
	}
	if err := cfg.SystemAccounts.Validate(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == insecureJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: KAFKA_BROKERS not set. Settlement notifications will not be published.")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
