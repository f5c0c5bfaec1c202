package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cfg := &Config{Store: " Memory ", Port: ":9090", RequestTimeout: time.Second}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())

	cfg = &Config{Store: "mongo", RequestTimeout: time.Second}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Store: StorePostgres}
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@localhost/carmod"}
	dsn, err := cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost/carmod", dsn)

	cfg = &Config{DBHost: "db", DBPort: "5432", DBUser: "carmod", DBPassword: "secret", DBName: "carmod", DBSSLMode: "disable"}
	dsn, err = cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=carmod password=secret dbname=carmod sslmode=disable", dsn)

	_, err = (&Config{DBHost: "db"}).DSN()
	assert.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORE", "memory")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.CompatibilityCacheTTL)
	assert.True(t, cfg.IsProduction())
}
