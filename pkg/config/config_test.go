package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoreDriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.Equal(t, 24*60, cfg.JWT.RefreshExpiration)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.CORS.AllowAll, "en development se permiten todos los orígenes")
	assert.Len(t, cfg.CORS.AllowedOrigins, 3)
	assert.Equal(t, 0, cfg.Cart.SessionTTLHours)
}

func TestFromViper_ValoresComoString(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("DB_PORT", "6543")
	v.Set("DB_AUTO_MIGRATE", "true")
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	v.Set("ACCESS_POLICY", "ventas.eliminar=admin|staff")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, StoreDriverMemory, cfg.DB.Driver)
	assert.False(t, cfg.CORS.AllowAll)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "ventas.eliminar=admin|staff", cfg.Access.Policy)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "sqlite")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "tikno", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/tikno?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
