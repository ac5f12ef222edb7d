package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	CORS   CORSConfig
	Log    LogConfig
	Cart   CartConfig
	Access AccessConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// Drivers de almacenamiento soportados.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	Driver      string // postgres | memory (memory solo para desarrollo y demos)
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT (access + refresh).
type JWTConfig struct {
	Secret            string
	Expiration        int // minutos del access token
	RefreshExpiration int // minutos del refresh token
	Issuer            string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DocsPath     string // ruta al swagger.json servido en /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CORSConfig orígenes permitidos para el frontend.
type CORSConfig struct {
	AllowAll         bool
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           int // segundos
}

// LogConfig nivel y archivo opcional (rotado con lumberjack).
type LogConfig struct {
	Level string
	File  string
}

// CartConfig parámetros del carrito.
// SessionTTLHours = 0 desactiva la limpieza de carritos anónimos.
type CartConfig struct {
	SessionTTLHours int
	JanitorSpec     string // expresión cron
}

// AccessConfig política de acceso: operación -> roles.
// Formato: "ventas.eliminar=admin|staff;productos.crear=admin|staff".
type AccessConfig struct {
	Policy string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	env := getString(v, "APP_ENV", "development")
	cfg := &Config{
		App: AppConfig{
			Env:  env,
			Name: getString(v, "APP_NAME", "tikno-erp"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "STORE_DRIVER", StoreDriverPostgres)),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "tikno"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:            getString(v, "JWT_SECRET", ""),
			Expiration:        getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			RefreshExpiration: getInt(v, "JWT_REFRESH_EXPIRATION_MINUTES", 24*60),
			Issuer:            getString(v, "JWT_ISSUER", "tikno-erp"),
		},
		HTTP: HTTPConfig{
			Host:         getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:         getInt(v, "HTTP_PORT", 8080),
			ReadTimeout:  time.Duration(getInt(v, "HTTP_READ_TIMEOUT_SECONDS", 10)) * time.Second,
			WriteTimeout: time.Duration(getInt(v, "HTTP_WRITE_TIMEOUT_SECONDS", 10)) * time.Second,
			DocsPath:     getString(v, "HTTP_DOCS_PATH", "./docs/swagger.json"),
		},
		CORS: CORSConfig{
			AllowAll:         getBool(v, "CORS_ALLOW_ALL_ORIGINS", env == "development"),
			AllowedOrigins:   splitList(getString(v, "CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174,http://127.0.0.1:5173")),
			AllowCredentials: getBool(v, "CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getInt(v, "CORS_PREFLIGHT_MAX_AGE", 86400),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
			File:  getString(v, "LOG_FILE", ""),
		},
		Cart: CartConfig{
			SessionTTLHours: getInt(v, "CART_SESSION_TTL_HOURS", 0),
			JanitorSpec:     getString(v, "CART_JANITOR_SPEC", "@hourly"),
		},
		Access: AccessConfig{
			Policy: getString(v, "ACCESS_POLICY", ""),
		},
	}

	switch cfg.DB.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("config: STORE_DRIVER inválido %q", cfg.DB.Driver)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	n, err := cast.ToIntE(strings.TrimSpace(cast.ToString(v.Get(key))))
	if err != nil {
		return def
	}
	return n
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := cast.ToBoolE(v.Get(key))
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
