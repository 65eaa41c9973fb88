package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // STATS_TIMEZONE no depende del tzdata del sistema

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	Store StoreConfig
	Stats StatsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL (store primario).
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
// Sin DatabaseURL ni Host, o con Enabled=false, el servicio corre solo con el store en memoria.
type DBConfig struct {
	Enabled        bool
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int32
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration // cota de cada operación contra el primario
}

// Configured indica si hay datos suficientes para intentar conectar al primario.
func (c DBConfig) Configured() bool {
	return c.Enabled && (c.DatabaseURL != "" || c.Host != "")
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

// JWTConfig configuración de los tokens de acceso.
type JWTConfig struct {
	Secret string
	TTL    time.Duration // 30 días por defecto
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	StaticDir   string // vacío = no servir archivos estáticos
	SwaggerFile string // vacío = sin /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig comportamiento del enrutamiento primario/fallback.
type StoreConfig struct {
	// ProbeInterval espacio mínimo entre reintentos al primario mientras está caído.
	// 0 = reintentar en cada operación.
	ProbeInterval time.Duration
}

// StatsConfig ventanas del agregador de estadísticas.
type StatsConfig struct {
	WeekStart time.Weekday
	Location  *time.Location
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATABASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env en el directorio actual
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración a partir de una instancia de Viper ya cargada.
func FromViper(v *viper.Viper) (*Config, error) {
	weekStart, err := ParseWeekday(getString(v, "STATS_WEEK_START", "sunday"))
	if err != nil {
		return nil, err
	}
	tzName := getString(v, "STATS_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("STATS_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "clocwise"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Enabled:        getBool(v, "DB_ENABLED", true),
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", ""),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "clocwise"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MaxConns:       int32(getInt(v, "DB_MAX_CONNS", 10)),
			ConnectTimeout: getDuration(v, "DB_CONNECT_TIMEOUT", 2*time.Second),
			QueryTimeout:   getDuration(v, "DB_QUERY_TIMEOUT", 3*time.Second),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			TTL:    getDuration(v, "JWT_TTL", 30*24*time.Hour),
			Issuer: getString(v, "JWT_ISSUER", "clocwise"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", getInt(v, "PORT", 5000)),
			StaticDir:   getString(v, "HTTP_STATIC_DIR", "public"),
			SwaggerFile: getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		Store: StoreConfig{
			ProbeInterval: getDuration(v, "STORE_PROBE_INTERVAL", 5*time.Second),
		},
		Stats: StatsConfig{
			WeekStart: weekStart,
			Location:  loc,
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones inválidas de configuración.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" && c.App.Env == "production" {
		return fmt.Errorf("JWT_SECRET es obligatorio en production")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL debe ser positivo")
	}
	if c.DB.QueryTimeout <= 0 || c.DB.ConnectTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT y DB_CONNECT_TIMEOUT deben ser positivos")
	}
	if c.Store.ProbeInterval < 0 {
		return fmt.Errorf("STORE_PROBE_INTERVAL no puede ser negativo")
	}
	return nil
}

// ParseWeekday interpreta el nombre de un día de la semana (en inglés o español).
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "domingo":
		return time.Sunday, nil
	case "monday", "lunes":
		return time.Monday, nil
	case "tuesday", "martes":
		return time.Tuesday, nil
	case "wednesday", "miercoles", "miércoles":
		return time.Wednesday, nil
	case "thursday", "jueves":
		return time.Thursday, nil
	case "friday", "viernes":
		return time.Friday, nil
	case "saturday", "sabado", "sábado":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("STATS_WEEK_START inválido: %q", s)
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		return v.GetDuration(key)
	}
	return def
}
