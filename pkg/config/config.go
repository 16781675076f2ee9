package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Platform PlatformConfig
	Sync     SyncConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT para la superficie de control (/api/sync).
// Los tokens se emiten fuera de este servicio; aquí solo se validan.
type JWTConfig struct {
	Secret string
	Issuer string
}

// PlatformConfig acceso a la API Admin de la plataforma de comercio
// (catálogo, niveles de inventario por ubicación y metafields).
type PlatformConfig struct {
	BaseURL       string // ej. https://mi-tienda.plataforma.com
	AdminToken    string // token de acceso a la API Admin
	WebhookSecret string // secreto compartido para verificar el HMAC de webhooks (vacío = no verificar)
	MaxRetries    int    // reintentos ante 429/5xx
}

// SyncConfig parámetros de la sincronización masiva.
type SyncConfig struct {
	BatchSize   int           // artículos por página (default 50)
	Concurrency int           // operaciones en vuelo por lote (default 5)
	BatchDelay  time.Duration // pausa entre lotes para no saturar la API (default 1s)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, PLATFORM_BASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno (Viper las lee automáticamente si AutomaticEnv está activo)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "stocksync"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "stocksync"),
		},
		Platform: PlatformConfig{
			BaseURL:       getString(v, "PLATFORM_BASE_URL", ""),
			AdminToken:    getString(v, "PLATFORM_ADMIN_TOKEN", ""),
			WebhookSecret: getString(v, "PLATFORM_WEBHOOK_SECRET", ""),
			MaxRetries:    getInt(v, "PLATFORM_MAX_RETRIES", 3),
		},
		Sync: SyncConfig{
			BatchSize:   getInt(v, "SYNC_BATCH_SIZE", 50),
			Concurrency: getInt(v, "SYNC_CONCURRENCY", 5),
			BatchDelay:  time.Duration(getInt(v, "SYNC_BATCH_DELAY_MS", 1000)) * time.Millisecond,
		},
	}

	if cfg.Platform.BaseURL != "" && !strings.HasPrefix(cfg.Platform.BaseURL, "http") {
		return nil, fmt.Errorf("config: PLATFORM_BASE_URL inválida: %q", cfg.Platform.BaseURL)
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
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
