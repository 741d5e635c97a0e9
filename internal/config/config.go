package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Gateway   GatewayConfig
	Pages     PagesConfig
	API       APIConfig
	Reconcile ReconcileConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// GatewayConfig holds the Notch Pay credentials. Mode selects which
// public key is presented as the Authorization header.
type GatewayConfig struct {
	Mode          string // "test" or "live"
	TestPublicKey string
	LivePublicKey string
	BaseURL       string
	PluginName    string
	Currency      string
}

// PublicKey returns the key matching the configured mode.
func (g *GatewayConfig) PublicKey() string {
	if g.Mode == "live" {
		return g.LivePublicKey
	}
	return g.TestPublicKey
}

// PagesConfig holds the donor-facing redirect targets and the public
// base URL the gateway calls back to.
type PagesConfig struct {
	PublicURL   string
	CheckoutURL string
	SuccessURL  string
	FailureURL  string
}

type APIConfig struct {
	Key string
}

// ReconcileConfig controls the optional stale-pending reconciler.
type ReconcileConfig struct {
	Enabled   bool
	Schedule  string
	MinAge    time.Duration
	BatchSize int
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("NOTCHPAY_MODE", "test")
	viper.SetDefault("NOTCHPAY_BASE_URL", "https://api.notchpay.co")
	viper.SetDefault("NOTCHPAY_PLUGIN_NAME", "give")
	viper.SetDefault("GIVE_CURRENCY", "XAF")
	viper.SetDefault("RECONCILE_ENABLED", false)
	viper.SetDefault("RECONCILE_SCHEDULE", "0 */15 * * * *")
	viper.SetDefault("RECONCILE_MIN_AGE", "1h")
	viper.SetDefault("RECONCILE_BATCH_SIZE", 100)

	minAge, err := time.ParseDuration(viper.GetString("RECONCILE_MIN_AGE"))
	if err != nil {
		minAge = time.Hour
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Gateway: GatewayConfig{
			Mode:          viper.GetString("NOTCHPAY_MODE"),
			TestPublicKey: viper.GetString("NOTCHPAY_TEST_PUBLIC_KEY"),
			LivePublicKey: viper.GetString("NOTCHPAY_LIVE_PUBLIC_KEY"),
			BaseURL:       viper.GetString("NOTCHPAY_BASE_URL"),
			PluginName:    viper.GetString("NOTCHPAY_PLUGIN_NAME"),
			Currency:      viper.GetString("GIVE_CURRENCY"),
		},
		Pages: PagesConfig{
			PublicURL:   viper.GetString("PUBLIC_URL"),
			CheckoutURL: viper.GetString("CHECKOUT_URL"),
			SuccessURL:  viper.GetString("SUCCESS_URL"),
			FailureURL:  viper.GetString("FAILURE_URL"),
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
		Reconcile: ReconcileConfig{
			Enabled:   viper.GetBool("RECONCILE_ENABLED"),
			Schedule:  viper.GetString("RECONCILE_SCHEDULE"),
			MinAge:    minAge,
			BatchSize: viper.GetInt("RECONCILE_BATCH_SIZE"),
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Gateway.PublicKey() == "" {
		log.Println("WARNING: Notch Pay public key for mode " + cfg.Gateway.Mode + " is not set")
	}
	if cfg.Pages.PublicURL == "" {
		log.Println("WARNING: PUBLIC_URL is not set, callback URLs will be relative")
	}

	return cfg, nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
