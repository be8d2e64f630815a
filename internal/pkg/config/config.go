package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`

	Stripe         StripeConfig         `mapstructure:"stripe"`
	MercadoPago    MercadoPagoConfig    `mapstructure:"mercadopago"`
	Cora           CoraConfig           `mapstructure:"cora"`
	Asaas          AsaasConfig          `mapstructure:"asaas"`
	DigitalManager DigitalManagerConfig `mapstructure:"digitalmanager"`
	Bling          BlingConfig          `mapstructure:"bling"`
	SendGrid       SendGridConfig       `mapstructure:"sendgrid"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // hours
}

type AppConfig struct {
	Env         string `mapstructure:"env"`
	Debug       bool   `mapstructure:"debug"`
	StoreName   string `mapstructure:"store_name"`
	FrontendURL string `mapstructure:"frontend_url"` // checkout success/failure redirects
	PublicURL   string `mapstructure:"public_url"`   // webhook callback base
}

// Payment providers. Each section is optional; an adapter is registered only
// when its credentials are present.

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type MercadoPagoConfig struct {
	AccessToken string `mapstructure:"access_token"`
}

type CoraConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type AsaasConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type DigitalManagerConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIToken  string `mapstructure:"api_token"`
	ProductID string `mapstructure:"product_id"`
}

type BlingConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BaseURL      string `mapstructure:"base_url"`
	TokenURL     string `mapstructure:"token_url"`
}

type SendGridConfig struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

// GlobalConfig is populated once by LoadConfig before modules initialize.
var GlobalConfig Config

// Validate checks the non-optional parts of the configuration.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "change_me" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	return nil
}

// LoadConfig reads the YAML config plus environment overrides into GlobalConfig.
func LoadConfig() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("jwt.expire", 720)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.store_name", "Balão da Informática")
	viper.SetDefault("cora.base_url", "https://matls-clients.api.cora.com.br")
	viper.SetDefault("asaas.base_url", "https://api.asaas.com")
	viper.SetDefault("bling.base_url", "https://www.bling.com.br/Api/v3")
	viper.SetDefault("bling.token_url", "https://www.bling.com.br/Api/v3/oauth/token")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	// Explicit env overrides for the values viper cannot map reliably.
	if host := os.Getenv("DB_HOST"); host != "" {
		GlobalConfig.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		GlobalConfig.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		GlobalConfig.JWT.Secret = jwtSecret
	}
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		GlobalConfig.Stripe.SecretKey = key
	}
	if token := os.Getenv("MERCADOPAGO_ACCESS_TOKEN"); token != "" {
		GlobalConfig.MercadoPago.AccessToken = token
	}
	if key := os.Getenv("ASAAS_API_KEY"); key != "" {
		GlobalConfig.Asaas.APIKey = key
	}
	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		GlobalConfig.SendGrid.APIKey = key
	}

	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
