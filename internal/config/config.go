package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	API       APIConfig
	Session   SessionConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// APIConfig describes the back-office API the desk is a client of
type APIConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

type SessionConfig struct {
	TokenPath string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// PrinterConfig describes the receipt printer on the till
type PrinterConfig struct {
	Type         string // usb, network or none
	USBPath      string
	Address      string
	Width        int
	StoreName    string
	StoreAddress string
	StorePhone   string
}

func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	// Set defaults
	v.SetDefault("APP_NAME", "investify-desk")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "4300")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("API_BASE_URL", "http://localhost:4203/api")
	v.SetDefault("API_TIMEOUT_SECONDS", 15)
	v.SetDefault("API_REQUESTS_PER_SECOND", 20)
	v.SetDefault("API_BURST", 40)
	v.SetDefault("SESSION_TOKEN_PATH", "./storage/session.json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_WIDTH", 32)
	v.SetDefault("RECEIPT_STORE_NAME", "Investify Store")

	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		API: APIConfig{
			BaseURL:           v.GetString("API_BASE_URL"),
			Timeout:           time.Duration(v.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
			RequestsPerSecond: v.GetFloat64("API_REQUESTS_PER_SECOND"),
			Burst:             v.GetInt("API_BURST"),
		},
		Session: SessionConfig{
			TokenPath: v.GetString("SESSION_TOKEN_PATH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:         v.GetString("PRINTER_TYPE"),
			USBPath:      v.GetString("PRINTER_USB_PATH"),
			Address:      v.GetString("PRINTER_ADDRESS"),
			Width:        v.GetInt("PRINTER_WIDTH"),
			StoreName:    v.GetString("RECEIPT_STORE_NAME"),
			StoreAddress: v.GetString("RECEIPT_STORE_ADDRESS"),
			StorePhone:   v.GetString("RECEIPT_STORE_PHONE"),
		},
	}
}
