package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Shop Shop
	API  API
	Stub Stub
}

type Shop struct {
	Env               string
	Token             string
	ShippingSurcharge decimal.Decimal
}

type API struct {
	BaseURL string
	Timeout time.Duration
}

// Stub configures the local stub storefront server.
type Stub struct {
	Port     string
	Envelope bool // wrap collection listings in {"items": [...]}
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SHOP_ENV", "development")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("API_TIMEOUT_SECONDS", 10)
	viper.SetDefault("SHIPPING_SURCHARGE", "99")
	viper.SetDefault("STUB_PORT", "8080")
	viper.SetDefault("STUB_ENVELOPE", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	surcharge, err := decimal.NewFromString(viper.GetString("SHIPPING_SURCHARGE"))
	if err != nil {
		log.Printf("Warning: Invalid SHIPPING_SURCHARGE, using 99: %v", err)
		surcharge = decimal.NewFromInt(99)
	}

	return &Config{
		Shop: Shop{
			Env:               viper.GetString("SHOP_ENV"),
			Token:             viper.GetString("SHOP_TOKEN"),
			ShippingSurcharge: surcharge,
		},
		API: API{
			BaseURL: viper.GetString("API_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
		},
		Stub: Stub{
			Port:     viper.GetString("STUB_PORT"),
			Envelope: viper.GetBool("STUB_ENVELOPE"),
		},
	}
}
