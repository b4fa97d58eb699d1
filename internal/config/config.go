package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Cache
	Workers
	Server
	Versapay
	Checkout
	Orders

	LogLevel string `validate:"oneof=debug info warn error"`
}

type Cache struct {
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	Password string
}

type Workers struct {
	CompletionCount      int `validate:"gt=0"`
	CompletionBufferSize int `validate:"gt=0"`
	CompletionBackoff    time.Duration
}

type Server struct {
	Port            string `validate:"required"`
	ShutdownTimeout time.Duration
}

type Versapay struct {
	Subdomain string
	// BaseURL overrides the host derived from Subdomain.
	BaseURL  string `validate:"omitempty,url"`
	APIToken string
	APIKey   string
	Timeout  time.Duration `validate:"gt=0"`

	CCEnabled                  bool
	ACHEnabled                 bool
	GCEnabled                  bool
	AVSRules                   []string `validate:"dive,oneof=rejectAddressMismatch rejectPostCodeMismatch rejectUnknown"`
	SavePaymentMethodByDefault bool
	CCSettlementToken          string
	ACHSettlementToken         string

	ApplePayMerchantIdentifier string
	ApplePayDisplayName        string
	ApplePayInitiativeContext  string
}

type Checkout struct {
	GatewayID   string        `validate:"required"`
	Strategy    string        `validate:"oneof=render on_demand"`
	NonceSecret string        `validate:"required"`
	NonceTTL    time.Duration `validate:"gt=0"`
	SlotTTL     time.Duration `validate:"gt=0"`
	CookieName  string        `validate:"required"`
}

type Orders struct {
	Store         string `validate:"oneof=redis mongo"`
	MongoURI      string `validate:"required_if=Store mongo"`
	MongoDatabase string
}

// defaultNonceSecret is only acceptable while no refresh nonce is issued.
const defaultNonceSecret = "change-me"

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	ErrDefaultNonceSecret = errors.New("invalid config: CHECKOUT_NONCE_SECRET must be set for the on_demand strategy")
)

func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path, ok := os.LookupEnv("CONFIG_FILE"); ok && path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Cache: Cache{
			Host:     v.GetString("CACHE_HOST"),
			Port:     v.GetString("CACHE_PORT"),
			Password: v.GetString("CACHE_PASSWORD"),
		},
		Workers: Workers{
			CompletionCount:      v.GetInt("COMPLETION_WORKERS_COUNT"),
			CompletionBufferSize: v.GetInt("COMPLETION_WORKERS_EVENTS_BUFFER_SIZE"),
		},
		Server: Server{
			Port:            v.GetString("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Versapay: Versapay{
			Subdomain:                  strings.TrimSpace(v.GetString("VERSAPAY_SUBDOMAIN")),
			BaseURL:                    v.GetString("VERSAPAY_BASE_URL"),
			APIToken:                   strings.TrimSpace(v.GetString("VERSAPAY_API_TOKEN")),
			APIKey:                     strings.TrimSpace(v.GetString("VERSAPAY_API_KEY")),
			Timeout:                    v.GetDuration("VERSAPAY_TIMEOUT"),
			CCEnabled:                  v.GetBool("VERSAPAY_CC_ENABLED"),
			ACHEnabled:                 v.GetBool("VERSAPAY_ACH_ENABLED"),
			GCEnabled:                  v.GetBool("VERSAPAY_GC_ENABLED"),
			AVSRules:                   splitList(v.GetString("VERSAPAY_AVS_RULES")),
			SavePaymentMethodByDefault: v.GetBool("VERSAPAY_SAVE_PAYMENT_METHOD_BY_DEFAULT"),
			CCSettlementToken:          v.GetString("VERSAPAY_CC_SETTLEMENT_TOKEN"),
			ACHSettlementToken:         v.GetString("VERSAPAY_ACH_SETTLEMENT_TOKEN"),
			ApplePayMerchantIdentifier: v.GetString("VERSAPAY_APPLE_PAY_MERCHANT_IDENTIFIER"),
			ApplePayDisplayName:        v.GetString("VERSAPAY_APPLE_PAY_DISPLAY_NAME"),
			ApplePayInitiativeContext:  v.GetString("VERSAPAY_APPLE_PAY_INITIATIVE_CONTEXT"),
		},
		Checkout: Checkout{
			GatewayID:   v.GetString("CHECKOUT_GATEWAY_ID"),
			Strategy:    v.GetString("CHECKOUT_SESSION_STRATEGY"),
			NonceSecret: v.GetString("CHECKOUT_NONCE_SECRET"),
			NonceTTL:    v.GetDuration("CHECKOUT_NONCE_TTL"),
			SlotTTL:     v.GetDuration("CHECKOUT_PAYMENT_SLOT_TTL"),
			CookieName:  v.GetString("CHECKOUT_COOKIE_NAME"),
		},
		Orders: Orders{
			Store:         v.GetString("ORDER_STORE"),
			MongoURI:      v.GetString("MONGO_URI"),
			MongoDatabase: v.GetString("MONGO_DATABASE"),
		},
		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			first := validationErrs[0]
			return fmt.Errorf("invalid config: %s failed on %q", first.Namespace(), first.Tag())
		}
		return err
	}

	if c.Checkout.Strategy == "on_demand" && c.Checkout.NonceSecret == defaultNonceSecret {
		return ErrDefaultNonceSecret
	}

	return nil
}

// HasCredentials reports whether both processor credentials are configured.
func (v Versapay) HasCredentials() bool {
	return v.APIToken != "" && v.APIKey != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("CACHE_HOST", "localhost")
	v.SetDefault("CACHE_PORT", "6379")
	v.SetDefault("COMPLETION_WORKERS_COUNT", 2)
	v.SetDefault("COMPLETION_WORKERS_EVENTS_BUFFER_SIZE", 100)
	v.SetDefault("COMPLETION_WORKERS_RETRY_BACKOFF", time.Second)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("VERSAPAY_TIMEOUT", 15*time.Second)
	v.SetDefault("VERSAPAY_CC_ENABLED", true)
	v.SetDefault("CHECKOUT_GATEWAY_ID", "versapay")
	v.SetDefault("CHECKOUT_SESSION_STRATEGY", "render")
	v.SetDefault("CHECKOUT_NONCE_SECRET", defaultNonceSecret)
	v.SetDefault("CHECKOUT_NONCE_TTL", 12*time.Hour)
	v.SetDefault("CHECKOUT_PAYMENT_SLOT_TTL", 30*time.Minute)
	v.SetDefault("CHECKOUT_COOKIE_NAME", "vp_checkout")
	v.SetDefault("ORDER_STORE", "redis")
	v.SetDefault("MONGO_DATABASE", "versapay-checkout")
	v.SetDefault("LOG_LEVEL", "info")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
