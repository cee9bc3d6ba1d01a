package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration, merged from file defaults
// and environment overrides. Tracking credentials have no defaults on
// purpose: startup fails rather than sending malformed postbacks.
type Config struct {
	ServiceID string
	HTTPPort  int

	DatabaseURL    string
	MaxDBConns     int
	RedisURL       string
	CacheTTL       time.Duration
	KafkaBrokers   []string
	AnalyticsTopic string

	PostbackURL     string
	CampaignCode    string
	PostbackKey     string
	NetworkChannel  string
	PostbackTimeout time.Duration

	CookieAffiliateUID string
	CookiePublisherID  string
	CookieLastSource   string
	CookieLifetime     time.Duration

	DefaultSaleActionCode string
	DefaultLeadActionCode string
	DefaultTariffCode     string
	DefaultCurrency       string
	SourceMatchMode       string

	TestCardNumber string
	TestCardExpiry string
	TestCardCVV    string
	TestCardOwner  string
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL    string   `yaml:"postgres_url"`
		MaxConns       int      `yaml:"max_conns"`
		RedisURL       string   `yaml:"redis_url"`
		CacheTTLSec    int      `yaml:"cache_ttl_seconds"`
		KafkaBrokers   []string `yaml:"kafka_brokers"`
		AnalyticsTopic string   `yaml:"analytics_topic"`
	} `yaml:"dependencies"`
	Tracking struct {
		PostbackURL            string `yaml:"postback_url"`
		CampaignCode           string `yaml:"campaign_code"`
		PostbackKey            string `yaml:"postback_key"`
		NetworkChannel         string `yaml:"network_channel"`
		PostbackTimeoutSeconds int    `yaml:"postback_timeout_seconds"`
		CookieAffiliateUID     string `yaml:"cookie_affiliate_uid"`
		CookiePublisherID      string `yaml:"cookie_publisher_id"`
		CookieLastSource       string `yaml:"cookie_last_source"`
		CookieLifetimeDays     int    `yaml:"cookie_lifetime_days"`
		DefaultSaleActionCode  string `yaml:"default_sale_action_code"`
		DefaultLeadActionCode  string `yaml:"default_lead_action_code"`
		DefaultTariffCode      string `yaml:"default_tariff_code"`
		DefaultCurrency        string `yaml:"default_currency"`
		SourceMatchMode        string `yaml:"source_match_mode"`
	} `yaml:"tracking"`
	Payments struct {
		TestCard struct {
			Number     string `yaml:"number"`
			ExpiryDate string `yaml:"expiry_date"`
			CVV        string `yaml:"cvv"`
			OwnerName  string `yaml:"owner_name"`
		} `yaml:"test_card"`
	} `yaml:"payments"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "storefront",
		HTTPPort:              8080,
		MaxDBConns:            10,
		CacheTTL:              10 * time.Minute,
		AnalyticsTopic:        "storefront.analytics",
		PostbackURL:           "https://ad.admitad.com/tt",
		NetworkChannel:        "admitad",
		PostbackTimeout:       10 * time.Second,
		CookieAffiliateUID:    "_adm_aid",
		CookiePublisherID:     "_pid",
		CookieLastSource:      "_last_source",
		CookieLifetime:        90 * 24 * time.Hour,
		DefaultSaleActionCode: "1",
		DefaultLeadActionCode: "2",
		DefaultTariffCode:     "1",
		DefaultCurrency:       "RUB",
		SourceMatchMode:       "prefix",
		TestCardNumber:        "1234567812345678",
		TestCardExpiry:        "12/28",
		TestCardCVV:           "123",
		TestCardOwner:         "IVAN IVANOV",
	}
	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		applyFile(&cfg, f)
	}

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.MaxDBConns = envInt("MAX_DB_CONNS", cfg.MaxDBConns)
	cfg.RedisURL = envString("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envList("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.AnalyticsTopic = envString("ANALYTICS_TOPIC", cfg.AnalyticsTopic)
	cfg.PostbackURL = envString("POSTBACK_URL", cfg.PostbackURL)
	cfg.CampaignCode = envString("CAMPAIGN_CODE", cfg.CampaignCode)
	cfg.PostbackKey = envString("POSTBACK_KEY", cfg.PostbackKey)
	cfg.NetworkChannel = envString("NETWORK_CHANNEL", cfg.NetworkChannel)
	cfg.PostbackTimeout = time.Duration(envInt("POSTBACK_TIMEOUT_SECONDS", int(cfg.PostbackTimeout.Seconds()))) * time.Second
	cfg.CookieLifetime = time.Duration(envInt("COOKIE_LIFETIME_DAYS", int(cfg.CookieLifetime.Hours()/24))) * 24 * time.Hour
	cfg.DefaultSaleActionCode = envString("DEFAULT_SALE_ACTION_CODE", cfg.DefaultSaleActionCode)
	cfg.DefaultLeadActionCode = envString("DEFAULT_LEAD_ACTION_CODE", cfg.DefaultLeadActionCode)
	cfg.DefaultTariffCode = envString("DEFAULT_TARIFF_CODE", cfg.DefaultTariffCode)
	cfg.DefaultCurrency = envString("DEFAULT_CURRENCY", cfg.DefaultCurrency)
	cfg.SourceMatchMode = envString("SOURCE_MATCH_MODE", cfg.SourceMatchMode)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, f configFile) {
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Dependencies.PostgresURL != "" {
		cfg.DatabaseURL = f.Dependencies.PostgresURL
	}
	if f.Dependencies.MaxConns > 0 {
		cfg.MaxDBConns = f.Dependencies.MaxConns
	}
	if f.Dependencies.RedisURL != "" {
		cfg.RedisURL = f.Dependencies.RedisURL
	}
	if f.Dependencies.CacheTTLSec > 0 {
		cfg.CacheTTL = time.Duration(f.Dependencies.CacheTTLSec) * time.Second
	}
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
	}
	if f.Dependencies.AnalyticsTopic != "" {
		cfg.AnalyticsTopic = f.Dependencies.AnalyticsTopic
	}
	if f.Tracking.PostbackURL != "" {
		cfg.PostbackURL = f.Tracking.PostbackURL
	}
	if f.Tracking.CampaignCode != "" {
		cfg.CampaignCode = f.Tracking.CampaignCode
	}
	if f.Tracking.PostbackKey != "" {
		cfg.PostbackKey = f.Tracking.PostbackKey
	}
	if f.Tracking.NetworkChannel != "" {
		cfg.NetworkChannel = f.Tracking.NetworkChannel
	}
	if f.Tracking.PostbackTimeoutSeconds > 0 {
		cfg.PostbackTimeout = time.Duration(f.Tracking.PostbackTimeoutSeconds) * time.Second
	}
	if f.Tracking.CookieAffiliateUID != "" {
		cfg.CookieAffiliateUID = f.Tracking.CookieAffiliateUID
	}
	if f.Tracking.CookiePublisherID != "" {
		cfg.CookiePublisherID = f.Tracking.CookiePublisherID
	}
	if f.Tracking.CookieLastSource != "" {
		cfg.CookieLastSource = f.Tracking.CookieLastSource
	}
	if f.Tracking.CookieLifetimeDays > 0 {
		cfg.CookieLifetime = time.Duration(f.Tracking.CookieLifetimeDays) * 24 * time.Hour
	}
	if f.Tracking.DefaultSaleActionCode != "" {
		cfg.DefaultSaleActionCode = f.Tracking.DefaultSaleActionCode
	}
	if f.Tracking.DefaultLeadActionCode != "" {
		cfg.DefaultLeadActionCode = f.Tracking.DefaultLeadActionCode
	}
	if f.Tracking.DefaultTariffCode != "" {
		cfg.DefaultTariffCode = f.Tracking.DefaultTariffCode
	}
	if f.Tracking.DefaultCurrency != "" {
		cfg.DefaultCurrency = f.Tracking.DefaultCurrency
	}
	if f.Tracking.SourceMatchMode != "" {
		cfg.SourceMatchMode = f.Tracking.SourceMatchMode
	}
	if f.Payments.TestCard.Number != "" {
		cfg.TestCardNumber = f.Payments.TestCard.Number
	}
	if f.Payments.TestCard.ExpiryDate != "" {
		cfg.TestCardExpiry = f.Payments.TestCard.ExpiryDate
	}
	if f.Payments.TestCard.CVV != "" {
		cfg.TestCardCVV = f.Payments.TestCard.CVV
	}
	if f.Payments.TestCard.OwnerName != "" {
		cfg.TestCardOwner = f.Payments.TestCard.OwnerName
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.CampaignCode) == "" {
		return fmt.Errorf("tracking campaign code is not configured (CAMPAIGN_CODE)")
	}
	if strings.TrimSpace(c.PostbackKey) == "" {
		return fmt.Errorf("tracking postback key is not configured (POSTBACK_KEY)")
	}
	if c.SourceMatchMode != "prefix" && c.SourceMatchMode != "exact" {
		return fmt.Errorf("source_match_mode must be %q or %q, got %q", "prefix", "exact", c.SourceMatchMode)
	}
	return nil
}

func envInt(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envString(name, fallback string) string {
	if raw := os.Getenv(name); raw != "" {
		return raw
	}
	return fallback
}

func envList(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
