package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string
	GRPCPort string
	GinMode  string
	AppEnv   string

	DB DatabaseConfig

	RedisURL  string
	JWTSecret string

	Affiliate AffiliateConfig

	NotificationWebhookURL string
	ReconcileSchedule      string
}

type DatabaseConfig struct {
	Driver   string // mysql, postgres or sqlite
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// AffiliateConfig holds the referral programme defaults handed to the
// commission calculator, the withdrawal ledger and the click tracker.
type AffiliateConfig struct {
	DefaultCommissionRate    float64
	DefaultMinimumWithdrawal float64
	CookieTTL                time.Duration
	AffiliateCookieName      string
	LinkCookieName           string
	DefaultDestination       string
}

type configFile struct {
	Server struct {
		Port     string `yaml:"port"`
		GRPCPort string `yaml:"grpc_port"`
		AppEnv   string `yaml:"app_env"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Affiliate struct {
		DefaultCommissionRate    float64 `yaml:"default_commission_rate"`
		DefaultMinimumWithdrawal float64 `yaml:"default_minimum_withdrawal"`
		CookieTTLDays            int     `yaml:"cookie_ttl_days"`
		DefaultDestination       string  `yaml:"default_destination"`
	} `yaml:"affiliate"`
	Schedules struct {
		CommissionReconcile string `yaml:"commission_reconcile"`
	} `yaml:"schedules"`
}

func Defaults() Config {
	return Config{
		Port:     "8080",
		GRPCPort: "50051",
		AppEnv:   "local",
		DB: DatabaseConfig{
			Driver: "mysql",
			Port:   "3306",
		},
		JWTSecret: "secret",
		Affiliate: AffiliateConfig{
			DefaultCommissionRate:    10800,
			DefaultMinimumWithdrawal: 50000,
			CookieTTL:                30 * 24 * time.Hour,
			AffiliateCookieName:      "sb_affiliate_id",
			LinkCookieName:           "sb_affiliate_link_id",
			DefaultDestination:       "/products",
		},
		ReconcileSchedule: "*/15 * * * *",
	}
}

// Load reads .env (if present), then CONFIG_FILE (if set), then the environment.
// Later sources win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := cfg.applyYAML(raw); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyYAML(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Server.Port != "" {
		c.Port = f.Server.Port
	}
	if f.Server.GRPCPort != "" {
		c.GRPCPort = f.Server.GRPCPort
	}
	if f.Server.AppEnv != "" {
		c.AppEnv = f.Server.AppEnv
	}
	if f.Database.Driver != "" {
		c.DB.Driver = f.Database.Driver
	}
	if f.Database.URL != "" {
		c.DB.URL = f.Database.URL
	}
	if f.Affiliate.DefaultCommissionRate > 0 {
		c.Affiliate.DefaultCommissionRate = f.Affiliate.DefaultCommissionRate
	}
	if f.Affiliate.DefaultMinimumWithdrawal > 0 {
		c.Affiliate.DefaultMinimumWithdrawal = f.Affiliate.DefaultMinimumWithdrawal
	}
	if f.Affiliate.CookieTTLDays > 0 {
		c.Affiliate.CookieTTL = time.Duration(f.Affiliate.CookieTTLDays) * 24 * time.Hour
	}
	if f.Affiliate.DefaultDestination != "" {
		c.Affiliate.DefaultDestination = f.Affiliate.DefaultDestination
	}
	if f.Schedules.CommissionReconcile != "" {
		c.ReconcileSchedule = f.Schedules.CommissionReconcile
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = envString("PORT", c.Port)
	c.GRPCPort = envString("GRPC_PORT", c.GRPCPort)
	c.GinMode = envString("GIN_MODE", c.GinMode)
	c.AppEnv = envString("APP_ENV", c.AppEnv)

	c.DB.Driver = envString("DB_DRIVER", c.DB.Driver)
	c.DB.URL = envString("DATABASE_URL", c.DB.URL)
	c.DB.Host = envString("DB_HOST", c.DB.Host)
	c.DB.Port = envString("DB_PORT", c.DB.Port)
	c.DB.User = envString("DB_USER", c.DB.User)
	c.DB.Password = envString("DB_PASSWORD", c.DB.Password)
	c.DB.Name = envString("DB_NAME", c.DB.Name)

	c.RedisURL = envString("REDIS_URL", c.RedisURL)
	c.JWTSecret = envString("JWT_SECRET", c.JWTSecret)

	c.Affiliate.DefaultCommissionRate = envFloat("DEFAULT_COMMISSION_RATE", c.Affiliate.DefaultCommissionRate)
	c.Affiliate.DefaultMinimumWithdrawal = envFloat("DEFAULT_MINIMUM_WITHDRAWAL", c.Affiliate.DefaultMinimumWithdrawal)
	c.Affiliate.CookieTTL = time.Duration(envInt("ATTRIBUTION_COOKIE_TTL_DAYS", int(c.Affiliate.CookieTTL.Hours()/24))) * 24 * time.Hour
	c.Affiliate.AffiliateCookieName = envString("AFFILIATE_COOKIE_NAME", c.Affiliate.AffiliateCookieName)
	c.Affiliate.LinkCookieName = envString("AFFILIATE_LINK_COOKIE_NAME", c.Affiliate.LinkCookieName)
	c.Affiliate.DefaultDestination = envString("DEFAULT_DESTINATION", c.Affiliate.DefaultDestination)

	c.NotificationWebhookURL = envString("NOTIFICATION_WEBHOOK_URL", c.NotificationWebhookURL)
	c.ReconcileSchedule = envString("COMMISSION_RECONCILE_CRON", c.ReconcileSchedule)
}

// IsProduction controls the Secure flag on attribution cookies.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func envString(name, fallback string) string {
	if raw := os.Getenv(name); raw != "" {
		return raw
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}
