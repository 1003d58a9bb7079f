package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	UserPage struct {
		FetchTimeout time.Duration
		TTL          time.Duration
		SweepEvery   time.Duration
		RegistrySize int
	}
	Map struct {
		APIKey     string
		DefaultLat float64
		DefaultLng float64
	}
	SessionLifetime time.Duration
	InsecureCookies bool
	Verbose         bool
}

// Load reads config from environment (TRAIL_ prefix) and optional trail-mix.yaml.
func Load() (*Config, error) {
	v := newViper()
	_ = v.ReadInConfig() // optional config file

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.requireOIDC(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDB reads only what the migrate command needs.
func LoadDB() (*Config, error) {
	v := newViper()
	_ = v.ReadInConfig()
	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TRAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("trail-mix")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("insecure_cookies", false)
	v.SetDefault("verbose", false)
	v.SetDefault("userpage.fetch_timeout", "10s")
	v.SetDefault("userpage.ttl", "30m")
	v.SetDefault("userpage.sweep_interval", "1m")
	v.SetDefault("userpage.registry_size", 1024)
	v.SetDefault("map.default_lat", 30.33735)
	v.SetDefault("map.default_lng", -90.03733)
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")
	cfg.Verbose = v.GetBool("verbose")
	cfg.UserPage.RegistrySize = v.GetInt("userpage.registry_size")
	cfg.Map.APIKey = v.GetString("map.api_key")
	cfg.Map.DefaultLat = v.GetFloat64("map.default_lat")
	cfg.Map.DefaultLng = v.GetFloat64("map.default_lng")

	var err error
	if cfg.SessionLifetime, err = time.ParseDuration(v.GetString("session.lifetime")); err != nil {
		return nil, fmt.Errorf("invalid TRAIL_SESSION_LIFETIME: %w", err)
	}
	if cfg.UserPage.FetchTimeout, err = time.ParseDuration(v.GetString("userpage.fetch_timeout")); err != nil {
		return nil, fmt.Errorf("invalid TRAIL_USERPAGE_FETCH_TIMEOUT: %w", err)
	}
	if cfg.UserPage.TTL, err = time.ParseDuration(v.GetString("userpage.ttl")); err != nil {
		return nil, fmt.Errorf("invalid TRAIL_USERPAGE_TTL: %w", err)
	}
	if cfg.UserPage.SweepEvery, err = time.ParseDuration(v.GetString("userpage.sweep_interval")); err != nil {
		return nil, fmt.Errorf("invalid TRAIL_USERPAGE_SWEEP_INTERVAL: %w", err)
	}
	if cfg.UserPage.RegistrySize <= 0 {
		return nil, fmt.Errorf("TRAIL_USERPAGE_REGISTRY_SIZE must be positive")
	}

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("TRAIL_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("TRAIL_DB_DSN is required")
	}
	return cfg, nil
}

func (cfg *Config) requireOIDC() error {
	if cfg.OIDC.Issuer == "" {
		return fmt.Errorf("TRAIL_OIDC_ISSUER is required")
	}
	if cfg.OIDC.ClientID == "" {
		return fmt.Errorf("TRAIL_OIDC_CLIENT_ID is required")
	}
	if cfg.OIDC.ClientSecret == "" {
		return fmt.Errorf("TRAIL_OIDC_CLIENT_SECRET is required")
	}
	if cfg.OIDC.RedirectURL == "" {
		return fmt.Errorf("TRAIL_OIDC_REDIRECT_URL is required")
	}
	return nil
}
