package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the backend. It is built
// once in main and passed to component constructors; nothing re-reads the
// environment at request time.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	FatSecret FatSecretConfig
	HumanAPI  HumanAPIConfig
	Tracker   TrackerConfig

	// MockAPIs replaces the external collaborators and the database with
	// in-process fakes. Used for local development and demos.
	MockAPIs bool
	LogLevel string
}

type ServerConfig struct {
	Addr string
}

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

type AuthConfig struct {
	// JWTSecret signs the bearer tokens the API hands out.
	JWTSecret string
	// BotSecret is the shared secret the chat front-end exchanges for a token.
	BotSecret string
	TokenTTL  time.Duration
}

type FatSecretConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	BaseURL        string
	TokenURL       string
}

type HumanAPIConfig struct {
	BaseURL     string
	AccessToken string
}

type TrackerConfig struct {
	// SeedProductName is assigned as the current product of newly created
	// users. It must exist in the catalog; see SeedOnStart.
	SeedProductName     string
	SeedProductCalories int
	// SeedOnStart inserts the seed product at startup when absent instead
	// of treating the missing row as a fatal configuration error.
	SeedOnStart bool
}

// Load reads .env (best-effort) and the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Addr: envDefault("SERVER_ADDR", ":8080"),
		},
		Database: DatabaseConfig{
			Host:     envDefault("POSTGRES_HOST", "localhost"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Name:     os.Getenv("POSTGRES_DB"),
			Port:     envDefault("POSTGRES_PORT", "5432"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			BotSecret: os.Getenv("SECRET_TOKEN"),
			TokenTTL:  envDuration("TOKEN_TTL", 72*time.Hour),
		},
		FatSecret: FatSecretConfig{
			ConsumerKey:    os.Getenv("FATSECRET_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("FATSECRET_CONSUMER_SECRET"),
			BaseURL:        envDefault("FATSECRET_BASE_URL", "https://platform.fatsecret.com/rest/server.api"),
			TokenURL:       envDefault("FATSECRET_TOKEN_URL", "https://oauth.fatsecret.com/connect/token"),
		},
		HumanAPI: HumanAPIConfig{
			BaseURL:     envDefault("HUMAN_API_BASE_URL", "https://api.humanapi.co"),
			AccessToken: os.Getenv("HUMAN_API_ACCESS_TOKEN"),
		},
		Tracker: TrackerConfig{
			SeedProductName:     envDefault("SEED_PRODUCT_NAME", "Beer"),
			SeedProductCalories: envInt("SEED_PRODUCT_CALORIES", 43),
			SeedOnStart:         envBool("SEED_ON_START", false),
		},
		MockAPIs: envBool("MOCK_APIS", false),
		LogLevel: envDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.BotSecret == "" {
		return fmt.Errorf("SECRET_TOKEN must be set")
	}
	if c.Tracker.SeedProductName == "" {
		return fmt.Errorf("SEED_PRODUCT_NAME must not be empty")
	}
	if c.MockAPIs {
		return nil
	}
	if c.Database.User == "" || c.Database.Name == "" {
		return fmt.Errorf("POSTGRES_USER and POSTGRES_DB must be set")
	}
	if c.FatSecret.ConsumerKey == "" || c.FatSecret.ConsumerSecret == "" {
		return fmt.Errorf("FATSECRET_CONSUMER_KEY and FATSECRET_CONSUMER_SECRET must be set")
	}
	if c.HumanAPI.AccessToken == "" {
		return fmt.Errorf("HUMAN_API_ACCESS_TOKEN must be set")
	}
	return nil
}

func envDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
