package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"log"
	"os"
	"time"
)

const (
	BackendLive = "live"
	BackendMock = "mock"

	ProviderOIDC = "oidc"
	ProviderDemo = "demo"

	StorageBolt   = "bolt"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	Backend  string         `yaml:"backend" env:"VOTE_BACKEND" env-default:"live"`
	HTTP     HTTPConfig     `yaml:"http"`
	API      APIConfig      `yaml:"api"`
	Identity IdentityConfig `yaml:"identity"`
	Storage  StorageConfig  `yaml:"storage"`
	Session  SessionConfig  `yaml:"session"`
}

type HTTPConfig struct {
	Port           int      `yaml:"port" env:"HTTP_PORT" env-default:"8085"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

// APIConfig describes the secondary (vote) backend and its token gateway.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url" env:"VOTE_API_BASE_URL" env-default:"https://api.sebastian.cl"`
	AuthPath     string        `yaml:"auth_path" env-default:"/auth"`
	VotePath     string        `yaml:"vote_path" env-default:"/vote"`
	Token        string        `yaml:"token" env:"VOTE_API_TOKEN"`
	Key          string        `yaml:"key" env:"VOTE_API_KEY"`
	RedeemMethod string        `yaml:"redeem_method" env-default:"POST"`
	Timeout      time.Duration `yaml:"timeout" env-default:"10s"`
	BearerTTL    time.Duration `yaml:"bearer_ttl" env-default:"50m"`
	// LocalSecret signs bearer tokens when Backend is mock.
	LocalSecret string `yaml:"local_secret" env:"VOTE_LOCAL_SECRET" env-default:"local-dev-secret"`
}

type IdentityConfig struct {
	Provider     string        `yaml:"provider" env:"IDENTITY_PROVIDER" env-default:"demo"`
	Issuer       string        `yaml:"issuer" env:"OIDC_ISSUER" env-default:"https://accounts.google.com"`
	ClientID     string        `yaml:"client_id" env:"OIDC_CLIENT_ID"`
	ClientSecret string        `yaml:"client_secret" env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string        `yaml:"redirect_url" env:"OIDC_REDIRECT_URL" env-default:"http://localhost:8085/oauth/callback"`
	PopupTimeout time.Duration `yaml:"popup_timeout" env-default:"2m"`
	// ReturnURL is where the demo provider sends a redirect sign-in.
	ReturnURL string `yaml:"return_url" env-default:"http://localhost:5173/"`
}

type StorageConfig struct {
	Driver        string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"bolt"`
	Path          string `yaml:"path" env:"STORAGE_PATH" env-default:"vote-client.db"`
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	RedisPrefix   string `yaml:"redis_prefix" env-default:"vote-client:"`
}

type SessionConfig struct {
	ResultDisplay    time.Duration `yaml:"result_display" env-default:"2s"`
	RedirectFailSafe time.Duration `yaml:"redirect_fail_safe" env-default:"3m"`
}

// Load reads the YAML file at path, applying env overrides.
func Load(path string) (*Config, error) {
	var config Config
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// MustLoad resolves the config path from CONFIG_PATH and exits on failure.
// Values from an optional .env.local file are loaded into the environment first.
func MustLoad() *Config {
	_ = godotenv.Load(".env.local")

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/local.yaml"
	}

	config, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return config
}
