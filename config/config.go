package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends for the persistence gateway
const (
	BackendFile      = "file"
	BackendRedis     = "redis"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendRemote    = "remote"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Firebase FirebaseConfig
	Auth     AuthConfig
	Snapshot SnapshotConfig
	Session  SessionConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	GatewayAPIKey  string   `env:"GATEWAY_API_KEY"`
	// LoginRate is login attempts per minute per client IP
	LoginRate  int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	LoginBurst int `env:"LOGIN_BURST" envDefault:"5"`
}

type StorageConfig struct {
	Backend    string `env:"STORAGE_BACKEND" envDefault:"file"`
	DBFile     string `env:"DB_FILE" envDefault:"database.json"`
	MirrorPath string `env:"MIRROR_PATH" envDefault:"mirror.db"`
	RemoteURL  string `env:"REMOTE_GATEWAY_URL"`
	RemoteKey  string `env:"REMOTE_GATEWAY_API_KEY"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"briefing"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"4"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	Collection      string `env:"FIRESTORE_COLLECTION" envDefault:"briefings"`
}

type AuthConfig struct {
	ClientUsername string `env:"CLIENT_USERNAME" envDefault:"amirsoofi"`
	ClientPassword string `env:"CLIENT_PASSWORD"`
	AdminUsername  string `env:"ADMIN_USERNAME" envDefault:"arshia"`
	AdminPassword  string `env:"ADMIN_PASSWORD"`
}

type SnapshotConfig struct {
	Enabled  bool   `env:"SNAPSHOT_ENABLED" envDefault:"false"`
	Dir      string `env:"SNAPSHOT_DIR" envDefault:"snapshots"`
	Schedule string `env:"SNAPSHOT_SCHEDULE" envDefault:"0 0 0 * * *"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	MaxSessions int           `env:"MAX_SESSIONS" envDefault:"256"`
}

type AppConfig struct {
	Environment     string        `env:"APP_ENV" envDefault:"development"`
	Version         string        `env:"APP_VERSION" envDefault:"1.0.0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse reads the environment without loading .env or validating
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.ClientPassword == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("CLIENT_PASSWORD and ADMIN_PASSWORD are required")
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DBFile == "" {
			return fmt.Errorf("DB_FILE is required for the file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres backend")
		}
	case BackendFirestore:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore backend")
		}
	case BackendRemote:
		if c.Storage.RemoteURL == "" {
			return fmt.Errorf("REMOTE_GATEWAY_URL is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	return nil
}

// DSN builds the Postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// IsProduction reports whether APP_ENV is "production"
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}
