package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "CAMPUSPRINT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Files        FilesConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAMPUSPRINT_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSPRINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAMPUSPRINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSPRINT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAMPUSPRINT_DB_DSN"`
	Driver string `envconfig:"CAMPUSPRINT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAMPUSPRINT_DB_HOST"`
	LegacyPort     int    `envconfig:"CAMPUSPRINT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAMPUSPRINT_DB_USER"`
	LegacyPassword string `envconfig:"CAMPUSPRINT_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAMPUSPRINT_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAMPUSPRINT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSPRINT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSPRINT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSPRINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSPRINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name parts are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   "/" + d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUSPRINT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAMPUSPRINT_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUSPRINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUSPRINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUSPRINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUSPRINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUSPRINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUSPRINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUSPRINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CAMPUSPRINT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CAMPUSPRINT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CAMPUSPRINT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CAMPUSPRINT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAMPUSPRINT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAMPUSPRINT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CAMPUSPRINT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CAMPUSPRINT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAMPUSPRINT_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAMPUSPRINT_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CAMPUSPRINT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CAMPUSPRINT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"CAMPUSPRINT_GCS_BUCKET" default:"print-files"`
}

type FilesConfig struct {
	MaxUploadBytes int64         `envconfig:"CAMPUSPRINT_FILES_MAX_UPLOAD_BYTES" default:"52428800"`
	UploadTTL      time.Duration `envconfig:"CAMPUSPRINT_FILES_UPLOAD_TTL" default:"15m"`
	DownloadTTL    time.Duration `envconfig:"CAMPUSPRINT_FILES_DOWNLOAD_TTL" default:"10m"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"CAMPUSPRINT_PUBSUB_ORDERS_TOPIC"`
	OrdersSubscription string `envconfig:"CAMPUSPRINT_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"CAMPUSPRINT_OUTBOX_POLL_INTERVAL" default:"5s"`
	BatchSize    int           `envconfig:"CAMPUSPRINT_OUTBOX_BATCH_SIZE" default:"50"`
	MaxAttempts  int           `envconfig:"CAMPUSPRINT_OUTBOX_MAX_ATTEMPTS" default:"10"`
}
