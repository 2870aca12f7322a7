package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Catalog       CatalogConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Mail          MailConfig
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
	Env          string `envconfig:"SHOPPING_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPPING_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPPING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPPING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPPING_DB_DSN"`
	Driver string `envconfig:"SHOPPING_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPPING_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPPING_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPPING_DB_USER"`
	LegacyPassword string `envconfig:"SHOPPING_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPPING_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPPING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPPING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPPING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPPING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPPING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPPING_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPPING_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPPING_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPPING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPPING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPPING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPPING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPPING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPPING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOPPING_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOPPING_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHOPPING_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOPPING_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPPING_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPPING_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPPING_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPPING_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPPING_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOPPING_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHOPPING_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOPPING_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHOPPING_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOPPING_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOPPING_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CatalogConfig drives the public storefront listing.
type CatalogConfig struct {
	PageSize int `envconfig:"SHOPPING_CATALOG_PAGE_SIZE" default:"4"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPPING_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPPING_AUTO_MIGRATE" default:"false"`
	SeedOnBoot  bool `envconfig:"SHOPPING_SEED_ON_BOOT" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOPPING_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SHOPPING_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOPPING_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string `envconfig:"SHOPPING_GCS_BUCKET_NAME" required:"true"`
	ProductsPrefix  string `envconfig:"SHOPPING_GCS_PRODUCTS_PREFIX" default:"products"`
	UsersPrefix     string `envconfig:"SHOPPING_GCS_USERS_PREFIX" default:"users"`
	NoImagePlaceURL string `envconfig:"SHOPPING_GCS_NO_IMAGE_URL" default:"https://storage.googleapis.com/shopping-assets/no-image.png"`
}

type MailConfig struct {
	APIBaseURL   string `envconfig:"SHOPPING_MAIL_API_BASE_URL" default:"https://api.sendgrid.com"`
	APIKey       string `envconfig:"SHOPPING_MAIL_API_KEY"`
	FromName     string `envconfig:"SHOPPING_MAIL_FROM_NAME" default:"Shopping"`
	FromAddress  string `envconfig:"SHOPPING_MAIL_FROM_ADDRESS"`
	FrontendBase string `envconfig:"SHOPPING_MAIL_FRONTEND_BASE_URL" default:"http://localhost:3000"`
}

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
