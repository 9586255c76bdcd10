package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/aussiebroadwan/invitegate/pkg/cryptox"
	"github.com/aussiebroadwan/invitegate/pkg/jwtx"
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
)

// Database drivers accepted by AUTH_DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreConfig is the subset of Config needed to reach the database and hash
// passwords. The admin CLI loads only this part.
type StoreConfig struct {
	PasswordHasher string `env:"AUTH_PASSWORD_HASHER" envDefault:"bcrypt"` // bcrypt or argon2id
	BcryptCost     int    `env:"AUTH_BCRYPT_COST"     envDefault:"12"`

	DatabaseDriver string `env:"AUTH_DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseFile   string `env:"AUTH_DATABASE_FILE"   envDefault:"auth.db"` // sqlite only
	DatabaseURL    string `env:"AUTH_DATABASE_URL"`                         // postgres only
}

type Config struct {
	SecretKey string `env:"AUTH_SECRET_KEY,required,notEmpty"` // Required: HMAC secret for access tokens
	Algorithm string `env:"AUTH_ALGORITHM,required,notEmpty"`  // Required: HS256, HS384 or HS512

	AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"1h"`

	StoreConfig

	// SignupURL is the page invite links point at.
	SignupURL string `env:"AUTH_SIGNUP_URL" envDefault:"http://127.0.0.1:8080/signup"`

	Env                 string        `env:"ENV"                   envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	return load[Config]()
}

// LoadStoreConfig is LoadConfig for tools that never issue tokens.
func LoadStoreConfig() (StoreConfig, error) {
	return load[StoreConfig]()
}

func load[T interface{ Validate() error }]() (T, error) {
	var zero T
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zero, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[T]()
	if err != nil {
		return zero, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return zero, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the values env tags cannot express.
func (c StoreConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PasswordHasher, validation.In(cryptox.HasherBcrypt, cryptox.HasherArgon2id)),
		validation.Field(&c.BcryptCost, validation.Min(4), validation.Max(31)),
		validation.Field(&c.DatabaseDriver, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DatabaseFile, requiredFor(c.DatabaseDriver == DriverSQLite)...),
		validation.Field(&c.DatabaseURL, requiredFor(c.DatabaseDriver == DriverPostgres)...),
	)
}

// Validate checks the values env tags cannot express.
func (c Config) Validate() error {
	if err := c.StoreConfig.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Algorithm, validation.In(toAny(jwtx.SupportedAlgs)...)),
		validation.Field(&c.AccessTokenTTL, validation.By(positiveDuration)),
		validation.Field(&c.SignupURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.Port, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ShutdownGracePeriod, validation.By(positiveDuration)),
	)
}

func requiredFor(cond bool) []validation.Rule {
	if cond {
		return []validation.Rule{validation.Required}
	}
	return nil
}

func positiveDuration(value interface{}) error {
	if d, _ := value.(time.Duration); d <= 0 {
		return errors.New("must be a positive duration")
	}
	return nil
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
