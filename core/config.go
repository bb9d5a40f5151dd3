package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// store drivers
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
	DriverDummy    = "dummy"
)

type (
	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		DefaultFromEmail string
		FrontendBaseURL  string
		WorkDir          string
		RollbarToken     string
		SendgridAPIKey   string

		Server   ServerConfig
		Store    StoreConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Session  SessionConfig
	}

	ServerConfig struct {
		Host               string
		Address            string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	// StoreConfig points at the hosted backend holding the academy tables.
	StoreConfig struct {
		Driver   string
		URL      string
		Key      string
		Timeout  time.Duration
		Fixtures bool
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	SessionConfig struct {
		Backend string // file | redis
		Dir     string
		Prefix  string
		TTL     time.Duration
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func newViper() *viper.Viper {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Sreshtta Academy")
	conf.SetDefault("secretKey", "k3n9-apf)vyb$+21=qm&uoxh7(a!x)#*r4(#zd8j^$pegm5emy")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)

	conf.SetDefault("store.driver", DriverREST)
	conf.SetDefault("store.url", "")
	conf.SetDefault("store.key", "")
	conf.SetDefault("store.timeout", 15*time.Second)
	conf.SetDefault("store.fixtures", true)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.name", "academy")
	conf.SetDefault("database.user", "academy")
	conf.SetDefault("database.password", "academy")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("redis.addr", "localhost:6379")
	conf.SetDefault("redis.password", "")
	conf.SetDefault("redis.db", 0)

	conf.SetDefault("session.backend", "file")
	conf.SetDefault("session.dir", filepath.Join(os.TempDir(), "academy"))
	conf.SetDefault("session.prefix", "academy:")
	conf.SetDefault("session.ttl", time.Duration(0))

	// nested keys are read from env as STORE_URL, DATABASE_HOST, ...
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return conf
}

// NewConfig loads the configuration of the current ENV (DEV by default) from the environment,
// optionally seeded by `config/.env.<env>` found under the working directory.
func NewConfig() *Config {
	conf, err := LoadConfig(os.Getenv("ENV"), Getwd())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

// LoadConfig is NewConfig with an explicit env & root directory.
func LoadConfig(env, root string) (*Config, error) {
	v := newViper()

	switch strings.ToUpper(env) { // DEV (local; default), TEST, QA, PROD
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	env = strings.ToUpper(env)
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		WorkDir:          root,
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Store: StoreConfig{
			Driver:   strings.ToLower(v.GetString("store.driver")),
			URL:      strings.TrimRight(v.GetString("store.url"), "/"),
			Key:      v.GetString("store.key"),
			Timeout:  v.GetDuration("store.timeout"),
			Fixtures: v.GetBool("store.fixtures"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			Backend: strings.ToLower(v.GetString("session.backend")),
			Dir:     v.GetString("session.dir"),
			Prefix:  v.GetString("session.prefix"),
			TTL:     v.GetDuration("session.ttl"),
		},
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks the settings without which the app cannot start.
func (c *Config) Validate() error {
	checks := []vala.Checker{
		vala.StringNotEmpty(c.AppName, "appName"),
		vala.StringNotEmpty(c.SecretKey, "secretKey"),
	}
	switch c.Store.Driver {
	case DriverREST:
		checks = append(checks,
			vala.StringNotEmpty(c.Store.URL, "store.url"),
			vala.StringNotEmpty(c.Store.Key, "store.key"))
	case DriverPostgres:
		checks = append(checks,
			vala.StringNotEmpty(c.Database.Host, "database.host"),
			vala.StringNotEmpty(c.Database.Name, "database.name"))
	case DriverDummy:
	default:
		return errors.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Session.Backend == "redis" {
		checks = append(checks, vala.StringNotEmpty(c.Redis.Addr, "redis.addr"))
	}
	return errors.Wrap(vala.BeginValidation().Validate(checks...).Check(), "invalid config")
}
