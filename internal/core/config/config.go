package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

// OpsHTTP 运维端口：/health + /metrics
type OpsHTTP struct {
	Host string
	Port int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
	Ops  OpsHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type Session struct {
	Secret       string
	Issuer       string
	TTLMin       int
	CookieName   string
	CookieDomain string
	CookieSecure bool
	SameSite     string // none / lax / strict
}

func (s Session) TTL() time.Duration { return time.Duration(s.TTLMin) * time.Minute }

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string // postgres / mysql / memory
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Upload struct {
	Driver          string // local / gcs
	Dir             string
	Bucket          string
	Prefix          string
	CredentialsFile string
	MaxSizeMB       int
	AllowedExt      []string
}

func (u Upload) MaxBytes() int64 { return int64(u.MaxSizeMB) << 20 }

type CORS struct {
	AllowOrigins []string
}

type Security struct {
	StrictOwnership bool
}

type Cache struct {
	TTLSec int
}

type Limits struct {
	RPS         float64
	Burst       int
	LoginRPS    float64
	LoginBurst  int
	Concurrency int64
	TimeoutSec  int
}

type Config struct {
	App      App
	Log      Log
	Session  Session
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Upload   Upload
	CORS     CORS
	Security Security
	Cache    Cache
	Limits   Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "furrylink")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5555)
	v.SetDefault("app.http.readTimeoutSec", 10)
	v.SetDefault("app.http.writeTimeoutSec", 30)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.ops.host", "127.0.0.1")
	v.SetDefault("app.ops.port", 9090)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.issuer", "furrylink")
	v.SetDefault("session.ttlMin", 7*24*60)
	v.SetDefault("session.cookieName", "session")
	v.SetDefault("session.cookieDomain", "")
	v.SetDefault("session.cookieSecure", true)
	v.SetDefault("session.sameSite", "none")

	v.SetDefault("db.driver", "memory")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("upload.driver", "local")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.bucket", "")
	v.SetDefault("upload.prefix", "uploads")
	v.SetDefault("upload.credentialsFile", "")
	v.SetDefault("upload.maxSizeMB", 16)
	v.SetDefault("upload.allowedExt", []string{"png", "jpg", "jpeg", "gif"})

	v.SetDefault("cors.allowOrigins", []string{"http://localhost:3000"})
	v.SetDefault("security.strictOwnership", false)
	v.SetDefault("cache.ttlSec", 30)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.loginRPS", 1)
	v.SetDefault("limits.loginBurst", 10)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.timeoutSec", 10)
}

// Load path 为空时依次取 CONFIG_PATH、./configs/config.local.yaml；文件不存在则只用默认值 + 环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil || !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("config: session.secret is required")
	}
	switch c.DB.Driver {
	case "postgres", "mysql", "memory":
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}
	switch c.Upload.Driver {
	case "local", "gcs":
	default:
		return fmt.Errorf("config: unsupported upload.driver %q", c.Upload.Driver)
	}
	if c.Upload.Driver == "gcs" && c.Upload.Bucket == "" {
		return fmt.Errorf("config: upload.bucket is required for gcs")
	}
	return nil
}
