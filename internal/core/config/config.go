package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type HTTP struct {
	Host              string  `mapstructure:"host"`
	Port              int     `mapstructure:"port"`
	ReadTimeoutSec    int     `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec   int     `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec    int     `mapstructure:"idle_timeout_sec"`
	RequestTimeoutSec int     `mapstructure:"request_timeout_sec"`
	MaxBodyMB         int64   `mapstructure:"max_body_mb"`
	RateLimitRPS      float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst    int     `mapstructure:"rate_limit_burst"`
	MaxConcurrent     int64   `mapstructure:"max_concurrent"`
	// 为空时不信任任何代理，ClientIP 取连接的对端地址
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"` // 为空则只输出到 stdout
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type JWT struct {
	PrivateKeyPath string `mapstructure:"private_key_path"`
	PublicKeyPath  string `mapstructure:"public_key_path"`
	Issuer         string `mapstructure:"issuer"`
	TTLSeconds     int    `mapstructure:"ttl_seconds"`
}

func (j JWT) TTL() time.Duration { return time.Duration(j.TTLSeconds) * time.Second }

type Redis struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Product struct {
	// 非空时，写操作要求 X-User-Role 属于其中之一
	WriteRoles []string `mapstructure:"write_roles"`
}

type ProductClient struct {
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type Route struct {
	Name      string   `mapstructure:"name"`
	Prefix    string   `mapstructure:"prefix"`
	Upstreams []string `mapstructure:"upstreams"`
}

type Gateway struct {
	Routes         []Route  `mapstructure:"routes"`
	PublicPaths    []string `mapstructure:"public_paths"`
	PublicPrefixes []string `mapstructure:"public_prefixes"`
	TimeoutSec     int      `mapstructure:"timeout_sec"`
}

type Config struct {
	App           App           `mapstructure:"app"`
	HTTP          HTTP          `mapstructure:"http"`
	Log           Log           `mapstructure:"log"`
	JWT           JWT           `mapstructure:"jwt"`
	DB            DB            `mapstructure:"db"`
	Redis         Redis         `mapstructure:"redis"`
	Kafka         Kafka         `mapstructure:"kafka"`
	Product       Product       `mapstructure:"product"`
	ProductClient ProductClient `mapstructure:"product_client"`
	Gateway       Gateway       `mapstructure:"gateway"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "local")
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout_sec", 5)
	v.SetDefault("http.write_timeout_sec", 15)
	v.SetDefault("http.idle_timeout_sec", 60)
	v.SetDefault("http.request_timeout_sec", 10)
	v.SetDefault("http.max_body_mb", 16)
	v.SetDefault("http.rate_limit_rps", 200)
	v.SetDefault("http.rate_limit_burst", 400)
	v.SetDefault("http.max_concurrent", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("jwt.private_key_path", "")
	v.SetDefault("jwt.public_key_path", "")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("jwt.ttl_seconds", 3600)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 50)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl_seconds", 300)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "sales.events")

	v.SetDefault("product.write_roles", []string{})

	v.SetDefault("product_client.base_url", "http://localhost:8082")
	v.SetDefault("product_client.timeout_sec", 3)

	v.SetDefault("gateway.timeout_sec", 30)
}

// DefaultRoutes 对应 lb://account-service 等三个后端
func DefaultRoutes() []Route {
	return []Route{
		{Name: "account-service", Prefix: "/api/accounts", Upstreams: []string{"http://localhost:8081"}},
		{Name: "product-service", Prefix: "/api/products", Upstreams: []string{"http://localhost:8082"}},
		{Name: "sales-service", Prefix: "/api/sales", Upstreams: []string{"http://localhost:8083"}},
	}
}

// Load 读取 YAML 配置；APP_ 前缀的环境变量覆盖同名键（如 APP_HTTP_PORT）
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Gateway.Routes) == 0 {
		c.Gateway.Routes = DefaultRoutes()
	}
	return &c, nil
}

func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
