package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Storage   S3Configs        `toml:"storage"`
	File      FileConfigs      `toml:"file"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Search    SearchConfigs    `toml:"search"`
	Autotile  AutotileConfigs  `toml:"autotile"`
	Preview   PreviewConfigs   `toml:"preview"`
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`

	// Path is only used by the sqlite driver.
	Path string `toml:"path"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

// MigrationURL is the url form golang-migrate expects for the mysql driver.
func (d DatabaseConfigs) MigrationURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIServerConfigs struct {
	ServerConfigs `toml:"server"`

	MaxLimit       int      `toml:"max_limit"`
	DefaultLimit   int      `toml:"default_limit"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type AuthConfigs struct {
	TokenSecret     string        `toml:"token_secret"`
	TokenExpiration time.Duration `toml:"token_expiration"`
}

type S3Configs struct {
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	PublicEndpoint string `toml:"public_endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	SSLDisabled    bool   `toml:"ssl_disabled"`
	Bucket         string `toml:"bucket"`
}

type FileConfigs struct {
	MaxSize int64 `toml:"max_size"`
}

type RedisConfigs struct {
	Addr     string        `toml:"addr"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

type KafkaConfigs struct {
	Addrs    []string `toml:"addrs"`
	ClientID string   `toml:"client_id"`
	Topic    string   `toml:"topic"`
}

type SearchConfigs struct {
	IndexDir string `toml:"index_dir"`
}

type AutotileConfigs struct {
	// MaxCells bounds the size of a resolved layer for a single request.
	MaxCells int `toml:"max_cells"`
}

type PreviewConfigs struct {
	Size        int    `toml:"size"`
	Prefix      string `toml:"prefix"`
	Concurrency int    `toml:"concurrency"`
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver: "sqlite",
			Path:   "tileset.db",
			Host:   "localhost",
			Port:   "3306",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:  ServerConfigs{Host: "", Port: "8080"},
			MaxLimit:       50,
			DefaultLimit:   10,
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			TokenExpiration: 24 * time.Hour,
		},
		Storage: S3Configs{
			Region: "us-east-1",
			Bucket: "tilesets",
		},
		File: FileConfigs{
			MaxSize: 8 << 20,
		},
		Redis: RedisConfigs{
			CacheTTL: time.Hour,
		},
		Kafka: KafkaConfigs{
			ClientID: "tileset",
			Topic:    "tileset",
		},
		Search: SearchConfigs{
			IndexDir: "index",
		},
		Autotile: AutotileConfigs{
			MaxCells: 256 * 256,
		},
		Preview: PreviewConfigs{
			Size:        48,
			Prefix:      "previews",
			Concurrency: 8,
		},
	}
}

// Load reads the toml file at path on top of the defaults. An empty path only
// applies defaults and environment overrides.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Configs) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}

	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}

	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}

	if v := os.Getenv("API_PORT"); v != "" {
		cfg.ApiServer.Port = v
	}
}
