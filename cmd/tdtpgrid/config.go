package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/docs"
	"github.com/ruslano69/tdtp-datagrid/pkg/mockdata"
	"github.com/ruslano69/tdtp-datagrid/pkg/resilience"
	"github.com/ruslano69/tdtp-datagrid/pkg/session"
	"github.com/ruslano69/tdtp-datagrid/pkg/sources"
	"gopkg.in/yaml.v3"
)

// Config — конфигурация tdtpgrid
type Config struct {
	Server        ServerConfig      `yaml:"server"`
	Session       session.Config    `yaml:"session"`
	Table         datatable.Options `yaml:"table"`
	Sources       []sources.Config  `yaml:"sources"`
	OnSourceError string            `yaml:"on_source_error"` // fail | skip
	Components    ComponentsConfig  `yaml:"components"`
}

// ComponentsConfig — источник документации компонентов
type ComponentsConfig struct {
	Dir string `yaml:"dir"` // каталог с <id>.md; пусто — встроенный набор
}

// ServerConfig — параметры HTTP сервера
type ServerConfig struct {
	Name         string        `yaml:"name"`          // заголовок в UI
	Port         int           `yaml:"port"`          // по умолчанию 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // по умолчанию 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // по умолчанию 30s
}

const (
	defaultServerName = "TDTP DataGrid"
	defaultPort       = 8080

	// envRedisPassword задает session.redis.password, если в файле он пуст
	envRedisPassword = "TDTPGRID_REDIS_PASSWORD"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         defaultServerName,
			Port:         defaultPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Session: session.Config{
			Backend: session.BackendMemory,
			TTL:     session.DefaultTTL,
			Breaker: resilience.DefaultConfig(),
		},
		Table:         datatable.DefaultOptions(),
		OnSourceError: sources.OnErrorFail,
	}
}

// loadConfig читает YAML поверх значений по умолчанию и валидирует его
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	if cfg.Session.Redis.Password == "" {
		cfg.Session.Redis.Password = os.Getenv(envRedisPassword)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Table = cfg.Table.Normalize()
	return cfg, nil
}

// demoConfig — демонстрационный набор активности и сессии в памяти
func demoConfig() *Config {
	cfg := defaultConfig()
	cfg.Sources = []sources.Config{{
		Name:        "activities",
		Type:        sources.TypeMock,
		Description: "Synthetic user activity log",
		Rows:        sources.DefaultMockRows,
		Seed:        mockdata.DefaultSeed,
	}}
	cfg.Table = cfg.Table.Normalize()
	return cfg
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Server.Name == "" {
		c.Server.Name = defaultServerName
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("config: no sources configured")
	}
	switch c.Session.Backend {
	case "", session.BackendMemory:
	case session.BackendRedis:
		if c.Session.Redis.Addr == "" {
			return fmt.Errorf("config: session.redis.addr is required for the redis backend")
		}
		if err := c.Session.Breaker.Validate(); err != nil {
			return fmt.Errorf("config: session.breaker: %w", err)
		}
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}
	if err := c.loader().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) loader() *sources.Loader {
	return &sources.Loader{Sources: c.Sources, OnError: c.OnSourceError}
}

// componentLibrary загружает документацию компонентов
func (c *Config) componentLibrary() (*docs.Library, error) {
	if c.Components.Dir == "" {
		return docs.Default()
	}
	if info, err := os.Stat(c.Components.Dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config: components.dir %q is not a directory", c.Components.Dir)
	}
	lib, err := docs.Load(os.DirFS(c.Components.Dir))
	if err != nil {
		return nil, fmt.Errorf("config: components.dir %q: %w", c.Components.Dir, err)
	}
	return lib, nil
}

func (c *Config) sessionTTL() time.Duration {
	if c.Session.TTL > 0 {
		return c.Session.TTL
	}
	return session.DefaultTTL
}
