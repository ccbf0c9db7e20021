// Package sources загружает наборы данных, которые показывает таблица.
//
// Источник описывается Config и открывается через Open: mock, json,
// sqlite, postgres, mysql, mssql, s3 загружаются один раз, stream
// создает пустой живой набор, который пополняет StreamIngest.
package sources

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ruslano69/tdtp-datagrid/pkg/brokers"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
	"github.com/ruslano69/tdtp-datagrid/pkg/retry"
)

// Типы источников
const (
	TypeMock     = "mock"
	TypeJSON     = "json"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMySQL    = "mysql"
	TypeMSSQL    = "mssql"
	TypeS3       = "s3"
	TypeStream   = "stream"
)

// ErrUnknownType — тип источника не зарегистрирован
var ErrUnknownType = errors.New("unknown source type")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config описывает один источник данных
type Config struct {
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Description string          `yaml:"description"`
	Columns     []schema.Column `yaml:"columns"` // пусто — вывести из данных

	// SQL
	DSN   string `yaml:"dsn"`
	Query string `yaml:"query"`

	// json
	Path string `yaml:"path"`

	// mock
	Rows int   `yaml:"rows"`
	Seed int64 `yaml:"seed"`

	// s3
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // MinIO и другие S3-совместимые хранилища
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// stream
	Broker  brokers.Config `yaml:"broker"`
	Retry   retry.Config   `yaml:"retry"`
	MaxRows int            `yaml:"max_rows"` // 0 — без ограничения
}

// Validate проверяет обязательные поля для типа источника
func (c Config) Validate() error {
	if !namePattern.MatchString(c.Name) {
		return fmt.Errorf("source %q: name must match %s", c.Name, namePattern)
	}

	switch c.Type {
	case TypeMock:
		if c.Rows < 0 {
			return fmt.Errorf("source %q: rows must be >= 0", c.Name)
		}
	case TypeJSON:
		if c.Path == "" {
			return fmt.Errorf("source %q: path is required", c.Name)
		}
	case TypeSQLite, TypePostgres, TypeMySQL, TypeMSSQL:
		if c.DSN == "" || c.Query == "" {
			return fmt.Errorf("source %q: dsn and query are required", c.Name)
		}
	case TypeS3:
		if c.Bucket == "" || c.Key == "" {
			return fmt.Errorf("source %q: bucket and key are required", c.Name)
		}
	case TypeStream:
		if c.Broker.Type == "" {
			return fmt.Errorf("source %q: broker.type is required", c.Name)
		}
		if c.MaxRows < 0 {
			return fmt.Errorf("source %q: max_rows must be >= 0", c.Name)
		}
		if err := c.Retry.Validate(); err != nil {
			return fmt.Errorf("source %q: %w", c.Name, err)
		}
	default:
		return fmt.Errorf("source %q: %w: %s", c.Name, ErrUnknownType, c.Type)
	}

	if issues := schema.Lint(c.Columns); len(issues) > 0 {
		return fmt.Errorf("source %q: columns: %s", c.Name, issues[0])
	}
	return nil
}
