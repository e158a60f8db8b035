// Package sqlbackend implements the SQL storage backend descriptor. It owns
// the "sqlbackend" extension kind and builds bun-backed runtime services for
// SQLite and Postgres.
package sqlbackend

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	"github.com/goliatone/go-datastore/core"
	persistence "github.com/goliatone/go-persistence-bun"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const Kind = "sqlbackend"

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Settings is the provider-owned extension fragment. Client, when set, is a
// pre-built database handle (a *bun.DB, a go-persistence-bun client, or
// anything exposing DB() *bun.DB) and is never populated from external
// configuration.
type Settings struct {
	Driver       string `koanf:"driver" mapstructure:"driver"`
	DSN          string `koanf:"dsn" mapstructure:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns" mapstructure:"max_idle_conns"`

	Client any `koanf:"-" mapstructure:"-"`
}

func DefaultSettings() Settings {
	return Settings{Driver: DriverSQLite}
}

func (s *Settings) Kind() string {
	return Kind
}

func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("sqlbackend: settings are nil")
	}
	switch strings.TrimSpace(s.Driver) {
	case "", DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("sqlbackend: unsupported driver: %s", s.Driver)
	}
	if s.MaxOpenConns < 0 || s.MaxIdleConns < 0 {
		return fmt.Errorf("sqlbackend: connection pool sizes must not be negative")
	}
	return nil
}

func (s *Settings) Clone() core.Extension {
	if s == nil {
		return nil
	}
	cloned := *s
	return &cloned
}

// Configure applies an explicit settings mutation for this backend to the
// builder, creating the extension with defaults when absent.
func Configure(builder *core.Builder, fn func(*Settings)) *core.Builder {
	return builder.Configure(Kind, mutator(fn))
}

func mutator(fn func(*Settings)) func(core.Extension) core.Extension {
	return func(current core.Extension) core.Extension {
		settings, _ := current.(*Settings)
		if settings == nil {
			defaults := DefaultSettings()
			settings = &defaults
		}
		if fn != nil {
			fn(settings)
		}
		return settings
	}
}

// Descriptor is the stateless provider descriptor for the SQL backend.
type Descriptor struct{}

func (Descriptor) Kind() string {
	return Kind
}

// AutoConfigure decodes the "sqlbackend" configuration section, layered over
// provider defaults, and stages it through the builder's auto-configuration
// path so explicit settings are never overwritten. Absent or nil
// configuration leaves the builder untouched.
func (Descriptor) AutoConfigure(source core.ConfigSource, builder *core.Builder) error {
	if source == nil || builder == nil {
		return nil
	}
	section, ok := core.Section(source, Kind)
	if !ok {
		return nil
	}
	defaults := DefaultSettings()
	merged, err := core.MergeConfigLayers(defaultsLayer(defaults), section)
	if err != nil {
		return err
	}
	settings, err := cfgx.Build[Settings](merged,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Settings]((*Settings).Validate),
	)
	if err != nil {
		return fmt.Errorf("sqlbackend: invalid configuration section: %w", err)
	}
	builder.AutoConfigure(Kind, func(core.Extension) core.Extension {
		staged := settings
		return &staged
	})
	return nil
}

func defaultsLayer(defaults Settings) map[string]any {
	return map[string]any{
		"driver": defaults.Driver,
	}
}

// CreateServices builds the backend's runtime service set. It opens the
// database handle lazily (no connection is established here) and fails with
// a configuration error when required settings are absent.
func (Descriptor) CreateServices(options *core.Options) (core.ProviderServices, error) {
	ext, ok := options.Extension(Kind)
	if !ok {
		return nil, core.NewConfigurationError("sqlbackend: extension is not configured")
	}
	settings, ok := ext.(*Settings)
	if !ok {
		return nil, core.NewConfigurationError(fmt.Sprintf("sqlbackend: unexpected extension type %T", ext))
	}

	if settings.Client != nil {
		db, err := resolveBunDB(settings.Client)
		if err != nil {
			return nil, err
		}
		return &Services{db: db, settings: *settings}, nil
	}

	if strings.TrimSpace(settings.DSN) == "" {
		return nil, core.NewConfigurationError("sqlbackend: dsn is required")
	}
	driver := strings.TrimSpace(settings.Driver)
	if driver == "" {
		driver = DriverSQLite
	}

	var db *bun.DB
	switch driver {
	case DriverSQLite:
		sqldb, err := sql.Open("sqlite3", settings.DSN)
		if err != nil {
			return nil, core.NewConfigurationError("sqlbackend: open sqlite handle: " + err.Error())
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb, err := sql.Open("postgres", settings.DSN)
		if err != nil {
			return nil, core.NewConfigurationError("sqlbackend: open postgres handle: " + err.Error())
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, core.NewConfigurationError("sqlbackend: unsupported driver: " + driver)
	}

	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}
	if settings.MaxIdleConns > 0 {
		db.SetMaxIdleConns(settings.MaxIdleConns)
	}
	return &Services{db: db, settings: *settings}, nil
}

// Services is the SQL backend's runtime service set.
type Services struct {
	db       *bun.DB
	settings Settings
}

func (s *Services) ProviderKind() string {
	return Kind
}

func (s *Services) DB() *bun.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Services) Settings() Settings {
	if s == nil {
		return Settings{}
	}
	return s.settings
}

func (s *Services) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewRepository wires a typed repository over the backend's database handle.
func NewRepository[T any](services *Services, handlers repository.ModelHandlers[T]) (repository.Repository[T], error) {
	if services == nil || services.db == nil {
		return nil, core.NewConfigurationError("sqlbackend: services hold no database handle")
	}
	repo := repository.NewRepository[T](services.db, handlers)
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlbackend: invalid repository wiring: %w", err)
		}
	}
	return repo, nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case *bun.DB:
		if typed == nil {
			return nil, core.NewConfigurationError("sqlbackend: client is a nil bun db")
		}
		return typed, nil
	case *persistence.Client:
		if typed == nil {
			return nil, core.NewConfigurationError("sqlbackend: client is a nil persistence client")
		}
		db := typed.DB()
		if db == nil {
			return nil, core.NewConfigurationError("sqlbackend: persistence client returned nil bun db")
		}
		return db, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, core.NewConfigurationError("sqlbackend: client returned nil bun db")
		}
		return db, nil
	default:
		return nil, core.NewConfigurationError(fmt.Sprintf("sqlbackend: unsupported client type %T", candidate))
	}
}

var (
	_ core.Provider  = Descriptor{}
	_ core.Extension = (*Settings)(nil)
)
