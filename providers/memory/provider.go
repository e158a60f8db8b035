// Package memory implements an in-process storage backend descriptor. It
// owns the "memory" extension kind and is mainly useful for tests and local
// development, or as a second registered provider when exercising registry
// routing.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-config/cfgx"
	"github.com/goliatone/go-datastore/core"
	"github.com/google/uuid"
)

const Kind = "memory"

const DefaultStoreName = "primary"

type Settings struct {
	Name string `koanf:"name" mapstructure:"name"`
}

func DefaultSettings() Settings {
	return Settings{Name: DefaultStoreName}
}

func (s *Settings) Kind() string {
	return Kind
}

func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("memory: settings are nil")
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

// Configure applies an explicit settings mutation for the memory backend.
func Configure(builder *core.Builder, fn func(*Settings)) *core.Builder {
	return builder.Configure(Kind, func(current core.Extension) core.Extension {
		settings, _ := current.(*Settings)
		if settings == nil {
			defaults := DefaultSettings()
			settings = &defaults
		}
		if fn != nil {
			fn(settings)
		}
		return settings
	})
}

type Descriptor struct{}

func (Descriptor) Kind() string {
	return Kind
}

func (Descriptor) AutoConfigure(source core.ConfigSource, builder *core.Builder) error {
	if source == nil || builder == nil {
		return nil
	}
	section, ok := core.Section(source, Kind)
	if !ok {
		return nil
	}
	defaults := DefaultSettings()
	merged, err := core.MergeConfigLayers(map[string]any{"name": defaults.Name}, section)
	if err != nil {
		return err
	}
	settings, err := cfgx.Build[Settings](merged,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Settings]((*Settings).Validate),
	)
	if err != nil {
		return fmt.Errorf("memory: invalid configuration section: %w", err)
	}
	builder.AutoConfigure(Kind, func(core.Extension) core.Extension {
		staged := settings
		return &staged
	})
	return nil
}

func (Descriptor) CreateServices(options *core.Options) (core.ProviderServices, error) {
	ext, ok := options.Extension(Kind)
	if !ok {
		return nil, core.NewConfigurationError("memory: extension is not configured")
	}
	settings, ok := ext.(*Settings)
	if !ok {
		return nil, core.NewConfigurationError(fmt.Sprintf("memory: unexpected extension type %T", ext))
	}
	name := strings.TrimSpace(settings.Name)
	if name == "" {
		name = DefaultStoreName
	}
	return &Services{
		id:   uuid.NewString(),
		name: name,
		data: make(map[string]any),
	}, nil
}

// Services is an in-process keyed store. Safe for concurrent use.
type Services struct {
	id   string
	name string

	mu   sync.RWMutex
	data map[string]any
}

func (s *Services) ProviderKind() string {
	return Kind
}

// ID is the unique identity of this service set instance.
func (s *Services) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

func (s *Services) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *Services) Set(key string, value any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
}

func (s *Services) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	value, ok := s.data[key]
	s.mu.RUnlock()
	return value, ok
}

func (s *Services) Delete(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

func (s *Services) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var (
	_ core.Provider  = Descriptor{}
	_ core.Extension = (*Settings)(nil)
)
