package core

import (
	"fmt"
	"strings"

	opts "github.com/goliatone/go-options"
)

// MapConfigSource serves externally supplied configuration from a nested
// map. Keys use dotted paths ("sqlbackend.dsn") to traverse nested maps.
type MapConfigSource struct {
	values map[string]any
}

func NewMapConfigSource(values map[string]any) *MapConfigSource {
	if values == nil {
		values = map[string]any{}
	}
	return &MapConfigSource{values: values}
}

func (s *MapConfigSource) TryGet(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	var current any = s.values
	for _, segment := range strings.Split(key, ".") {
		section, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = section[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Section fetches a nested configuration section as a raw map. Providers use
// this to locate their own settings block; a missing or non-map value reports
// absence rather than an error so auto-configuration stays a no-op.
func Section(source ConfigSource, key string) (map[string]any, bool) {
	if source == nil {
		return nil, false
	}
	value, ok := source.TryGet(key)
	if !ok {
		return nil, false
	}
	section, ok := value.(map[string]any)
	if !ok || len(section) == 0 {
		return nil, false
	}
	out := make(map[string]any, len(section))
	for k, v := range section {
		out[k] = v
	}
	return out, true
}

// MergeConfigLayers merges provider defaults with an externally supplied
// configuration section, external values taking precedence.
func MergeConfigLayers(defaults, overrides map[string]any) (map[string]any, error) {
	if defaults == nil {
		defaults = map[string]any{}
	}
	if overrides == nil {
		overrides = map[string]any{}
	}
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaults,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			overrides,
			opts.WithSnapshotID[map[string]any]("config"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("core: config layer stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return nil, fmt.Errorf("core: config layer merge failed: %w", err)
	}
	return merged.Value, nil
}
