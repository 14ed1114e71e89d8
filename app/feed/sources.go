package feed

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxItems = 30
	DefaultTimeout  = 30
)

//go:embed sources.yml
var defaultSources []byte

type SourceRegistry struct {
	sources map[string]Source
	mu      sync.RWMutex
}

func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]Source),
	}
}

// LoadDefaults loads the source list compiled into the binary.
func (r *SourceRegistry) LoadDefaults() error {
	return r.Load(defaultSources)
}

func (r *SourceRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := r.Load(data); err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}

	return nil
}

// Load replaces the registry contents with the sources described by data.
func (r *SourceRegistry) Load(data []byte) error {
	sources, err := r.parseSources(data)
	if err != nil {
		return err
	}

	loaded := make(map[string]Source, len(sources))
	for i, source := range sources {
		if err := r.validateSource(source); err != nil {
			return fmt.Errorf("invalid source at index %d: %w", i, err)
		}
		if _, exists := loaded[source.Name]; exists {
			return fmt.Errorf("duplicate source name '%s'", source.Name)
		}
		loaded[source.Name] = source

		slog.Debug("Source loaded", "source", source.Name, "always_include", source.AlwaysInclude, "paywalled", source.Paywalled)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = loaded

	return nil
}

func (r *SourceRegistry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[name]
	return source, ok
}

// Sources returns every configured source ordered by name.
func (r *SourceRegistry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]Source, 0, len(r.sources))
	for _, source := range r.sources {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})
	return sources
}

func (r *SourceRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

func (r *SourceRegistry) parseSources(data []byte) ([]Source, error) {
	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range file.Sources {
		if file.Sources[i].MaxItems == 0 {
			file.Sources[i].MaxItems = DefaultMaxItems
		}
		if file.Sources[i].Timeout == 0 {
			file.Sources[i].Timeout = DefaultTimeout
		}
	}

	return file.Sources, nil
}

func (r *SourceRegistry) validateSource(source Source) error {
	requiredFields := map[string]string{
		"source name": source.Name,
		"source URL":  source.URL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	nonNegativeFields := map[string]int{
		"max items": source.MaxItems,
		"timeout":   source.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for i, label := range append(append([]string{}, source.ForceTags...), source.ForceTopics...) {
		if label == "" {
			return fmt.Errorf("empty forced label at index %d", i)
		}
	}

	return nil
}
