// Package registry maps subtypes to converter strategies
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/logger"
)

// Factory creates a strategy for one run
type Factory func(opts converters.Options) (converters.Strategy, error)

// Info describes a registered subtype
type Info struct {
	Subtype     string
	Description string
	// Format is the input table the subtype reads
	Format   string
	Defaults converters.Defaults
	Factory  Factory
}

// Registry holds the registered subtypes
type Registry struct {
	infos  map[string]*Info
	mu     sync.RWMutex
	logger *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		infos:  make(map[string]*Info),
		logger: logger.Get().With(zap.String("component", "converter_registry")),
	}
}

// Register adds a subtype. Registering a subtype twice is an error.
func (r *Registry) Register(info *Info) error {
	if info == nil || info.Subtype == "" || info.Factory == nil {
		return errors.New(errors.ErrorTypeConfig, "converter registration needs a subtype and a factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.infos[info.Subtype]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "subtype %s already registered", info.Subtype)
	}
	r.infos[info.Subtype] = info
	r.logger.Debug("converter registered", zap.String("subtype", info.Subtype))
	return nil
}

// Lookup returns the registration of subtype
func (r *Registry) Lookup(subtype string) (*Info, error) {
	r.mu.RLock()
	info, exists := r.infos[subtype]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown subtype %q", subtype).
			WithDetail("available", r.List())
	}
	return info, nil
}

// Create builds the strategy of subtype
func (r *Registry) Create(subtype string, opts converters.Options) (converters.Strategy, error) {
	info, err := r.Lookup(subtype)
	if err != nil {
		return nil, err
	}

	strategy, err := info.Factory(opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create converter "+subtype)
	}
	return strategy, nil
}

// List returns the registered subtypes in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.infos))
	for name := range r.infos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a subtype to the global registry
func Register(info *Info) error {
	return globalRegistry.Register(info)
}

// Lookup returns a registration from the global registry
func Lookup(subtype string) (*Info, error) {
	return globalRegistry.Lookup(subtype)
}

// Create builds a strategy from the global registry
func Create(subtype string, opts converters.Options) (converters.Strategy, error) {
	return globalRegistry.Create(subtype, opts)
}

// List returns the subtypes of the global registry
func List() []string {
	return globalRegistry.List()
}
