package datasource

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"inflammation/internal/config"
	apperrors "inflammation/internal/errors"
	"inflammation/internal/infrastructure"
)

// Factory builds a Source reading from dir
type Factory func(dir string) Source

// Registry maps file extensions to source factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Option configures the sources built by DefaultRegistry
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	cache   *Cache
}

// WithLogger sets the logger given to every source
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics sets the instruments given to every source
func WithMetrics(m *infrastructure.BusinessMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithCache wraps every source in a CachedSource sharing c
func WithCache(c *Cache) Option {
	return func(o *options) { o.cache = c }
}

// DefaultRegistry registers the CSV, JSON and XLSX sources configured by cfg.
func DefaultRegistry(cfg config.SourceConfig, opts ...Option) *Registry {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := infrastructure.WithComponent(o.logger, "datasource")

	wrap := func(s FileSource) Source {
		if o.cache == nil {
			return s
		}
		return NewCachedSource(s, o.cache, o.metrics)
	}

	r := NewRegistry()
	r.Register(".csv", func(dir string) Source {
		return wrap(&CSVSource{Dir: dir, Pattern: cfg.CSVPattern, Workers: cfg.Workers, Logger: logger, Metrics: o.metrics})
	})
	r.Register(".json", func(dir string) Source {
		return wrap(&JSONSource{Dir: dir, Pattern: cfg.JSONPattern, MultiFile: cfg.JSONMultiFile, Logger: logger, Metrics: o.metrics})
	})
	r.Register(".xlsx", func(dir string) Source {
		return wrap(&XLSXSource{Dir: dir, Pattern: cfg.XLSXPattern, Sheet: cfg.XLSXSheet, Workers: cfg.Workers, Logger: logger, Metrics: o.metrics})
	})
	return r
}

// Register associates ext (with or without the leading dot, any case) with f
func (r *Registry) Register(ext string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normaliseExt(ext)] = f
}

// ForPath selects a source by the extension of path and points it at the
// directory containing path. The file itself need not exist.
func (r *Registry) ForPath(path string) (Source, error) {
	ext := normaliseExt(filepath.Ext(path))

	r.mu.RLock()
	f, ok := r.factories[ext]
	r.mu.RUnlock()

	if !ok || ext == "" {
		return nil, apperrors.NewUnsupportedFormatError(filepath.Ext(path))
	}
	return f(filepath.Dir(path)), nil
}

// Extensions lists the registered extensions in sorted order
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.factories))
	for ext := range r.factories {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func normaliseExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
