package openapi

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches OpenAPI documents from different sources (filesystem,
// fs.FS, HTTP). Implementations live under internal/openapi but satisfy
// this contract.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem enables loading from an abstract filesystem; defaults to
	// the operating system if nil.
	FileSystem fs.FS

	// HTTPClient allows callers to inject custom HTTP behaviour (timeouts,
	// proxies). Nil means HTTP sources are disabled unless
	// AllowHTTPFallback is true.
	HTTPClient *http.Client

	// AllowHTTPFallback toggles the default HTTP loader when no client is
	// supplied. Keeping this explicit preserves offline-first behaviour.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration

	// CacheResponses keeps fetched URL payloads in memory keyed by URL so
	// repeated loads of the same remote spec within one process fetch once.
	CacheResponses bool
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for relative paths.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote OpenAPI documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading using a default client and assigns
// an optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithResponseCache toggles the per-loader URL response cache.
func WithResponseCache(enabled bool) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.CacheResponses = enabled
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{CacheResponses: true}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
