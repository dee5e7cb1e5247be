// Package loader implements the openapi.Loader contract over files, fs.FS
// entries and HTTP URLs, with an in-memory response cache for remote specs.
package loader

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	pkgopenapi "github.com/goliatone/go-clientgen/pkg/openapi"
)

// Loader delegates to file, fs.FS, or HTTP strategies depending on the
// source kind.
type Loader struct {
	fs        fsReader
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration

	mu    sync.Mutex
	cache map[string][]byte
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgopenapi.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	l := &Loader{
		fs:        fsReader{fsys: options.FileSystem},
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
	if options.CacheResponses {
		l.cache = make(map[string][]byte)
	}
	return l
}

// Load fetches a document from the provided source and wraps it in a
// Document. URL payloads are cached per loader instance when enabled, so a
// multi-module run against a remote spec fetches it once.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case pkgopenapi.SourceKindFS:
		data, err = l.fs.read(ctx, src.Location())
	case pkgopenapi.SourceKindURL:
		if !l.allowHTTP {
			return pkgopenapi.Document{}, errors.New("openapi loader: http support disabled")
		}
		data, err = l.loadURL(ctx, src.Location())
	default:
		err = errors.New("openapi loader: unsupported source kind")
	}
	if err != nil {
		return pkgopenapi.Document{}, err
	}

	return pkgopenapi.NewDocument(src, data)
}

func (l *Loader) loadURL(ctx context.Context, url string) ([]byte, error) {
	if l.cache != nil {
		l.mu.Lock()
		cached, ok := l.cache[url]
		l.mu.Unlock()
		if ok {
			return append([]byte(nil), cached...), nil
		}
	}

	data, err := loadHTTP(ctx, l.http, url, l.timeout)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.mu.Lock()
		l.cache[url] = append([]byte(nil), data...)
		l.mu.Unlock()
	}
	return data, nil
}
