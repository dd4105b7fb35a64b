package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
	"github.com/sirupsen/logrus"

	"tableflip.dev/medview/pkg/logging"
)

// ErrSourceUnavailable means the backend itself cannot serve any collection,
// as opposed to one collection failing.
var ErrSourceUnavailable = errors.New("store: source unavailable")

// Extension is appended to a collection name to locate its payload.
const Extension = ".json"

// Source fetches the raw payload of a named collection.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, name string) ([]byte, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// NewSource picks a backend for location: http(s) URLs are fetched over the
// network, anything else is treated as a directory.
func NewSource(cfg *Config, log logrus.FieldLogger) (Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no configuration", ErrSourceUnavailable)
	}
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty data location", ErrSourceUnavailable)
	}
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, cfg.HTTPTimeout, cfg.HTTPRetries, log)
	}
	return NewDirSource(location)
}

// DirSource reads <name>.json files from a directory through diskv.
type DirSource struct {
	d    *diskv.Diskv
	base string
}

// NewDirSource opens dir ("~" is expanded). The directory must exist.
func NewDirSource(dir string) (*DirSource, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceUnavailable, expanded)
	}
	return &DirSource{
		d: diskv.New(diskv.Options{
			BasePath:     expanded,
			Transform:    flatTransform,
			CacheSizeMax: 0,
		}),
		base: expanded,
	}, nil
}

// Fetch implements Source.
func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := fileName(name)
	if err != nil {
		return nil, err
	}
	data, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return data, nil
}

// Base returns the resolved directory.
func (s *DirSource) Base() string { return s.base }

// HTTPSource fetches <base>/<name>.json with retries.
type HTTPSource struct {
	base   *url.URL
	client *retryablehttp.Client
}

// NewHTTPSource builds a source for the base URL.
func NewHTTPSource(base string, timeout time.Duration, retries int, log logrus.FieldLogger) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", ErrSourceUnavailable, base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 50 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = retryLogger{log: logging.Or(log)}
	// Keep the last response when retries run out so a server error stays
	// a per-collection failure.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &HTTPSource{base: u, client: client}, nil
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	file, err := fileName(name)
	if err != nil {
		return nil, err
	}
	target := s.base.ResolveReference(&url.URL{Path: file})
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("store: fetch %s: %w", target, ctxErr)
		}
		// No response at all: the host cannot be reached.
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("store: fetch %s: unexpected status %s", target, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func fileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("store: invalid collection name %q", name)
	}
	return name + Extension, nil
}

func flatTransform(string) []string { return []string{} }

// retryLogger routes retryablehttp's leveled output into logrus.
type retryLogger struct {
	log logrus.FieldLogger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.log.WithFields(fields(kv)).Error(msg) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.log.WithFields(fields(kv)).Debug(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.log.WithFields(fields(kv)).Debug(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.log.WithFields(fields(kv)).Warn(msg) }

func fields(kv []interface{}) logrus.Fields {
	out := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
