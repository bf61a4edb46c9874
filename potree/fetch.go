package potree

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// TransportError wraps a URL transform or fetch failure. The load that hit
// it fails as a whole; this layer never retries.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// URLTransform maps a relative resource path to the URL it should be
// fetched from, for example by prepending a base URL or signing the request.
// It must be idempotent and side-effect free; it may block (signing round
// trips), so implementations honor ctx.
type URLTransform func(ctx context.Context, path string) (string, error)

// PassThroughTransform returns the path unchanged.
func PassThroughTransform(ctx context.Context, path string) (string, error) {
	return path, nil
}

// BaseURLTransform resolves relative paths against a fixed base URL.
func BaseURLTransform(base string) URLTransform {
	base = strings.TrimSuffix(base, "/")
	return func(ctx context.Context, path string) (string, error) {
		return base + "/" + strings.TrimPrefix(path, "/"), nil
	}
}

// Fetcher retrieves the raw bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP with an injected client. The zero value uses
// http.DefaultClient and no cross-origin mode.
type HTTPFetcher struct {
	Client *http.Client
	// CrossOriginMode, when set, is sent as the Sec-Fetch-Mode request
	// header, mirroring the viewer-side cross-origin fetch mode.
	CrossOriginMode string
}

// Fetch issues a GET for the URL and returns the whole body. Any transport
// failure or non-200 status comes back as a TransportError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (_ []byte, err error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	if f.CrossOriginMode != "" {
		req.Header.Set("Sec-Fetch-Mode", f.CrossOriginMode)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer func() {
		err = multierr.Combine(err, resp.Body.Close())
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: url, Err: errors.Errorf("unexpected status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	return data, nil
}
