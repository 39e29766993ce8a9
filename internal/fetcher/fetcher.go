// package fetcher retrieves remote documents over HTTP, optionally inflating gzip payloads and decoding JSON.
//
// The Fetch* helpers log failures and report absence instead of returning errors.
package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvplus/internal/catalog"
	"github.com/desertthunder/tvplus/internal/shared"
)

const defaultTimeout = 30 * time.Second

// Options configures a [Fetcher].
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client // base client; its transport is wrapped to set the User-Agent
	Logger    *log.Logger
}

// Fetcher performs bounded GET requests with a fixed client identifier.
type Fetcher struct {
	client *http.Client
	logger *log.Logger
}

// New creates a Fetcher from opts, filling in defaults for zero values.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	base := http.DefaultTransport
	if opts.Client != nil && opts.Client.Transport != nil {
		base = opts.Client.Transport
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &userAgentTransport{userAgent: opts.UserAgent, base: base},
		},
		logger: opts.Logger,
	}
}

// Get downloads url and returns the body, inflating it first when gzipped is set.
func (f *Fetcher) Get(ctx context.Context, url string, gzipped bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", shared.ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrFetch, err)
	}

	if !gzipped {
		return body, nil
	}

	return inflate(body)
}

func inflate(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecompress, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecompress, err)
	}
	return out, nil
}

// FetchText returns the decoded body of url as text. Failures are logged and reported as ("", false).
func (f *Fetcher) FetchText(ctx context.Context, url string, gzipped bool) (string, bool) {
	body, err := f.Get(ctx, url, gzipped)
	if err != nil {
		f.logger.Error("error fetching", "url", url, "error", err)
		return "", false
	}
	return string(body), true
}

// FetchJSON decodes the body of url into v. The body must be valid UTF-8. Failures are
// logged and reported as false.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, gzipped bool, v any) bool {
	body, err := f.Get(ctx, url, gzipped)
	if err != nil {
		f.logger.Error("error fetching", "url", url, "error", err)
		return false
	}

	if !utf8.Valid(body) {
		f.logger.Error("error fetching", "url", url, "error", fmt.Errorf("%w: payload is not valid UTF-8", shared.ErrDecode))
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		f.logger.Error("error fetching", "url", url, "error", fmt.Errorf("%w: %v", shared.ErrDecode, err))
		return false
	}

	f.logger.Debug("fetched", "url", url, "bytes", len(body))
	return true
}

// FetchCatalog downloads and decodes the channel catalog. It returns nil if the document
// could not be retrieved or carries no regions.
func (f *Fetcher) FetchCatalog(ctx context.Context, url string, gzipped bool) *catalog.Catalog {
	var c catalog.Catalog
	if !f.FetchJSON(ctx, url, gzipped, &c) {
		return nil
	}

	if err := c.Validate(); err != nil {
		f.logger.Error("error fetching", "url", url, "error", err)
		return nil
	}

	f.logger.Debug("catalog fetched", "url", url, "regions", len(c.Regions))
	return &c
}

// Head issues a HEAD request without following redirects and returns the status code.
func (f *Fetcher) Head(ctx context.Context, url string, timeout time.Duration) (int, error) {
	client := &http.Client{
		Timeout:   timeout,
		Transport: f.client.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", shared.ErrFetch, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrFetch, err)
	}
	resp.Body.Close()

	return resp.StatusCode, nil
}
