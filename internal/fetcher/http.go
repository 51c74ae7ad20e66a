package fetcher

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent      string
	Referer        string
	AcceptLanguage string
	Timeout        time.Duration
	// Limiter is shared by every request made through the fetcher. Nil means
	// no spacing.
	Limiter *rate.Limiter
}

// HTTPFetcher implements Fetcher using net/http with a shared rate limiter.
// Each request is attempted once.
type HTTPFetcher struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

// NewSpacingLimiter returns a limiter that lets one request through per
// interval. A non-positive interval disables spacing.
func NewSpacingLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "sadamad-data/1.0"
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewSpacingLimiter(0)
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 4,
		MaxConnsPerHost:     4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:    opts,
		limiter: limiter,
	}
}

// Download fetches the URL and returns the response body. Bodies declared in
// another charset are converted to UTF-8.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Cache-Control", "no-cache")
	if f.opts.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", f.opts.AcceptLanguage)
	}
	if f.opts.Referer != "" {
		req.Header.Set("Referer", f.opts.Referer)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "download %s", rawURL)
	}
	zap.L().Debug("http response",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, eris.Errorf("download: unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := utf8Body(resp)
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	return body, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// utf8Body wraps the response body in a decoder for the charset named in the
// Content-Type header.
func utf8Body(resp *http.Response) (io.ReadCloser, error) {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return resp.Body, nil
	}
	charset := strings.ToLower(strings.TrimSpace(params["charset"]))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return resp.Body, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "download: unsupported charset %q", charset)
	}
	return readCloser{Reader: enc.NewDecoder().Reader(resp.Body), Closer: resp.Body}, nil
}
