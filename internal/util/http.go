package util

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/avast/retry-go/v4"
)

type HTTPClientOptions struct {
	Timeout    time.Duration
	UserAgent  string
	Cookie     string
	CookieFile string
	Transport  http.RoundTripper
	// RateLimit is the number of requests per second allowed to one host.
	// Zero disables limiting.
	RateLimit float64
	// Cloudflare wraps the transport with browser-like TLS and headers.
	Cloudflare  bool
	DebugLogger interface {
		Debugf(string, ...any)
	}
}

func NewHTTPClient(opts HTTPClientOptions) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	var baseTransport http.RoundTripper
	if opts.Transport != nil {
		baseTransport = opts.Transport
	} else {
		baseTransport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 100,
			ForceAttemptHTTP2:   true,
		}
	}

	if opts.Cloudflare {
		baseTransport = cloudflarebp.AddCloudFlareByPass(baseTransport)
	}

	rt := roundTripper{
		base:         baseTransport,
		ua:           opts.UserAgent,
		cookieHeader: joinCookies(opts.Cookie, opts.CookieFile),
		log:          opts.DebugLogger,
	}
	if opts.RateLimit > 0 {
		rt.limiter = NewHostLimiter(opts.RateLimit)
	}

	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: rt,
		Jar:       jar,
	}

	if opts.DebugLogger != nil {
		opts.DebugLogger.Debugf("HTTP client initialized (timeout=%s, ua=%q, cookieFile=%q, rate=%.2f/s, cloudflare=%t)",
			opts.Timeout, opts.UserAgent, opts.CookieFile, opts.RateLimit, opts.Cloudflare)
	}

	return client, nil
}

type roundTripper struct {
	base         http.RoundTripper
	ua           string
	cookieHeader string
	limiter      *HostLimiter
	log          interface{ Debugf(string, ...any) }
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.limiter != nil {
		if err := rt.limiter.Wait(req.Context(), req.URL.Hostname()); err != nil {
			return nil, err
		}
	}

	if rt.ua != "" {
		req.Header.Set("User-Agent", rt.ua)
	}

	if rt.cookieHeader != "" && req.Header.Get("Cookie") == "" {
		req.Header.Set("Cookie", rt.cookieHeader)
	}

	if rt.log != nil {
		rt.log.Debugf("HTTP %s %s", req.Method, req.URL.String())
	}

	return rt.base.RoundTrip(req)
}

func joinCookies(inline, file string) string {
	s := strings.TrimSpace(inline)
	if file == "" {
		return s
	}

	b, err := os.ReadFile(file)
	if err != nil {
		return s
	}

	// first non-empty line
	sc := bufio.NewScanner(strings.NewReader(string(b)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if s == "" {
			return line
		}
		return s + "; " + line
	}

	return s
}

// DoWithRetry retries transport errors and 5xx responses with a growing
// backoff. Responses below 500 are returned to the caller as is.
func DoWithRetry(c *http.Client, req *http.Request, attempts int, backoff time.Duration) (*http.Response, error) {
	var resp *http.Response

	err := retry.Do(
		func() error {
			r, err := c.Do(req)
			if err != nil {
				return err
			}
			if r.StatusCode >= 500 {
				_ = r.Body.Close()
				return fmt.Errorf("HTTP %d", r.StatusCode)
			}
			resp = r
			return nil
		},
		retry.Context(req.Context()),
		retry.Attempts(uint(max(1, attempts))),
		retry.Delay(backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%s after %d attempts: %w", req.URL, attempts, err)
	}

	return resp, nil
}

// GetBody fetches target and returns its body. Any status other than 2xx
// is an error.
func GetBody(ctx context.Context, c *http.Client, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}

	resp, err := DoWithRetry(c, req, 3, 500*time.Millisecond)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// PickUserAgent returns override, or a random desktop browser User-Agent.
func PickUserAgent(override string) string {
	if override != "" {
		return override
	}

	return browser.Computer()
}
