package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/ryo246912/bb-pr-stats/internal/lib/sl"
)

// ErrFetchFailed is returned once every attempt of a request has failed
var ErrFetchFailed = errors.New("bitbucket fetch failed")

// Options configures a Client
type Options struct {
	// BaseURL is the scheme and host of the server, e.g. https://code.example.com
	BaseURL string
	Token   string
	// Timeout caps a single request. Zero means no timeout.
	Timeout   time.Duration
	Retry     RetryPolicy
	Logger    *slog.Logger
	Transport http.RoundTripper
}

// Client wraps the REST client shared by every fetch in a run
type Client struct {
	rest    *api.RESTClient
	baseURL string
	retry   RetryPolicy
	log     *slog.Logger
}

// BaseURLForHost returns the https base URL for a server FQDN
func BaseURLForHost(fqdn string) string {
	return "https://" + strings.TrimSuffix(strings.TrimSpace(fqdn), "/")
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("bearer token is required")
	}

	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	restClient, err := api.NewRESTClient(api.ClientOptions{
		Host:               u.Host,
		AuthToken:          opts.Token,
		Timeout:            opts.Timeout,
		SkipDefaultHeaders: true,
		LogIgnoreEnv:       true,
		Transport:          &bearerTransport{token: opts.Token, base: opts.Transport},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy()
	}

	log := opts.Logger
	if log == nil {
		log = sl.NewDiscardLogger()
	}

	return &Client{
		rest:    restClient,
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		retry:   retry,
		log:     log,
	}, nil
}

// fetch GETs path and decodes the JSON body into out, retrying per the
// client's policy. The returned error wraps ErrFetchFailed once attempts are
// exhausted, or is the context error if ctx ends first.
func (c *Client) fetch(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	attempts := c.retry.attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, out)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		lastErr = err

		c.log.Warn("request failed",
			slog.String("path", path),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Int("status", statusCode(err)),
			sl.Err(err),
		)

		if attempt < attempts {
			if err := c.retry.wait(ctx, attempt); err != nil {
				return err
			}
		}
	}

	c.log.Error("giving up on request",
		slog.String("path", path),
		slog.Int("attempts", attempts),
		sl.Err(lastErr),
	)
	return fmt.Errorf("%w: %s: %w", ErrFetchFailed, path, lastErr)
}

// statusCode extracts the HTTP status from a go-gh error, 0 for transport errors
func statusCode(err error) int {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func repoPath(project, repoSlug string) string {
	return fmt.Sprintf("/projects/%s/repos/%s", url.PathEscape(project), url.PathEscape(repoSlug))
}
