package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/skipcheck/internal/domain/model"
	"github.com/okian/skipcheck/pkg/logger"
	"github.com/okian/skipcheck/pkg/metrics"
)

// Remote endpoint names, also used as metric labels.
const (
	EndpointUserInfo   = "user.info"
	EndpointUserStatus = "user.status"

	DefaultBaseURL = "https://codeforces.com/api"

	statusOK = "OK"
)

// envelope is the wrapper every API response uses.
type envelope[T any] struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
	Result  T      `json:"result"`
}

// Client implements analysis.ProfileFetcher and analysis.HistoryFetcher.
// Each call issues exactly one GET; there are no retries.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    logger.Logger
}

// New creates a client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: "skipcheck",
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	return c
}

// FetchProfile returns the first profile user.info reports for handle.
func (c *Client) FetchProfile(ctx context.Context, handle string) (model.Profile, error) {
	q := url.Values{"handles": {handle}}
	profiles, err := get[[]model.Profile](ctx, c, EndpointUserInfo, q, model.KindProfileNotFound)
	if err != nil {
		return model.Profile{}, err
	}
	if len(profiles) == 0 {
		return model.Profile{}, model.NewFailure(model.KindProfileNotFound,
			fmt.Sprintf("no profile returned for handle %s", handle), nil)
	}
	return profiles[0], nil
}

// FetchHistory returns every submission of handle in the platform's order,
// newest first.
func (c *Client) FetchHistory(ctx context.Context, handle string) ([]model.Submission, error) {
	q := url.Values{"handle": {handle}}
	subs, err := get[[]model.Submission](ctx, c, EndpointUserStatus, q, model.KindHistoryFetchFailed)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}

// get performs one GET and decodes the envelope. Remote rejections become
// failures of kind; anything that stops the exchange itself is TransportError.
func get[T any](ctx context.Context, c *Client, endpoint string, q url.Values, kind model.Kind) (T, error) {
	var zero T
	start := time.Now()
	target := c.baseURL + "/" + endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.record(ctx, endpoint, model.KindTransportError, start)
		return zero, model.NewFailure(model.KindTransportError, "build request "+endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(ctx, endpoint, model.KindTransportError, start)
		return zero, model.NewFailure(model.KindTransportError, "GET "+endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope[T]
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	success := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices

	switch {
	case decodeErr != nil && success:
		c.record(ctx, endpoint, kind, start)
		return zero, model.NewFailure(kind, ErrMalformedResponse.Error(),
			fmt.Errorf("%w: %s: %w", ErrMalformedResponse, endpoint, decodeErr))
	case !success || env.Status != statusOK:
		c.record(ctx, endpoint, kind, start)
		return zero, model.NewFailure(kind, remoteMessage(endpoint, resp.StatusCode, env.Status, env.Comment), ErrRemoteStatus)
	}

	c.record(ctx, endpoint, "", start)
	return env.Result, nil
}

// remoteMessage prefers the platform's own comment.
func remoteMessage(endpoint string, code int, status, comment string) string {
	if comment != "" {
		return comment
	}
	if status != "" && status != statusOK {
		return fmt.Sprintf("%s returned status %s", endpoint, status)
	}
	return fmt.Sprintf("%s returned HTTP %d", endpoint, code)
}

func (c *Client) record(ctx context.Context, endpoint string, kind model.Kind, start time.Time) {
	took := time.Since(start)
	outcome := "ok"
	switch kind {
	case "":
	case model.KindTransportError:
		outcome = "transport_error"
	default:
		outcome = "rejected"
	}
	metrics.RecordRemoteCall(endpoint, outcome, float64(took.Milliseconds()))
	if kind != "" {
		metrics.RecordErrorByComponent("codeforces", outcome)
	}
	if c.logger != nil {
		c.logger.Debug(ctx, "remote call finished",
			logger.String("endpoint", endpoint),
			logger.String("outcome", outcome),
			logger.Duration("took", took),
		)
	}
}
