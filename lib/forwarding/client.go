package forwarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
	"udemy-coupons/lib/restyutil"
	"udemy-coupons/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("udemycoupons.lib.forwarding")

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	acceptHtml       = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

type Options struct {
	// per attempt, defaults to DefaultTimeout
	Timeout   time.Duration
	UserAgent string
	// wraps the transport with cloudflare-friendly tls settings
	CloudflareBypass bool
	// if set, every exchange is dumped to it
	Dump restyutil.InstrumentOutput
}

type Client struct {
	http *resty.Client
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("accept", acceptHtml)
	client.SetHeader("user-agent", opts.UserAgent)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	telemetry.InstrumentResty(client, "udemycoupons.lib.forwarding/http")
	restyutil.InstrumentClient(client, opts.Dump)

	return &Client{http: client}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// FetchThroughEndpoint performs one GET of `target` through `endpoint` and
// returns the body. Non-2xx responses and timeouts fail with *FetchError.
func (c *Client) FetchThroughEndpoint(ctx context.Context, endpoint Endpoint, target string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchThroughEndpoint")
	defer span.End()

	span.SetAttributes(
		attribute.String("endpoint", endpoint.Name()),
		attribute.String("url", target),
	)

	res, err := c.http.R().
		SetContext(ctx).
		Get(endpoint.Wrap(target))
	if err != nil {
		fetchErr := &FetchError{
			Endpoint: endpoint,
			URL:      target,
			Timeout:  isTimeout(err),
			Err:      err,
		}
		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", fetchErr
	}
	if !res.IsSuccess() {
		fetchErr := &FetchError{
			Endpoint: endpoint,
			URL:      target,
			Status:   res.StatusCode(),
		}
		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, "non-2xx status")
		return "", fetchErr
	}

	return string(res.Body()), nil
}

// FetchWithFallback tries each endpoint in order and returns the first
// successful body, endpoints after the successful one are never contacted.
// When every endpoint fails the error matches ErrAllEndpointsExhausted.
func (c *Client) FetchWithFallback(ctx context.Context, endpoints []Endpoint, target string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchWithFallback")
	defer span.End()

	var attempts []error
	for i, endpoint := range endpoints {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, err)
			break
		}

		body, err := c.FetchThroughEndpoint(ctx, endpoint, target)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", i+1))
			return body, nil
		}
		attempts = append(attempts, err)

		if i < len(endpoints)-1 {
			slog.DebugContext(
				ctx, "endpoint failed, trying next",
				"endpoint", endpoint.Name(),
				"url", target,
				"err", err,
			)
		}
	}

	err := &exhaustedError{url: target, attempts: attempts}
	span.RecordError(err)
	span.SetStatus(codes.Error, fmt.Sprintf("%d endpoint(s) failed", len(attempts)))
	return "", err
}
