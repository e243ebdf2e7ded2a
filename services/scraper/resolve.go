package scraper

import (
	"context"
	"errors"
	"fmt"
	"udemy-coupons/lib/forwarding"
	"udemy-coupons/lib/scrapers/discudemy"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Fetcher is the transport the controller drives, *forwarding.Client
// implements it.
type Fetcher interface {
	FetchThroughEndpoint(ctx context.Context, endpoint forwarding.Endpoint, url string) (string, error)
	FetchWithFallback(ctx context.Context, endpoints []forwarding.Endpoint, url string) (string, error)
}

// ErrExtractionMiss means a page was fetched but held nothing to follow,
// it is an expected outcome rather than a failure.
var ErrExtractionMiss = errors.New("nothing to extract")

var (
	ErrNoRedirectLink = fmt.Errorf("%w: no redirect link on course page", ErrExtractionMiss)
	ErrNoCouponURL    = fmt.Errorf("%w: no coupon url on redirect page", ErrExtractionMiss)
)

// Resolve follows a course detail url to its coupon url: course page ->
// redirect link -> redirect page -> coupon url. Both hops use the whole
// fallback chain.
func Resolve(ctx context.Context, fetcher Fetcher, endpoints []forwarding.Endpoint, courseURL, origin string) (string, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("course", courseURL))

	coursePage, err := fetcher.FetchWithFallback(ctx, endpoints, courseURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course page")
		return "", err
	}
	redirectURL, found := discudemy.RedirectLink(coursePage, origin)
	if !found {
		span.SetStatus(codes.Ok, "no redirect link")
		return "", ErrNoRedirectLink
	}
	span.SetAttributes(attribute.String("redirect", redirectURL))

	redirectPage, err := fetcher.FetchWithFallback(ctx, endpoints, redirectURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch redirect page")
		return "", err
	}
	coupon, found := discudemy.CouponURL(redirectPage)
	if !found {
		span.SetStatus(codes.Ok, "no coupon url")
		return "", ErrNoCouponURL
	}
	span.SetAttributes(attribute.String("coupon", coupon))
	return coupon, nil
}
