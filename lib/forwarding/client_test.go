package forwarding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"udemy-coupons/lib/telemetry"
	"udemy-coupons/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestFetchThroughEndpoint(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:forwarding")
	defer cleanup()

	site := testutil.NewSite(t)
	site.Set("/all/1", "<p>listing</p>")
	site.Fail("/all/2", http.StatusServiceUnavailable)

	client := NewClient(Options{Timeout: time.Second})
	ctx := context.Background()

	body, err := client.FetchThroughEndpoint(ctx, Direct, site.Origin()+"/all/1")
	require.NoError(t, err)
	require.Equal(t, "<p>listing</p>", body)

	_, err = client.FetchThroughEndpoint(ctx, Direct, site.Origin()+"/all/2")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.Status)
	require.Equal(t, site.Origin()+"/all/2", fetchErr.URL)
	require.False(t, fetchErr.Timeout)
	require.Equal(t, "unexpected status 503", fetchErr.Reason())
}

func TestFetchThroughForwarder(t *testing.T) {
	site := testutil.NewSite(t)
	site.Set("/all/1", "<p>listing</p>")
	forwarder := testutil.NewForwarder(t)

	client := NewClient(Options{Timeout: time.Second})
	body, err := client.FetchThroughEndpoint(context.Background(), Endpoint(forwarder.Template()), site.Origin()+"/all/1")
	require.NoError(t, err)
	require.Equal(t, "<p>listing</p>", body)
	require.Equal(t, []string{site.Origin() + "/all/1"}, forwarder.Targets())
}

func TestFetchThroughEndpointTimeout(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	client := NewClient(Options{Timeout: 50 * time.Millisecond})
	_, err := client.FetchThroughEndpoint(context.Background(), Direct, slow.URL)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.True(t, fetchErr.Timeout)
	require.Equal(t, "request timed out", Reason(err))
}

func TestFetchWithFallbackStopsAtFirstSuccess(t *testing.T) {
	site := testutil.NewSite(t)
	site.Set("/course", "<p>course</p>")

	first := testutil.NewFailingForwarder(t, http.StatusBadGateway)
	second := testutil.NewFailingForwarder(t, http.StatusForbidden)
	third := testutil.NewForwarder(t)
	fourth := testutil.NewForwarder(t)

	endpoints := []Endpoint{
		Endpoint(first.Template()),
		Endpoint(second.Template()),
		Endpoint(third.Template()),
		Endpoint(fourth.Template()),
	}

	client := NewClient(Options{Timeout: time.Second})
	body, err := client.FetchWithFallback(context.Background(), endpoints, site.Origin()+"/course")
	require.NoError(t, err)
	require.Equal(t, "<p>course</p>", body)

	require.Equal(t, 1, first.Hits())
	require.Equal(t, 1, second.Hits())
	require.Equal(t, 1, third.Hits())
	require.Equal(t, 0, fourth.Hits())
	require.Equal(t, 1, site.HitCount("/course"))
}

func TestFetchWithFallbackDirectLast(t *testing.T) {
	site := testutil.NewSite(t)
	site.Set("/course", "<p>course</p>")
	failing := testutil.NewFailingForwarder(t, http.StatusTooManyRequests)

	client := NewClient(Options{Timeout: time.Second})
	body, err := client.FetchWithFallback(
		context.Background(),
		[]Endpoint{Endpoint(failing.Template()), Direct},
		site.Origin()+"/course",
	)
	require.NoError(t, err)
	require.Equal(t, "<p>course</p>", body)
}

func TestFetchWithFallbackExhausted(t *testing.T) {
	site := testutil.NewSite(t)
	site.Fail("/course", http.StatusInternalServerError)
	first := testutil.NewFailingForwarder(t, http.StatusBadGateway)

	client := NewClient(Options{Timeout: time.Second})
	_, err := client.FetchWithFallback(
		context.Background(),
		[]Endpoint{Endpoint(first.Template()), Direct},
		site.Origin()+"/course",
	)
	require.ErrorIs(t, err, ErrAllEndpointsExhausted)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusBadGateway, fetchErr.Status)

	require.NotContains(t, Reason(err), site.Origin())
	require.NotContains(t, Reason(err), first.Server.URL)
}

func TestFetchWithFallbackEmpty(t *testing.T) {
	client := NewClient(Options{})
	_, err := client.FetchWithFallback(context.Background(), nil, "http://127.0.0.1:1/")
	require.ErrorIs(t, err, ErrAllEndpointsExhausted)
}
