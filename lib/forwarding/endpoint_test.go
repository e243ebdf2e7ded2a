package forwarding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndpointWrap(t *testing.T) {
	target := "https://www.discudemy.com/all/2?x=1&y=2"

	require.Equal(t, target, Direct.Wrap(target))
	require.Equal(
		t,
		"https://api.allorigins.win/raw?url=https%3A%2F%2Fwww.discudemy.com%2Fall%2F2%3Fx%3D1%26y%3D2",
		Endpoint("https://api.allorigins.win/raw?url=").Wrap(target),
	)
}

func TestEndpointName(t *testing.T) {
	testCases := []struct {
		endpoint Endpoint
		expected string
	}{
		{endpoint: Direct, expected: "direct"},
		{endpoint: "https://corsproxy.io/?", expected: "corsproxy.io"},
		{endpoint: "https://api.codetabs.com/v1/proxy?quest=", expected: "api.codetabs.com"},
		{endpoint: "not a url", expected: "not a url"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, test.endpoint.Name())
	}
}

func TestParseEndpoint(t *testing.T) {
	require.Equal(t, Direct, ParseEndpoint("direct"))
	require.Equal(t, Direct, ParseEndpoint(" None "))
	require.Equal(t, Direct, ParseEndpoint(""))
	require.Equal(t, Endpoint("https://corsproxy.io/?"), ParseEndpoint("https://corsproxy.io/?"))
}

func TestDefaultEndpointsEndWithDirect(t *testing.T) {
	require.Len(t, DefaultEndpoints, 4)
	require.True(t, DefaultEndpoints[len(DefaultEndpoints)-1].IsDirect())
}
