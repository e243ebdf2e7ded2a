package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOtlpTransport(t *testing.T) {
	testCases := []struct {
		conn     OtlpConnConfig
		expected otlpTransport
	}{
		{conn: OtlpConnConfig{}, expected: transportNone},
		{conn: OtlpConnConfig{HttpEndpoint: "http://localhost:4318"}, expected: transportHttp},
		{conn: OtlpConnConfig{GrpcEndpoint: "http://localhost:4317"}, expected: transportGrpc},
		{
			conn: OtlpConnConfig{
				GrpcEndpoint: "http://localhost:4317",
				HttpEndpoint: "http://localhost:4318",
			},
			expected: transportGrpc,
		},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, test.conn.transport())
	}
}

func TestMetricInterval(t *testing.T) {
	require.Equal(t, defaultMetricInterval, Config{}.metricInterval())
	require.Equal(t, 250*time.Millisecond, Config{MetricIntervalMs: 250}.metricInterval())
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
