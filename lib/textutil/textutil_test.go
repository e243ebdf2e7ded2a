package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedact(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{
			input:    `fetch https://www.discudemy.com/all/3 via proxy api.allorigins.win: status 500`,
			expected: `fetch via connection: status 500`,
		},
		{
			input:    `Get "https://corsproxy.io/?https%3A%2F%2Fwww.discudemy.com": context deadline exceeded`,
			expected: `Get "": context deadline exceeded`,
		},
		{
			input:    `DiscUdemy returned nothing`,
			expected: `source returned nothing`,
		},
		{
			input:    `unable to fetch content`,
			expected: `unable to fetch content`,
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Redact(test.input))
	}
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a \n\t b   c  "))
}
