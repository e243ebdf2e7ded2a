package discudemy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestListingURL(t *testing.T) {
	require.Equal(t, "https://www.discudemy.com/all/3", ListingURL(Origin, 3))
	require.Equal(t, "http://127.0.0.1:8080/all/1", ListingURL("http://127.0.0.1:8080/", 1))
}

func TestCourseLinks(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			name: "two cards in document order",
			html: `<section class="card"><a class="card-header" href="/english/python-basics">Python</a></section>
				<section class="card"><a class="card-header" href="/english/go-basics">Go</a></section>`,
			expected: []string{
				"https://www.discudemy.com/english/python-basics",
				"https://www.discudemy.com/english/go-basics",
			},
		},
		{
			name: "repeated href is deduplicated",
			html: `<section class="card"><a class="card-header" href="/english/python-basics">Python</a></section>
				<section class="card"><a class="card-header" href="/english/go-basics">Go</a></section>
				<section class="card"><a class="card-header" href="/english/python-basics">Python again</a></section>`,
			expected: []string{
				"https://www.discudemy.com/english/python-basics",
				"https://www.discudemy.com/english/go-basics",
			},
		},
		{
			name: "absolute hrefs are kept",
			html: `<section class="card"><a class="card-header" href="https://www.discudemy.com/french/cours">Cours</a></section>`,
			expected: []string{
				"https://www.discudemy.com/french/cours",
			},
		},
		{
			name: "anchors outside cards and without the header class are ignored",
			html: `<a class="card-header" href="/outside">x</a>
				<section class="card"><a href="/no-class">x</a></section>
				<section class="card"><a class="card-header">no href</a></section>
				<div class="card"><a class="card-header" href="/not-a-section">x</a></div>`,
			expected: nil,
		},
		{
			name:     "empty page",
			html:     ``,
			expected: nil,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			links := CourseLinks(test.html, Origin)
			if diff := cmp.Diff(test.expected, links); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
