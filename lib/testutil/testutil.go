package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Site is an in-process listing site serving /all/<page>, course detail
// pages and /go/ redirect pages from the maps it is populated with.
type Site struct {
	Server *httptest.Server

	lock      sync.Mutex
	pages     map[string]string
	failures  map[string]int
	hits      []string
	onRequest func(path string)
}

func NewSite(t testing.TB) *Site {
	s := &Site{
		pages:    map[string]string{},
		failures: map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Server.Close)
	return s
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	path := r.URL.Path
	s.hits = append(s.hits, path)
	status, failing := s.failures[path]
	body, found := s.pages[path]
	hook := s.onRequest
	s.lock.Unlock()

	if hook != nil {
		hook(path)
	}
	if failing {
		w.WriteHeader(status)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, body)
}

func (s *Site) Origin() string {
	return s.Server.URL
}

// Set serves `body` at `path`.
func (s *Site) Set(path, body string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.pages[path] = body
}

// Fail makes `path` respond with `status`.
func (s *Site) Fail(path string, status int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failures[path] = status
}

// OnRequest registers a hook run for every request before it is answered.
func (s *Site) OnRequest(hook func(path string)) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.onRequest = hook
}

// Hits returns the requested paths in order.
func (s *Site) Hits() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.hits...)
}

// HitCount counts requests for `path`.
func (s *Site) HitCount(path string) int {
	count := 0
	for _, h := range s.Hits() {
		if h == path {
			count++
		}
	}
	return count
}

// SetListing serves a listing page linking to the given course slugs.
func (s *Site) SetListing(page int, slugs ...string) {
	hrefs := make([]string, len(slugs))
	for i, slug := range slugs {
		hrefs[i] = "/" + slug
	}
	s.Set(fmt.Sprintf("/all/%d", page), ListingHTML(hrefs...))
}

// AddCourse serves a course page for `slug` linking to /go/<slug>, whose
// redirect page contains `coupon`. An empty coupon serves a redirect page
// without one.
func (s *Site) AddCourse(slug, coupon string) {
	s.Set("/"+slug, CourseHTML("/go/"+slug))
	s.Set("/go/"+slug, RedirectHTML(coupon))
}

func ListingHTML(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"cards\">\n")
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<section class="card">
	<a class="card-header" href="%s">Course</a>
	<div class="content">description</div>
</section>
`, href)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func CourseHTML(goHref string) string {
	return fmt.Sprintf(`<html><body>
<h1>Course</h1>
<a class="ui button" href="%s">Take Course</a>
</body></html>`, goHref)
}

func RedirectHTML(coupon string) string {
	if coupon == "" {
		return "<html><body><p>This coupon has expired.</p></body></html>"
	}
	return fmt.Sprintf(`<html><body>
<div class="ui segment"><a id="couponLink" href="%s">%s</a></div>
</body></html>`, coupon, coupon)
}
