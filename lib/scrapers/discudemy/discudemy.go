// Package discudemy extracts course, redirect and coupon links from the
// pages of the discudemy listing site. Every function here is pure: absence
// of a match is reported as "not found", never as an error.
//
// Forwarding services sometimes rewrite markup, so the raw text patterns
// are tried before the parsed document.
package discudemy

import (
	"fmt"
	"strings"
	"udemy-coupons/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	Origin         = "https://www.discudemy.com"
	CommerceOrigin = "https://www.udemy.com"
	RedirectPrefix = "/go/"
	CouponMarker   = "couponCode="
)

// ListingURL is the url of listing page `page`.
func ListingURL(origin string, page int) string {
	return fmt.Sprintf("%s/all/%d", strings.TrimSuffix(origin, "/"), page)
}

// a strategy inspects a page and returns the link it found, or "".
type strategy func(page *page) string

// page lazily parses its html, text strategies never pay for the parse.
type page struct {
	html   string
	origin string

	doc    *goquery.Document
	parsed bool
}

func newPage(html, origin string) *page {
	return &page{html: html, origin: origin}
}

func (p *page) document() *goquery.Document {
	if !p.parsed {
		p.parsed = true
		doc, err := htmlutil.Parse(p.html)
		if err == nil {
			p.doc = doc
		}
	}
	return p.doc
}

func firstMatch(p *page, strategies []strategy) (string, bool) {
	for _, s := range strategies {
		if link := s(p); link != "" {
			return link, true
		}
	}
	return "", false
}
