package discudemy

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var couponUrlRegex = regexp.MustCompile(`(?i)https?://(?:www\.)?udemy\.com/course/[^?\s"']+\?couponCode=[A-Z0-9_]+`)

func couponFromText(p *page) string {
	return couponUrlRegex.FindString(p.html)
}

func normalizeCommerceHref(href string) string {
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return CommerceOrigin + href
	}
	return href
}

func couponFromDocument(p *page) string {
	doc := p.document()
	if doc == nil {
		return ""
	}
	found := ""
	doc.Find(`a[href*="udemy.com"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if !strings.Contains(href, CouponMarker) {
			return true
		}
		found = normalizeCommerceHref(href)
		return false
	})
	return found
}

var couponStrategies = []strategy{
	couponFromText,
	couponFromDocument,
}

// CouponURL finds the coupon-bearing course url on a redirect page.
func CouponURL(html string) (string, bool) {
	return firstMatch(newPage(html, CommerceOrigin), couponStrategies)
}
