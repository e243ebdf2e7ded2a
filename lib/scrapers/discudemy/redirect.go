package discudemy

import (
	"regexp"
	"udemy-coupons/lib/htmlutil"
)

var redirectHrefRegex = regexp.MustCompile(`(?i)href=["'](/go/[^"']+)["']`)

func redirectFromText(p *page) string {
	groups := redirectHrefRegex.FindStringSubmatch(p.html)
	if len(groups) < 2 {
		return ""
	}
	return htmlutil.Absolute(p.origin, groups[1])
}

func redirectFromDocument(p *page) string {
	doc := p.document()
	if doc == nil {
		return ""
	}
	anchors := htmlutil.GetAnchors(doc.Find(`a[href*="` + RedirectPrefix + `"]`).First())
	if len(anchors) == 0 {
		return ""
	}
	return htmlutil.Absolute(p.origin, anchors[0].Href)
}

var redirectStrategies = []strategy{
	redirectFromText,
	redirectFromDocument,
}

// RedirectLink finds the "take course" link of a course detail page,
// resolved against `origin`.
func RedirectLink(html, origin string) (string, bool) {
	return firstMatch(newPage(html, origin), redirectStrategies)
}
