package discudemy

import (
	"udemy-coupons/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// CourseLinks returns the absolute course detail urls of a listing page in
// document order, without duplicates.
func CourseLinks(html, origin string) []string {
	doc := newPage(html, origin).document()
	if doc == nil {
		return nil
	}

	var links []string
	seen := map[string]bool{}
	doc.Find("section.card").Each(func(_ int, card *goquery.Selection) {
		anchors := htmlutil.GetAnchors(card.Find("a.card-header").First())
		if len(anchors) == 0 {
			return
		}
		link := htmlutil.Absolute(origin, anchors[0].Href)
		if seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})
	return links
}
