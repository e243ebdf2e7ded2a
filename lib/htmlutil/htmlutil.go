package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse is goquery.NewDocumentFromReader over a string, it never fails
// on malformed markup since the html5 parser recovers from it.
func Parse(contents string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(contents))
}

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

func anchorName(n *html.Node) string {
	name := innerWhitespace.ReplaceAllString(GetText(n), " ")
	name = removeNonPrintable(name)
	return strings.TrimSpace(name)
}

// GetAnchors returns the anchors in `sel` that carry a non-empty href,
// in document order.
func GetAnchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = strings.TrimSpace(a.Val)
				break
			}
		}
		if href == "" {
			continue
		}
		anchors = append(anchors, Anchor{
			Name: anchorName(n),
			Href: href,
		})
	}
	return anchors
}

// Absolute resolves `href` against `origin` the way the listing site links
// are written: anything starting with http is kept, everything else is
// appended to the origin.
func Absolute(origin, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	origin = strings.TrimSuffix(origin, "/")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return origin + href
}
