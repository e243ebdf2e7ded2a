package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims `s` and folds every whitespace run into one space.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

type replacement struct {
	re   *regexp.Regexp
	with string
}

var redactions = []replacement{
	{re: regexp.MustCompile(`(?i)(?:https?:)?//[^\s"']+`), with: ""},
	{re: regexp.MustCompile(`(?i)\b(?:[a-z0-9-]+\.)+[a-z]{2,}\b`), with: ""},
	{re: regexp.MustCompile(`(?i)discudemy`), with: "source"},
	{re: regexp.MustCompile(`(?i)proxy`), with: "connection"},
}

// Redact strips details that should not reach end users out of an error
// message: urls, host names, the listing site's name and any mention of
// forwarding.
func Redact(message string) string {
	for _, r := range redactions {
		message = r.re.ReplaceAllString(message, r.with)
	}
	message = CollapseWhitespace(message)
	message = strings.ReplaceAll(message, " :", ":")
	return strings.TrimRight(message, " :")
}
