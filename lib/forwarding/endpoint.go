package forwarding

import (
	"net/url"
	"strings"
)

// Endpoint is a forwarding service template, the target url is url-escaped
// and appended to it. The empty Endpoint fetches the target directly.
type Endpoint string

const Direct Endpoint = ""

// DefaultEndpoints is the fallback chain, tried in order.
var DefaultEndpoints = []Endpoint{
	"https://api.allorigins.win/raw?url=",
	"https://corsproxy.io/?",
	"https://api.codetabs.com/v1/proxy?quest=",
	Direct,
}

func (e Endpoint) IsDirect() bool {
	return e == Direct
}

// Wrap returns the url that fetches `target` through the endpoint.
func (e Endpoint) Wrap(target string) string {
	if e.IsDirect() {
		return target
	}
	return string(e) + url.QueryEscape(target)
}

// Name identifies the endpoint in logs.
func (e Endpoint) Name() string {
	if e.IsDirect() {
		return "direct"
	}
	u, err := url.Parse(string(e))
	if err != nil || u.Host == "" {
		return string(e)
	}
	return u.Host
}

// ParseEndpoint accepts a template or one of the keywords "direct" / "none".
func ParseEndpoint(s string) Endpoint {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "direct", "none":
		return Direct
	}
	return Endpoint(s)
}
