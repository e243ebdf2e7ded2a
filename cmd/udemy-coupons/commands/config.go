package commands

import (
	"log/slog"
	"slices"
	"time"
	"udemy-coupons/lib/configutil"
	configlibsql "udemy-coupons/lib/configutil/libsql"
	"udemy-coupons/lib/forwarding"
	"udemy-coupons/lib/scrapers/discudemy"
	"udemy-coupons/services/results"
	"udemy-coupons/services/scraper"
)

type Config struct {
	Origin    string   `json:"origin"`
	Endpoints []string `json:"endpoints"`
	// the endpoint listing pages go through, "direct" for none
	Endpoint         string              `json:"endpoint"`
	TimeoutMs        int                 `json:"timeout_ms"`
	ListingPauseMs   int                 `json:"listing_pause_ms"`
	CoursePauseMs    int                 `json:"course_pause_ms"`
	CloudflareBypass bool                `json:"cloudflare_bypass"`
	Timezone         string              `json:"timezone"`
	Database         configlibsql.Struct `json:"database"`
	Smtp             results.SmtpConfig  `json:"smtp"`
	MailTo           []string            `json:"mail_to"`
}

func defaultConfig() Config {
	endpoints := make([]string, len(forwarding.DefaultEndpoints))
	for i, e := range forwarding.DefaultEndpoints {
		endpoints[i] = string(e)
		if e.IsDirect() {
			endpoints[i] = "direct"
		}
	}
	return Config{
		Origin:         discudemy.Origin,
		Endpoints:      endpoints,
		Endpoint:       endpoints[0],
		TimeoutMs:      int(forwarding.DefaultTimeout / time.Millisecond),
		ListingPauseMs: int(scraper.MinListingPause / time.Millisecond),
		CoursePauseMs:  int(scraper.MinCoursePause / time.Millisecond),
	}
}

func loadConfig() (Config, error) {
	return configutil.ReadConfigOr("config.json5", defaultConfig())
}

func (c Config) endpoints() []forwarding.Endpoint {
	out := make([]forwarding.Endpoint, len(c.Endpoints))
	for i, e := range c.Endpoints {
		out[i] = forwarding.ParseEndpoint(e)
	}
	return out
}

// listingEndpoint resolves `name` against the configured chain. A name the
// chain does not list falls back to its first endpoint.
func (c Config) listingEndpoint(name string) forwarding.Endpoint {
	endpoints := c.endpoints()
	selected := forwarding.ParseEndpoint(name)
	if selected.IsDirect() || slices.Contains(endpoints, selected) {
		return selected
	}
	fallback := forwarding.Direct
	if len(endpoints) > 0 {
		fallback = endpoints[0]
	}
	slog.Warn(
		"selected endpoint is not configured, using the first configured endpoint",
		"selected", selected.Name(),
		"using", fallback.Name(),
	)
	return fallback
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
