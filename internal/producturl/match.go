package producturl

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"pricewatch/internal/shop"
)

// Matcher maps URL hosts to registered shops.
type Matcher struct {
	registry *shop.Registry
}

func NewMatcher(registry *shop.Registry) *Matcher {
	return &Matcher{registry: registry}
}

// Match parses rawURL and returns the shop owning its host.
func (m *Matcher) Match(rawURL string) (shop.Definition, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return shop.Definition{}, false
	}
	return m.MatchURL(u)
}

func (m *Matcher) MatchURL(u *url.URL) (shop.Definition, bool) {
	if u == nil {
		return shop.Definition{}, false
	}
	host := normalizeHost(u.Hostname())
	if host == "" {
		return shop.Definition{}, false
	}
	return m.registry.LookupByHost(host)
}

// normalizeHost lower-cases and trims host; internationalized names are
// converted to their punycode form so they compare against ASCII domains.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		return ascii
	}
	return host
}
