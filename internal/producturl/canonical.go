package producturl

import (
	"net/url"

	"pricewatch/internal/shop"
)

// Canonicalize rewrites u onto the shop's canonical domain. Scheme and path
// are kept as given; query, fragment, port and userinfo are dropped.
func Canonicalize(def shop.Definition, u *url.URL) string {
	return u.Scheme + "://" + def.CanonicalDomain + u.EscapedPath()
}
