package producturl

import (
	"fmt"
	"net/url"

	"pricewatch/internal/shop"
)

type Classifier struct {
	registry *shop.Registry
}

func NewClassifier(registry *shop.Registry) *Classifier {
	return &Classifier{registry: registry}
}

// IsSingleProductPage evaluates the shop's product pattern against
// "<canonical domain><path>" of canonicalURL.
func (c *Classifier) IsSingleProductPage(shopName, canonicalURL string) (bool, error) {
	def, err := c.registry.Get(shopName)
	if err != nil {
		return false, err
	}

	u, err := url.Parse(canonicalURL)
	if err != nil {
		return false, fmt.Errorf("parse canonical url: %w", err)
	}

	return def.MatchProductPath(def.CanonicalDomain + u.EscapedPath())
}
