// Package shop holds the catalog of supported shops and the rules used to
// recognise their product URLs.
package shop

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrUnknownShop         = errors.New("unknown shop")
	ErrPatternNotCompiled  = errors.New("single product pattern not compiled")
	ErrDuplicateShopName   = errors.New("duplicate shop name")
	ErrDuplicateShopDomain = errors.New("domain claimed by more than one shop")
)

// Definition describes one supported shop. Values returned by a Registry
// carry a compiled SingleProductPattern.
type Definition struct {
	Name                 string   `mapstructure:"name" json:"name" yaml:"name" validate:"required"`
	CanonicalDomain      string   `mapstructure:"canonical_domain" json:"canonical_domain" yaml:"canonical_domain" validate:"required,hostname_rfc1123"`
	AlternateDomains     []string `mapstructure:"alternate_domains" json:"alternate_domains" yaml:"alternate_domains,omitempty" validate:"dive,hostname_rfc1123"`
	SearchPath           string   `mapstructure:"search_path" json:"search_path" yaml:"search_path,omitempty" validate:"omitempty,startswith=/"`
	SingleProductPattern string   `mapstructure:"single_product_pattern" json:"single_product_pattern" yaml:"single_product_pattern" validate:"required"`

	pattern *regexp.Regexp
}

// Domains returns the canonical domain followed by the alternates.
func (d Definition) Domains() []string {
	out := make([]string, 0, len(d.AlternateDomains)+1)
	out = append(out, d.CanonicalDomain)
	return append(out, d.AlternateDomains...)
}

// MatchProductPath reports whether "<canonical domain><path>" is a single product page.
func (d Definition) MatchProductPath(hostAndPath string) (bool, error) {
	if d.pattern == nil {
		return false, fmt.Errorf("shop %q: %w", d.Name, ErrPatternNotCompiled)
	}
	return d.pattern.MatchString(hostAndPath), nil
}

// SearchURL builds a "search this shop for title" link. Empty when the shop
// has no search path.
func (d Definition) SearchURL(title string) string {
	if d.SearchPath == "" {
		return ""
	}
	return "https://" + d.CanonicalDomain + d.SearchPath + url.QueryEscape(strings.TrimSpace(title))
}

func normalizeDomain(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
}
