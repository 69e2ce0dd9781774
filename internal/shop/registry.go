package shop

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Registry is the read-only shop catalog. It is built once at startup and is
// safe for concurrent use.
type Registry struct {
	shops  []Definition
	byName map[string]int
	byHost map[string]int
}

// NewRegistry validates defs, compiles their product patterns and indexes
// their domains. Any invalid definition fails the whole registry.
func NewRegistry(defs []Definition) (*Registry, error) {
	v := validator.New()

	r := &Registry{
		shops:  make([]Definition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
		byHost: make(map[string]int),
	}

	for _, d := range defs {
		d.CanonicalDomain = normalizeDomain(d.CanonicalDomain)
		alts := make([]string, 0, len(d.AlternateDomains))
		for _, a := range d.AlternateDomains {
			alts = append(alts, normalizeDomain(a))
		}
		d.AlternateDomains = alts

		if err := v.Struct(d); err != nil {
			return nil, fmt.Errorf("validate shop %q: %w", d.Name, err)
		}

		re, err := regexp.Compile(d.SingleProductPattern)
		if err != nil {
			return nil, fmt.Errorf("compile single product pattern for shop %q: %w", d.Name, err)
		}
		d.pattern = re

		if _, ok := r.byName[d.Name]; ok {
			return nil, fmt.Errorf("shop %q: %w", d.Name, ErrDuplicateShopName)
		}

		idx := len(r.shops)
		for _, host := range d.Domains() {
			if other, ok := r.byHost[host]; ok {
				if other == idx {
					continue
				}
				return nil, fmt.Errorf("%q used by %q and %q: %w", host, r.shops[other].Name, d.Name, ErrDuplicateShopDomain)
			}
			r.byHost[host] = idx
		}

		r.byName[d.Name] = idx
		r.shops = append(r.shops, d)
	}

	return r, nil
}

// NewDefaultRegistry builds a registry from the built-in catalog.
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistry(Defaults())
}

// LookupByHost finds the shop that owns host (canonical or alternate domain).
func (r *Registry) LookupByHost(host string) (Definition, bool) {
	idx, ok := r.byHost[normalizeDomain(host)]
	if !ok {
		return Definition{}, false
	}
	return r.shops[idx], true
}

func (r *Registry) Get(name string) (Definition, error) {
	idx, ok := r.byName[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownShop, name)
	}
	return r.shops[idx], nil
}

// All returns the shops in definition order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.shops))
	copy(out, r.shops)
	return out
}

func (r *Registry) Len() int { return len(r.shops) }
