package producturl

import (
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"pricewatch/internal/shop"
)

type pageClassifier interface {
	IsSingleProductPage(shopName, canonicalURL string) (bool, error)
}

// Resolver runs extraction, shop matching, canonicalization, classification
// and fingerprinting. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	matcher    *Matcher
	classifier pageClassifier
	logger     *zap.SugaredLogger
}

type NewResolverParams struct {
	fx.In

	Registry *shop.Registry
	Logger   *zap.SugaredLogger `optional:"true"`
}

func NewResolver(p NewResolverParams) *Resolver {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{
		matcher:    NewMatcher(p.Registry),
		classifier: NewClassifier(p.Registry),
		logger:     logger,
	}
}

func (r *Resolver) Resolve(rawText string) Outcome {
	candidates := Extract(rawText)
	if len(candidates) == 0 {
		return Outcome{Kind: KindNoURLFound}
	}

	u, ok := parseHTTPURL(candidates[0])
	if !ok {
		return Outcome{Kind: KindInvalidURL}
	}

	def, ok := r.matcher.MatchURL(u)
	if !ok {
		return Outcome{Kind: KindUnsupportedShop}
	}

	canonical := Canonicalize(def, u)

	single, err := r.classifier.IsSingleProductPage(def.Name, canonical)
	if err != nil {
		r.logger.Errorw("product_url_classify_failed",
			"shop", def.Name,
			"canonical_url", canonical,
			"candidate", candidates[0],
			"err", err,
		)
		if errors.Is(err, shop.ErrUnknownShop) {
			return Outcome{Kind: KindUnsupportedShop}
		}
		return Outcome{Kind: KindNotASingleProductPage}
	}
	if !single {
		return Outcome{Kind: KindNotASingleProductPage}
	}

	fp, err := Fingerprint(canonical)
	if err != nil {
		r.logger.Errorw("product_url_fingerprint_failed",
			"shop", def.Name,
			"canonical_url", canonical,
			"err", err,
		)
		return Outcome{Kind: KindNotASingleProductPage}
	}

	return Outcome{
		Kind:         KindResolved,
		Shop:         def.Name,
		CanonicalURL: canonical,
		Fingerprint:  fp,
	}
}
