package producturl

import "fmt"

type Kind int

const (
	KindNoURLFound Kind = iota
	KindInvalidURL
	KindUnsupportedShop
	KindNotASingleProductPage
	KindResolved
)

var kindNames = map[Kind]string{
	KindNoURLFound:            "no_url_found",
	KindInvalidURL:            "invalid_url",
	KindUnsupportedShop:       "unsupported_shop",
	KindNotASingleProductPage: "not_a_single_product_page",
	KindResolved:              "resolved",
}

// Kinds lists every outcome kind.
func Kinds() []Kind {
	return []Kind{KindNoURLFound, KindInvalidURL, KindUnsupportedShop, KindNotASingleProductPage, KindResolved}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown outcome kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown outcome kind %q", string(b))
}

// Outcome is the result of resolving user text. Shop, CanonicalURL and
// Fingerprint are set only for KindResolved.
type Outcome struct {
	Kind         Kind   `json:"kind"`
	Shop         string `json:"shop,omitempty"`
	CanonicalURL string `json:"canonical_url,omitempty"`
	Fingerprint  string `json:"fingerprint,omitempty"`
}

func (o Outcome) Resolved() bool { return o.Kind == KindResolved }
