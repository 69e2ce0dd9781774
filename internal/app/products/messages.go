package products

import "pricewatch/internal/producturl"

var messages = map[producturl.Kind]string{
	producturl.KindNoURLFound:            "No link found in your message.",
	producturl.KindInvalidURL:            "The link looks malformed.",
	producturl.KindUnsupportedShop:       "This shop is not supported yet.",
	producturl.KindNotASingleProductPage: "The link does not point to a single product page.",
	producturl.KindResolved:              "Product link recognized.",
}

// Message is the fixed user-facing text for an outcome kind.
func Message(k producturl.Kind) string {
	if m, ok := messages[k]; ok {
		return m
	}
	return "Something went wrong."
}
