package shop

// Defaults is the built-in shop catalog. Patterns are matched against
// "<canonical domain><escaped path>".
func Defaults() []Definition {
	return []Definition{
		{
			Name:                 "ozon",
			CanonicalDomain:      "www.ozon.ru",
			AlternateDomains:     []string{"ozon.ru", "m.ozon.ru"},
			SearchPath:           "/search/?text=",
			SingleProductPattern: `^www\.ozon\.ru/product/[^/]+`,
		},
		{
			Name:                 "wildberries",
			CanonicalDomain:      "www.wildberries.ru",
			AlternateDomains:     []string{"wildberries.ru", "m.wildberries.ru", "wb.ru", "www.wb.ru"},
			SearchPath:           "/catalog/0/search.aspx?search=",
			SingleProductPattern: `^www\.wildberries\.ru/catalog/\d+/detail\.aspx`,
		},
		{
			// Loose two-segment shape; kept until checked against real listing URLs.
			Name:                 "store77",
			CanonicalDomain:      "store77.net",
			AlternateDomains:     []string{"www.store77.net"},
			SearchPath:           "/search/?q=",
			SingleProductPattern: `^store77\.net/[^/]+/[^/]+/?$`,
		},
		{
			Name:                 "mvideo",
			CanonicalDomain:      "www.mvideo.ru",
			AlternateDomains:     []string{"mvideo.ru", "m.mvideo.ru"},
			SearchPath:           "/product-list-page?q=",
			SingleProductPattern: `^www\.mvideo\.ru/products/[^/]+-\d+/?$`,
		},
		{
			Name:                 "citilink",
			CanonicalDomain:      "www.citilink.ru",
			AlternateDomains:     []string{"citilink.ru", "m.citilink.ru"},
			SearchPath:           "/search/?text=",
			SingleProductPattern: `^www\.citilink\.ru/product/[^/]+-\d+/?`,
		},
		{
			Name:                 "dns",
			CanonicalDomain:      "www.dns-shop.ru",
			AlternateDomains:     []string{"dns-shop.ru", "m.dns-shop.ru"},
			SearchPath:           "/search/?q=",
			SingleProductPattern: `^www\.dns-shop\.ru/product/[0-9a-f]+/[^/]+/?`,
		},
		{
			Name:                 "megamarket",
			CanonicalDomain:      "megamarket.ru",
			AlternateDomains:     []string{"www.megamarket.ru", "sbermegamarket.ru", "www.sbermegamarket.ru"},
			SearchPath:           "/catalog/?q=",
			SingleProductPattern: `^megamarket\.ru/catalog/details/[^/]+-\d+/?`,
		},
		{
			Name:                 "yandexmarket",
			CanonicalDomain:      "market.yandex.ru",
			AlternateDomains:     []string{"m.market.yandex.ru", "pokupki.market.yandex.ru"},
			SearchPath:           "/search?text=",
			SingleProductPattern: `^market\.yandex\.ru/(product--[^/]+|card/[^/]+)/\d+`,
		},
		{
			Name:                 "sima-land",
			CanonicalDomain:      "www.sima-land.ru",
			AlternateDomains:     []string{"sima-land.ru", "m.sima-land.ru"},
			SearchPath:           "/search/?q=",
			SingleProductPattern: `^www\.sima-land\.ru/\d+-[^/]+/?$`,
		},
		{
			Name:                 "aliexpress",
			CanonicalDomain:      "aliexpress.ru",
			AlternateDomains:     []string{"www.aliexpress.ru", "m.aliexpress.ru"},
			SearchPath:           "/wholesale?SearchText=",
			SingleProductPattern: `^aliexpress\.ru/item/\d+\.html`,
		},
	}
}
