// Package crawlevents defines the messages exchanged with the crawler.
package crawlevents

import (
	"errors"
	"time"
)

const (
	CrawlRequestedEventName = "crawler/url.requested"
	ProductCrawledEventName = "crawler/product.crawled"
)

// ErrPublisherDisabled is returned when no crawl request transport is
// configured.
var ErrPublisherDisabled = errors.New("crawl publisher disabled")

type CrawlRequestedData struct {
	URL         string `json:"url"`
	Fingerprint string `json:"fingerprint"`
	Shop        string `json:"shop"`
	RequestedBy string `json:"requested_by"`
}

type CrawlRequested struct {
	EventName string             `json:"event_name"`
	EventID   string             `json:"event_id"`
	TS        time.Time          `json:"ts"`
	Data      CrawlRequestedData `json:"data"`
}

// ProductCrawledData is what the crawler reports for one product page.
// PriceMinor is in minor currency units (kopecks).
type ProductCrawledData struct {
	URL        string    `json:"url"`
	Title      string    `json:"title,omitempty"`
	PriceMinor *int64    `json:"price_minor,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	Available  bool      `json:"available"`
	CapturedAt time.Time `json:"captured_at,omitempty"`
}

type ProductCrawled struct {
	EventName string             `json:"event_name"`
	EventID   string             `json:"event_id"`
	TS        time.Time          `json:"ts"`
	Data      ProductCrawledData `json:"data"`
}

// EventIDForFingerprint is the deterministic id used to dedupe crawl requests.
func EventIDForFingerprint(fingerprint string) string {
	return "crawl:" + fingerprint
}
