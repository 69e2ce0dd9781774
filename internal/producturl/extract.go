// Package producturl turns free-form user text into a canonical product URL
// and its fingerprint.
package producturl

import (
	"net/url"
	"regexp"
	"strings"
)

var candidatePattern = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)

// Extract returns every URL-looking run in text, in order. A run starts at
// http://, https:// or www. and ends at whitespace. www. runs are returned
// with an http:// prefix.
func Extract(text string) []string {
	matches := candidatePattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) >= 4 && strings.EqualFold(m[:4], "www.") {
			m = "http://" + m
		}
		out = append(out, m)
	}
	return out
}

// IsValidHTTPURL reports whether candidate is an absolute http(s) URL with a host.
func IsValidHTTPURL(candidate string) bool {
	_, ok := parseHTTPURL(candidate)
	return ok
}

func parseHTTPURL(candidate string) (*url.URL, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, false
	}

	u, err := url.Parse(candidate)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if strings.TrimSpace(u.Hostname()) == "" {
		return nil, false
	}
	return u, true
}
