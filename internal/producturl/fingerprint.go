package producturl

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrEmptyInput = errors.New("fingerprint: empty input")

// Fingerprint is the lowercase hex SHA-256 of the canonical URL bytes.
func Fingerprint(canonicalURL string) (string, error) {
	if strings.TrimSpace(canonicalURL) == "" {
		return "", ErrEmptyInput
	}
	sum := sha256.Sum256([]byte(canonicalURL))
	return hex.EncodeToString(sum[:]), nil
}
