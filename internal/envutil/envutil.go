// Package envutil reads CLI flag defaults from the environment. Unparseable
// values fall back to the default instead of failing the command.
package envutil

import (
	"strings"
	"time"
)

type Getenv func(string) string

func lookup(getenv Getenv, key string) string {
	if getenv == nil {
		return ""
	}
	return strings.TrimSpace(getenv(key))
}

func String(getenv Getenv, key string, def string) string {
	if v := lookup(getenv, key); v != "" {
		return v
	}
	return def
}

// Bool accepts 1/0, true/false, yes/no, y/n and on/off.
func Bool(getenv Getenv, key string, def bool) bool {
	switch strings.ToLower(lookup(getenv, key)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Duration parses Go duration syntax ("3s", "500ms"). Non-positive values
// count as unset.
func Duration(getenv Getenv, key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(lookup(getenv, key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
