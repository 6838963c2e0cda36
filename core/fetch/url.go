package fetch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// reCharacterPath matches ".../characters/<digits>" with an optional
// trailing slug or slash.
var reCharacterPath = regexp.MustCompile(`/characters/(\d+)(?:/[^/]*)?/?$`)

// ParseCharacterURL validates a profile URL and returns it normalized along
// with the numeric character id.
func ParseCharacterURL(rawURL string) (string, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", fmt.Errorf("parsing url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", "", fmt.Errorf("url %q has no host", rawURL)
	}
	m := reCharacterPath.FindStringSubmatch(parsed.Path)
	if m == nil {
		return "", "", fmt.Errorf("url %q is not a character profile (want .../characters/<id>)", rawURL)
	}
	return NormalizeURL(parsed.String()), m[1], nil
}

// NormalizeURL strips fragments and trailing slashes.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.Fragment = ""

	// Keep root "/".
	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	return parsed.String()
}
