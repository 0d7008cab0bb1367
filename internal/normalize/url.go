package normalize

import (
	"net/url"
	"strings"
	"unicode"
)

// CoverURL reports whether raw is usable as a resource link: an absolute
// http or https URL with a host and no whitespace anywhere.
func CoverURL(raw string) (string, bool) {
	s, ok := Text(raw)
	if !ok {
		return "", false
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return s, false
	}

	u, err := url.Parse(s)
	if err != nil {
		return s, false
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return s, false
	}
	return s, true
}
