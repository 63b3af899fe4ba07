package wanderer

import "net/url"

// keySuffixLen is how many trailing characters of an API key may appear
// in logs and error messages.
const keySuffixLen = 4

// SanitizeKey renders an API key safe for logging, keeping only the last
// few characters for correlation.
func SanitizeKey(key string) string {
	if len(key) <= keySuffixLen {
		return "***"
	}
	return "***" + key[len(key)-keySuffixLen:]
}

// SanitizeURL strips embedded credentials from a URL before it is logged.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.User = nil
	return u.String()
}
