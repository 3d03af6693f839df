package validate

import (
	"net/url"
	"strings"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// AbsoluteURL reports whether value parses as an http(s) URL with a host.
// Target links are forwarded upstream verbatim, so anything else is refused
// before checkout.
func AbsoluteURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
