package validator

import (
	"net"
	"net/url"
	"strings"
)

var supportedSchemes = map[string]bool{
	"http":       true,
	"https":      true,
	"dns":        true,
	"postgres":   true,
	"postgresql": true,
	"redis":      true,
	"rediss":     true,
}

// ValidateTarget reports whether a raw target is syntactically acceptable:
// either host:port or a URL with a supported scheme. Semantic validation
// happens later, when the target is parsed into an endpoint spec.
func ValidateTarget(target string) bool {
	if target == "" {
		return false
	}

	if !strings.Contains(target, "://") {
		_, _, err := net.SplitHostPort(target)
		return err == nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return supportedSchemes[u.Scheme]
}

// ValidateScheme reports whether a URL scheme maps to a known endpoint kind.
func ValidateScheme(scheme string) bool {
	return supportedSchemes[scheme]
}
