package checker

import (
	"fmt"
	"net/url"
	"strings"

	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

// TargetInfo contains parsed target information
type TargetInfo struct {
	Original string // Original target string
	Scheme   string // http or https
	Host     string // Hostname (without protocol, path, port)
	Port     string // Port if specified
	Path     string // Path if specified
	FullURL  string // Full normalized URL (for HTTP requests)
}

// ParseTarget parses a scan target into structured components.
// This handles various input formats:
//   - example.com
//   - http://example.com
//   - https://example.com:443/path
//   - example.com:8080
//
// Bare hosts get an http:// scheme. Schemes other than http and https are rejected.
func ParseTarget(target string) (*TargetInfo, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, domainErrors.ErrEmptyTarget
	}

	parsed, err := url.Parse(target)

	// A missing scheme, or a "scheme" that is really a host (contains dots), or
	// host:port parsed as scheme:opaque all mean the operator gave a bare host.
	if err != nil || parsed.Scheme == "" || strings.Contains(parsed.Scheme, ".") || parsed.Opaque != "" {
		parsed, err = url.Parse("http://" + target)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domainErrors.ErrInvalidTarget, target, err)
		}
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", domainErrors.ErrInvalidTarget, parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("%w: %s has no host", domainErrors.ErrInvalidTarget, target)
	}

	return &TargetInfo{
		Original: target,
		Scheme:   scheme,
		Host:     parsed.Hostname(),
		Port:     parsed.Port(),
		Path:     parsed.Path,
		FullURL:  parsed.String(),
	}, nil
}

// NormalizeHTTPTarget normalizes a target for HTTP/HTTPS requests.
// Returns a full URL with scheme.
func NormalizeHTTPTarget(target string) (string, error) {
	info, err := ParseTarget(target)
	if err != nil {
		return "", err
	}
	return info.FullURL, nil
}
