package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL normalizes a URL string, ensuring it has a scheme, lowercase host, and no fragment.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errors.New("URL is empty or only whitespace")
	}

	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "https://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmedURL, err)
	}

	if parsedURL.Host == "" {
		return "", errors.New("URL lacks a valid hostname")
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme '%s'", parsedURL.Scheme)
	}

	parsedURL.Scheme = scheme
	parsedURL.Host = strings.ToLower(parsedURL.Host)
	parsedURL.Fragment = ""
	parsedURL.RawFragment = ""

	return parsedURL.String(), nil
}

// ExtractAuthority returns the lower-cased authority (host and optional port)
// of a URL. Malformed or host-less URLs yield an empty authority.
func ExtractAuthority(rawURL string) string {
	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsedURL.Host)
}

// ValidateURLFormat validates URL format using net/url parsing (for config validation)
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return fmt.Errorf("URL is empty")
	}

	parsedURL, err := url.ParseRequestURI(trimmedURL)
	if err != nil {
		return fmt.Errorf("invalid URL format '%s': %w", trimmedURL, err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("invalid URL format '%s': missing host", trimmedURL)
	}

	return nil
}
