package common

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

var (
	// ErrInvalidLink is returned when a link is not an absolute http(s) URL
	ErrInvalidLink = errors.New("link must be an absolute http or https URL")
	// ErrNotLinkedInURL is returned when a profile link does not point at LinkedIn
	ErrNotLinkedInURL = errors.New("linkedin_url must point to linkedin.com")
)

// Hosts accepted for the profile linkedin_url field
var linkedInHosts = []string{
	"linkedin.com",
	"www.linkedin.com",
	"kr.linkedin.com",
	"in.linkedin.com",
	"uk.linkedin.com",
}

// ValidateLink checks that raw is an absolute http(s) URL with a host.
// Empty input is accepted (optional fields).
func ValidateLink(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidLink
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidLink
	}
	if u.Host == "" {
		return ErrInvalidLink
	}
	return nil
}

// ValidateLinkedInURL checks a profile linkedin_url
func ValidateLinkedInURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if err := ValidateLink(raw); err != nil {
		return err
	}

	u, _ := url.Parse(raw)
	if !slices.Contains(linkedInHosts, strings.ToLower(u.Hostname())) {
		return ErrNotLinkedInURL
	}
	return nil
}
