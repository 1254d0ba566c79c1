// Package fetch - platform.go detects known CFP hosting platforms and
// provides platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known CFP hosting platform.
type Platform string

const (
	// PlatformSessionize is the Sessionize speaker platform.
	PlatformSessionize Platform = "sessionize"
	// PlatformPaperCall is the PaperCall CFP platform.
	PlatformPaperCall Platform = "papercall"
	// PlatformPretalx is the pretalx conference system.
	PlatformPretalx Platform = "pretalx"
	// PlatformUnknown is an unrecognized platform.
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the CFP platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "sessionize.com") {
		return PlatformSessionize
	}
	if strings.Contains(host, "papercall.io") {
		return PlatformPaperCall
	}
	if strings.Contains(host, "pretalx.com") || strings.Contains(host, "pretalx.org") {
		return PlatformPretalx
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors tuned for a platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformSessionize:
		return []string{
			".ibox-content",
			".event-description",
			".wrapper-content",
			"#content",
		}
	case PlatformPaperCall:
		return []string{
			".event__description",
			".event-details",
			".container .row",
			"#content",
		}
	case PlatformPretalx:
		return []string{
			".event-header",
			"#main-container",
			"main",
			".content",
		}
	default:
		return CFPPageSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".login-form",
		".signup-banner",
		".social-share",
		".share-buttons",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformSessionize:
		return append(common, ".login-panel", ".speaker-login", "#loginModal")
	case PlatformPaperCall:
		return append(common, ".navbar", ".event__submit", ".cta-banner")
	case PlatformPretalx:
		return append(common, "#user-dropdown", ".footer-links")
	default:
		return common
	}
}
