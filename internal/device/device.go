// Package device derives human-readable device descriptions from user-agent
// strings. Output is for display and audit in the admin console only; the
// admission decision never looks at it.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// DisplayName renders a user-agent string as "Browser on OS" for session
// listings. Unparseable or empty input yields "Unknown Device".
func DisplayName(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" || rawUA == "unknown" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	if os == "" {
		os = ua.Platform()
	}

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return "Browser on " + os
	default:
		return "Unknown Device"
	}
}

// Describe fills missing client-reported metadata from the user-agent string.
// Client-supplied values win; the parse only backfills blanks.
func Describe(platform, browser, rawUA string) (string, string) {
	if platform != "" && browser != "" {
		return platform, browser
	}
	ua := useragent.New(rawUA)
	if platform == "" {
		platform = ua.OSInfo().Name
	}
	if browser == "" {
		browser, _ = ua.Browser()
	}
	return platform, browser
}
