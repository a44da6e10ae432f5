// Package device classifies a user agent into the device type and browser
// reported with visitor sessions.
package device

import (
	"regexp"
	"runtime"
)

// Device types.
const (
	Mobile  = "mobile"
	Tablet  = "tablet"
	Desktop = "desktop"
	Unknown = "unknown"
)

// Browser names.
const (
	Firefox = "Firefox"
	Chrome  = "Chrome"
	Safari  = "Safari"
	Edge    = "Edge"
	Opera   = "Opera"
	Other   = "Other"
)

var (
	tabletRe  = regexp.MustCompile(`(?i)iPad|Tablet|PlayBook|Silk`)
	androidRe = regexp.MustCompile(`(?i)Android`)
	mobiRe    = regexp.MustCompile(`(?i)Mobile`)
	mobileRe  = regexp.MustCompile(`(?i)Mobi|Android|iPhone|iPod|BlackBerry|Opera Mini|IEMobile|WPDesktop`)
	desktopRe = regexp.MustCompile(`(?i)Windows|Macintosh|Linux|X11`)

	firefoxRe = regexp.MustCompile(`(?i)firefox/\d+`)
	edgeRe    = regexp.MustCompile(`(?i)edg/\d+`)
	operaRe   = regexp.MustCompile(`(?i)opr/\d+`)
	chromeRe  = regexp.MustCompile(`(?i)chrome/\d+`)
	safariRe  = regexp.MustCompile(`(?i)safari/\d+`)
)

// Type returns the device type of ua. Tablets are checked before phones
// because tablet agents also match the phone patterns.
func Type(ua string) string {
	switch {
	case ua == "":
		return Unknown
	case tabletRe.MatchString(ua):
		return Tablet
	case androidRe.MatchString(ua) && !mobiRe.MatchString(ua[androidRe.FindStringIndex(ua)[1]:]):
		return Tablet
	case mobileRe.MatchString(ua):
		return Mobile
	case desktopRe.MatchString(ua):
		return Desktop
	default:
		return Unknown
	}
}

// Browser returns the browser family of ua. Order matters: Chromium based
// browsers also carry the Chrome and Safari tokens.
func Browser(ua string) string {
	switch {
	case firefoxRe.MatchString(ua):
		return Firefox
	case edgeRe.MatchString(ua):
		return Edge
	case operaRe.MatchString(ua):
		return Opera
	case chromeRe.MatchString(ua):
		return Chrome
	case safariRe.MatchString(ua):
		return Safari
	default:
		return Other
	}
}

// Info is the classification of a user agent.
type Info struct {
	UserAgent  string
	DeviceType string
	Browser    string
}

// Trackable reports whether the visitor beacon may report this device.
func (i Info) Trackable() bool {
	return i.DeviceType != "" && i.DeviceType != Unknown && i.Browser != ""
}

// Detect classifies ua, falling back to DefaultUserAgent when empty.
func Detect(ua string) Info {
	if ua == "" {
		ua = DefaultUserAgent()
	}
	return Info{UserAgent: ua, DeviceType: Type(ua), Browser: Browser(ua)}
}

// DefaultUserAgent is the agent string this program sends, with a platform
// token for the host OS.
func DefaultUserAgent() string {
	return "storefront/1.0 (" + platform(runtime.GOOS) + ")"
}

func platform(goos string) string {
	switch goos {
	case "windows":
		return "Windows NT 10.0"
	case "darwin":
		return "Macintosh"
	case "android":
		return "Linux; Android"
	case "ios":
		return "iPhone"
	default:
		return "X11; Linux"
	}
}
