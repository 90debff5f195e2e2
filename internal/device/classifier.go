// Package device classifies user-agent strings into device type, browser
// identity and platform class for redirect decisions.
package device

import (
	"regexp"
	"strings"
)

// Device types
const (
	DeviceIOS     = "ios"
	DeviceAndroid = "android"
	DeviceDesktop = "desktop"
)

// Browser identities
const (
	BrowserInstagram = "instagram"
	BrowserFacebook  = "facebook"
	BrowserWhatsApp  = "whatsapp"
	BrowserLinkedIn  = "linkedin"
	BrowserTwitter   = "twitter"
	BrowserTelegram  = "telegram"
	BrowserSafari    = "safari"
	BrowserChrome    = "chrome"
	BrowserFirefox   = "firefox"
	BrowserEdge      = "edge"
	BrowserOther     = "other"
)

// Platform classes
const (
	ClassMobile  = "mobile"
	ClassTablet  = "tablet"
	ClassDesktop = "desktop"
)

// Classification is the derived device profile for one request. It is
// computed fresh from the user-agent string and never persisted.
type Classification struct {
	Device        string `json:"device"`
	Browser       string `json:"browser"`
	PlatformClass string `json:"platform_class"`
	// InApp is true when the browser is a social app's embedded webview.
	// These block or restrict custom-scheme navigation.
	InApp bool `json:"in_app"`
}

var (
	iosRe           = regexp.MustCompile(`iphone|ipad|ipod`)
	mobileRe        = regexp.MustCompile(`iphone|ipod|android|mobile`)
	androidMobileRe = regexp.MustCompile(`android.*mobile`)
)

// inAppMarkers maps webview tokens to browser identities. Order matters:
// these are checked before generic browser tokens because an Instagram
// webview UA also carries "Mobile Safari".
var inAppMarkers = []struct {
	token   string
	browser string
}{
	{"instagram", BrowserInstagram},
	{"fban", BrowserFacebook},
	{"fbav", BrowserFacebook},
	{"fbsv", BrowserFacebook},
	{"whatsapp", BrowserWhatsApp},
	{"linkedinapp", BrowserLinkedIn},
	{"twitter", BrowserTwitter},
	{"tweetie", BrowserTwitter},
	{"telegram", BrowserTelegram},
}

// Classify derives a Classification from a user-agent string. It is a pure,
// total function: any input, including the empty string, yields a valid
// default of {desktop, other, desktop, false}.
func Classify(userAgent string) Classification {
	if userAgent == "" {
		return Classification{
			Device:        DeviceDesktop,
			Browser:       BrowserOther,
			PlatformClass: ClassDesktop,
		}
	}

	ua := strings.ToLower(userAgent)

	browser, inApp := detectBrowser(ua)

	return Classification{
		Device:        detectDevice(ua),
		Browser:       browser,
		PlatformClass: detectClass(ua),
		InApp:         inApp,
	}
}

func detectDevice(ua string) string {
	switch {
	case iosRe.MatchString(ua):
		return DeviceIOS
	case strings.Contains(ua, "android"):
		return DeviceAndroid
	}
	return DeviceDesktop
}

func detectBrowser(ua string) (string, bool) {
	for _, m := range inAppMarkers {
		if strings.Contains(ua, m.token) {
			return m.browser, true
		}
	}

	switch {
	case strings.Contains(ua, "safari") && !strings.Contains(ua, "chrome") && !strings.Contains(ua, "crios"):
		return BrowserSafari, false
	case strings.Contains(ua, "chrome") || strings.Contains(ua, "crios"):
		return BrowserChrome, false
	case strings.Contains(ua, "firefox") || strings.Contains(ua, "fxios"):
		return BrowserFirefox, false
	case strings.Contains(ua, "edg") || strings.Contains(ua, "edge"):
		return BrowserEdge, false
	}
	return BrowserOther, false
}

func detectClass(ua string) string {
	// Android tablets omit the "mobile" token.
	if strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet") ||
		(strings.Contains(ua, "android") && !androidMobileRe.MatchString(ua)) {
		return ClassTablet
	}
	if mobileRe.MatchString(ua) {
		return ClassMobile
	}
	return ClassDesktop
}
