package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// IntentURL converts a custom-scheme URI into Android intent URL form
// (intent://...#Intent;...;end). pkg, when non-empty, pins the intent to a
// specific application id so the OS resolver targets the right app instead
// of showing a disambiguation dialog. fallbackURL, when non-empty, is set as
// S.browser_fallback_url so Chrome falls back without a dead end.
//
// URIs that are already intent:// or http(s) pass through unchanged.
func IntentURL(uri, pkg, fallbackURL string) string {
	if strings.HasPrefix(uri, "intent://") || strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}

	scheme, rest, found := strings.Cut(uri, "://")
	if !found || scheme == "" {
		return uri
	}

	var b strings.Builder
	fmt.Fprintf(&b, "intent://%s#Intent;scheme=%s", rest, scheme)
	if pkg != "" {
		fmt.Fprintf(&b, ";package=%s", pkg)
	}
	if fallbackURL != "" {
		fmt.Fprintf(&b, ";S.browser_fallback_url=%s", url.QueryEscape(fallbackURL))
	}
	b.WriteString(";end")
	return b.String()
}

const chromePackage = "com.android.chrome"

// BrowserEscapeIntent builds an intent URL that opens webURL in the external
// Chrome browser, escaping a social app's in-app webview. Only meaningful on
// Android; iOS offers no way out of an in-app browser.
func BrowserEscapeIntent(webURL string) string {
	u, err := url.Parse(webURL)
	if err != nil || u.Scheme == "" {
		return webURL
	}
	rest := strings.TrimPrefix(webURL, u.Scheme+"://")
	return fmt.Sprintf("intent://%s#Intent;scheme=%s;package=%s;S.browser_fallback_url=%s;end",
		rest, u.Scheme, chromePackage, url.QueryEscape(webURL))
}
