// Package redirect decides how a resolved smart link is opened on the
// clicking device: which deep-link invocations to issue, in what order, with
// which fallback timers, and when a user gesture is required.
package redirect

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"applink/internal/device"
	"applink/internal/model"
	"applink/internal/platform"
)

// InvocationKind labels how a navigation attempt should be issued client-side
type InvocationKind string

// Invocation kinds
const (
	KindDeepLink      InvocationKind = "deep_link"      // direct navigation to the URI
	KindIntent        InvocationKind = "intent"         // Android intent:// form
	KindSchemeAnchor  InvocationKind = "scheme_anchor"  // synthesized anchor click, iOS custom schemes
	KindBrowserEscape InvocationKind = "browser_escape" // break out of an in-app webview
	KindFallback      InvocationKind = "fallback"       // terminal store/web navigation
)

// Invocation is a single navigation attempt
type Invocation struct {
	URL  string         `json:"url"`
	Kind InvocationKind `json:"kind"`
}

// Plan is the redirect decision for one (link, device) pair. Invocations are
// issued together when the attempt starts; FallbackURL is navigated to after
// FallbackDelay unless an app intercepted an earlier invocation. Direct
// plans skip invocations entirely.
type Plan struct {
	Slug            string
	Title           string
	Invocations     []Invocation
	FallbackURL     string
	FallbackDelay   time.Duration
	Direct          bool
	GestureRequired bool
	Countdown       time.Duration
	WebFallback     string
}

// MarshalJSON emits durations as integer milliseconds for the client-side
// plan interpreter.
func (p Plan) MarshalJSON() ([]byte, error) {
	type clientPlan struct {
		Slug            string       `json:"slug"`
		Title           string       `json:"title"`
		Invocations     []Invocation `json:"invocations"`
		FallbackURL     string       `json:"fallback_url"`
		FallbackDelayMS int64        `json:"fallback_delay_ms"`
		Direct          bool         `json:"direct"`
		GestureRequired bool         `json:"gesture_required"`
		CountdownMS     int64        `json:"countdown_ms"`
		WebFallback     string       `json:"web_fallback"`
	}
	return json.Marshal(clientPlan{
		Slug:            p.Slug,
		Title:           p.Title,
		Invocations:     p.Invocations,
		FallbackURL:     p.FallbackURL,
		FallbackDelayMS: p.FallbackDelay.Milliseconds(),
		Direct:          p.Direct,
		GestureRequired: p.GestureRequired,
		CountdownMS:     p.Countdown.Milliseconds(),
		WebFallback:     p.WebFallback,
	})
}

// Policy carries the fallback timeout values. Earlier revisions of this logic
// used inconsistent constants; the policy is now config-driven with one set
// of defaults.
type Policy struct {
	InAppFallback         time.Duration
	UniversalLinkFallback time.Duration
	CustomSchemeFallback  time.Duration
	AndroidFallback       time.Duration
	Countdown             time.Duration
}

// DefaultPolicy returns the standard timeout policy. In-app webviews need an
// early fallback; Universal Link resolution is OS-mediated and slow, so it
// gets the longest window.
func DefaultPolicy() Policy {
	return Policy{
		InAppFallback:         1000 * time.Millisecond,
		UniversalLinkFallback: 2500 * time.Millisecond,
		CustomSchemeFallback:  2000 * time.Millisecond,
		AndroidFallback:       1500 * time.Millisecond,
		Countdown:             3 * time.Second,
	}
}

// inAppFriendly holds platforms whose web experience works inside social
// in-app browsers, so no external-browser escape is needed for them.
var inAppFriendly = map[platform.Platform]bool{
	platform.YouTube: true,
	platform.Spotify: true,
	platform.Vimeo:   true,
}

// BuildPlan applies the decision table to a resolved link and a live device
// classification. utm values are appended to http(s) destinations only,
// never to custom-scheme URIs.
func BuildPlan(link *model.Link, c device.Classification, utm url.Values, pol Policy) Plan {
	web := appendUTM(link.WebFallback, utm)
	deep := appendUTM(link.DeepLink(c.Device), utm)
	store := appendUTM(link.StoreURL(c.Device), utm)

	p := Plan{
		Slug:        link.Slug,
		Title:       link.Title,
		Countdown:   pol.Countdown,
		WebFallback: web,
	}

	switch {
	// In-app browser without a usable deep link: escape to the external
	// browser on Android; iOS forces the same webview, so go straight to
	// the web fallback.
	case c.InApp && deep == "" && !inAppFriendly[platform.Platform(link.Platform)]:
		if c.Device == device.DeviceAndroid {
			p.Invocations = []Invocation{{URL: platform.BrowserEscapeIntent(web), Kind: KindBrowserEscape}}
			p.FallbackURL = web
			p.FallbackDelay = pol.InAppFallback
		} else {
			p.Direct = true
			p.FallbackURL = web
		}

	// In-app browser with a deep link: attempt it, then unconditionally
	// fall back to the web URL on a short timer.
	case c.InApp && deep != "":
		p.Invocations = []Invocation{{URL: deep, Kind: KindDeepLink}}
		p.FallbackURL = web
		p.FallbackDelay = pol.InAppFallback

	// iOS Universal Link: no gesture needed, OS-mediated resolution wants
	// the longest fallback window.
	case c.Device == device.DeviceIOS && deep != "" && isHTTP(deep):
		p.Invocations = []Invocation{{URL: deep, Kind: KindDeepLink}}
		p.FallbackURL = firstNonEmpty(store, web)
		p.FallbackDelay = pol.UniversalLinkFallback

	// iOS custom scheme: never auto-invoke. iOS ignores programmatic
	// custom-scheme navigation without a user gesture, so the plan waits
	// for one and invokes via a synthesized anchor click.
	case c.Device == device.DeviceIOS && deep != "":
		p.GestureRequired = true
		p.Invocations = []Invocation{{URL: deep, Kind: KindSchemeAnchor}}
		p.FallbackURL = firstNonEmpty(store, web)
		p.FallbackDelay = pol.CustomSchemeFallback

	// Android with a deep link: direct navigation and the intent form in
	// parallel, covering browsers that block one mechanism but not the
	// other. package= pins the intent to the right app.
	case c.Device == device.DeviceAndroid && deep != "":
		p.Invocations = []Invocation{
			{URL: deep, Kind: KindDeepLink},
			{URL: platform.IntentURL(deep, platform.PackageFor(platform.Platform(link.Platform)), web), Kind: KindIntent},
		}
		p.FallbackURL = web
		p.FallbackDelay = pol.AndroidFallback

	// Desktop, or no deep link of any kind.
	default:
		p.Direct = true
		p.FallbackURL = web
	}

	return p
}

// appendUTM appends utm query parameters to http(s) URLs. Custom-scheme URIs
// are returned unchanged.
func appendUTM(rawURL string, utm url.Values) string {
	if rawURL == "" || len(utm) == 0 || !isHTTP(rawURL) {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for key, values := range utm {
		if !strings.HasPrefix(key, "utm_") || len(values) == 0 {
			continue
		}
		q.Set(key, values[0])
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isHTTP(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
