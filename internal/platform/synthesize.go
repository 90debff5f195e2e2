package platform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrUnparseable is returned when the input is not a valid absolute URL
	ErrUnparseable = errors.New("unparseable URL")
	// ErrNoIdentifier is returned when the platform is recognized but no
	// identifier could be extracted, so no deep link can be built
	ErrNoIdentifier = errors.New("no identifier extracted")
)

// ParsedLink is the output of deep-link synthesis, used to pre-fill a link
// record at creation time.
type ParsedLink struct {
	Platform            Platform `json:"platform"`
	PlatformName        string   `json:"platform_name"`
	IOSURL              string   `json:"ios_url"`
	AndroidURL          string   `json:"android_url"`
	IOSAppStoreURL      string   `json:"ios_appstore_url"`
	AndroidPlayStoreURL string   `json:"android_playstore_url"`
	WebFallback         string   `json:"web_fallback"`
	Title               string   `json:"title"`
	// Guessed marks a best-effort scheme guess for an unrecognized domain.
	// Guessed URIs are lower-confidence than table-driven ones.
	Guessed bool `json:"guessed"`
}

// app holds per-platform deep-link facts: display name, custom scheme,
// Android application id for intent resolution, and store URLs.
type app struct {
	name      string
	scheme    string
	pkg       string
	appStore  string
	playStore string
	// universal: the vendor serves Universal/App Links on its web URLs, so
	// the original https URL is itself the deep link on both platforms.
	universal bool
}

var catalog = map[Platform]app{
	YouTube:    {name: "YouTube", scheme: "vnd.youtube", pkg: "com.google.android.youtube", appStore: "https://apps.apple.com/app/youtube/id544007664", playStore: "https://play.google.com/store/apps/details?id=com.google.android.youtube"},
	TikTok:     {name: "TikTok", scheme: "snssdk1233", pkg: "com.zhiliaoapp.musically", appStore: "https://apps.apple.com/app/tiktok/id835599320", playStore: "https://play.google.com/store/apps/details?id=com.zhiliaoapp.musically"},
	Vimeo:      {name: "Vimeo", scheme: "vimeo", pkg: "com.vimeo.android.videoapp", appStore: "https://apps.apple.com/app/vimeo/id425194759", playStore: "https://play.google.com/store/apps/details?id=com.vimeo.android.videoapp"},
	Twitch:     {name: "Twitch", scheme: "twitch", pkg: "tv.twitch.android.app", appStore: "https://apps.apple.com/app/twitch/id460177396", playStore: "https://play.google.com/store/apps/details?id=tv.twitch.android.app"},
	Instagram:  {name: "Instagram", scheme: "instagram", pkg: "com.instagram.android", appStore: "https://apps.apple.com/app/instagram/id389801252", playStore: "https://play.google.com/store/apps/details?id=com.instagram.android"},
	Twitter:    {name: "Twitter/X", scheme: "twitter", pkg: "com.twitter.android", appStore: "https://apps.apple.com/app/twitter/id333903271", playStore: "https://play.google.com/store/apps/details?id=com.twitter.android"},
	Facebook:   {name: "Facebook", scheme: "fb", pkg: "com.facebook.katana", appStore: "https://apps.apple.com/app/facebook/id284882215", playStore: "https://play.google.com/store/apps/details?id=com.facebook.katana"},
	LinkedIn:   {name: "LinkedIn", scheme: "linkedin", pkg: "com.linkedin.android", appStore: "https://apps.apple.com/app/linkedin/id288429040", playStore: "https://play.google.com/store/apps/details?id=com.linkedin.android"},
	Pinterest:  {name: "Pinterest", scheme: "pinterest", pkg: "com.pinterest", appStore: "https://apps.apple.com/app/pinterest/id429047995", playStore: "https://play.google.com/store/apps/details?id=com.pinterest"},
	Reddit:     {name: "Reddit", scheme: "reddit", pkg: "com.reddit.frontpage", appStore: "https://apps.apple.com/app/reddit/id1064216828", playStore: "https://play.google.com/store/apps/details?id=com.reddit.frontpage"},
	Snapchat:   {name: "Snapchat", scheme: "snapchat", pkg: "com.snapchat.android", appStore: "https://apps.apple.com/app/snapchat/id447188370", playStore: "https://play.google.com/store/apps/details?id=com.snapchat.android"},
	Discord:    {name: "Discord", scheme: "discord", pkg: "com.discord", appStore: "https://apps.apple.com/app/discord/id985746746", playStore: "https://play.google.com/store/apps/details?id=com.discord"},
	WhatsApp:   {name: "WhatsApp", scheme: "whatsapp", pkg: "com.whatsapp", appStore: "https://apps.apple.com/app/whatsapp-messenger/id310633997", playStore: "https://play.google.com/store/apps/details?id=com.whatsapp"},
	Telegram:   {name: "Telegram", scheme: "tg", pkg: "org.telegram.messenger", appStore: "https://apps.apple.com/app/telegram-messenger/id686449807", playStore: "https://play.google.com/store/apps/details?id=org.telegram.messenger"},
	Signal:     {name: "Signal", scheme: "sgnl", pkg: "org.thoughtcrime.securesms", appStore: "https://apps.apple.com/app/signal-private-messenger/id874139669", playStore: "https://play.google.com/store/apps/details?id=org.thoughtcrime.securesms"},
	Spotify:    {name: "Spotify", scheme: "spotify", pkg: "com.spotify.music", appStore: "https://apps.apple.com/app/spotify/id324684580", playStore: "https://play.google.com/store/apps/details?id=com.spotify.music"},
	AppleMusic: {name: "Apple Music", scheme: "music", pkg: "com.apple.android.music", playStore: "https://play.google.com/store/apps/details?id=com.apple.android.music", universal: true},
	SoundCloud: {name: "SoundCloud", scheme: "soundcloud", pkg: "com.soundcloud.android", appStore: "https://apps.apple.com/app/soundcloud/id336353151", playStore: "https://play.google.com/store/apps/details?id=com.soundcloud.android"},
	Amazon:     {name: "Amazon", scheme: "com.amazon.mobile.shopping", pkg: "com.amazon.mShop.android.shopping", appStore: "https://apps.apple.com/app/amazon-shopping/id297606951", playStore: "https://play.google.com/store/apps/details?id=com.amazon.mShop.android.shopping", universal: true},
	Shopify:    {name: "Shopify", scheme: "shopify", pkg: "com.shopify.mobile", appStore: "https://apps.apple.com/app/shopify/id371294472", playStore: "https://play.google.com/store/apps/details?id=com.shopify.mobile"},
	Etsy:       {name: "Etsy", scheme: "etsy", pkg: "com.etsy.android", appStore: "https://apps.apple.com/app/etsy/id477128284", playStore: "https://play.google.com/store/apps/details?id=com.etsy.android"},
	Notion:     {name: "Notion", scheme: "notion", pkg: "notion.id", appStore: "https://apps.apple.com/app/notion/id1232780281", playStore: "https://play.google.com/store/apps/details?id=notion.id"},
	Figma:      {name: "Figma", scheme: "figma", pkg: "com.figma.mirror", appStore: "https://apps.apple.com/app/figma/id1152747299", playStore: "https://play.google.com/store/apps/details?id=com.figma.mirror"},
	GitHub:     {name: "GitHub", scheme: "github", pkg: "com.github.android", appStore: "https://apps.apple.com/app/github/id1477376905", playStore: "https://play.google.com/store/apps/details?id=com.github.android", universal: true},
	Medium:     {name: "Medium", scheme: "medium", pkg: "com.medium.reader", appStore: "https://apps.apple.com/app/medium/id828256236", playStore: "https://play.google.com/store/apps/details?id=com.medium.reader"},
}

// Synthesize parses a URL and produces platform-specific deep links.
//
// An unrecognized but valid URL yields a web record with a best-effort
// guessed scheme (no store fallbacks, Guessed set). A recognized platform
// whose identifier cannot be extracted yields ErrNoIdentifier; the caller
// keeps the web fallback only. Unparseable input yields ErrUnparseable.
func Synthesize(rawURL string) (*ParsedLink, error) {
	tag, ok := Detect(rawURL)
	if !ok {
		return nil, ErrUnparseable
	}

	if tag == Web {
		guess := guessScheme(rawURL)
		return &ParsedLink{
			Platform:     Web,
			PlatformName: "Web",
			IOSURL:       guess,
			AndroidURL:   guess,
			WebFallback:  rawURL,
			Guessed:      guess != "",
		}, nil
	}

	info := catalog[tag]
	pl := &ParsedLink{
		Platform:            tag,
		PlatformName:        info.name,
		IOSAppStoreURL:      info.appStore,
		AndroidPlayStoreURL: info.playStore,
		WebFallback:         rawURL,
		Title:               info.name,
	}

	switch tag {
	case YouTube:
		id := extractYouTubeID(rawURL)
		if id == "" {
			return nil, ErrNoIdentifier
		}
		// iOS registers both youtube:// and vnd.youtube://; youtube:// is
		// the form the app's own share sheet emits. Android intent
		// resolution needs vnd.youtube.
		pl.IOSURL = fmt.Sprintf("youtube://watch?v=%s", id)
		pl.AndroidURL = fmt.Sprintf("vnd.youtube://watch?v=%s", id)
		pl.Title = fmt.Sprintf("YouTube Video %s", id)

	case Instagram:
		id := extractInstagramID(rawURL)
		if id == "" {
			return nil, ErrNoIdentifier
		}
		// Universal Link on iOS: in-app browsers block instagram:// but
		// pass https through to the OS.
		pl.IOSURL = fmt.Sprintf("https://instagram.com/p/%s/", id)
		pl.AndroidURL = fmt.Sprintf("instagram://media?id=%s", id)
		pl.Title = "Instagram Post"

	case Twitter:
		id := extractTwitterID(rawURL)
		if id == "" {
			return nil, ErrNoIdentifier
		}
		pl.IOSURL = fmt.Sprintf("twitter://status?id=%s", id)
		pl.AndroidURL = fmt.Sprintf("twitter://status?id=%s", id)
		pl.Title = "Twitter Post"

	case TikTok:
		id := extractTikTokID(rawURL)
		if id == "" {
			return nil, ErrNoIdentifier
		}
		pl.IOSURL = fmt.Sprintf("snssdk1233://aweme/detail/%s", id)
		pl.AndroidURL = fmt.Sprintf("snssdk1233://aweme/detail/%s", id)
		pl.Title = "TikTok Video"

	case Spotify:
		kind, id := extractSpotifyRef(rawURL)
		if id == "" {
			return nil, ErrNoIdentifier
		}
		pl.IOSURL = fmt.Sprintf("spotify://%s/%s", kind, id)
		pl.AndroidURL = fmt.Sprintf("spotify://%s/%s", kind, id)
		pl.Title = fmt.Sprintf("Spotify %s", kind)

	case LinkedIn:
		pl.IOSURL, pl.AndroidURL = linkedInTargets(rawURL)

	default:
		if info.universal {
			pl.IOSURL = rawURL
			pl.AndroidURL = rawURL
		} else {
			path := strippedPath(rawURL)
			pl.IOSURL = fmt.Sprintf("%s://%s", info.scheme, path)
			pl.AndroidURL = fmt.Sprintf("%s://%s", info.scheme, path)
		}
	}

	return pl, nil
}

// linkedInTargets builds the iOS Universal Link and Android custom-scheme
// target for a LinkedIn URL. When no entity can be extracted the full URL is
// retained as the iOS target and the Android path is derived by stripping
// the domain.
func linkedInTargets(rawURL string) (iosURL, androidURL string) {
	ref := extractLinkedInRef(rawURL)
	switch {
	case ref.activityID != "":
		urn := "urn:li:activity:" + ref.activityID
		return "https://www.linkedin.com/feed/update/" + urn,
			"linkedin://feed/update/" + urn
	case ref.username != "":
		return "https://www.linkedin.com/in/" + ref.username,
			"linkedin://in/" + ref.username
	case ref.company != "":
		return "https://www.linkedin.com/company/" + ref.company,
			"linkedin://company/" + ref.company
	case ref.jobID != "":
		return "https://www.linkedin.com/jobs/view/" + ref.jobID,
			"linkedin://jobs/view/" + ref.jobID
	}
	return rawURL, "linkedin://" + strippedPath(rawURL)
}

// strippedPath returns "host-relative" path+query with the leading slash
// removed, for scheme-passthrough deep links.
func strippedPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	p := strings.TrimPrefix(u.Path, "/")
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}

// guessScheme derives a heuristic "<domain-label>://<path>" URI for a domain
// outside the platform table. Unknown platforms never get a guaranteed
// deep link; the guess carries no store fallback.
func guessScheme(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, found := strings.Cut(host, ".")
	if !found || label == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s", label, strippedPath(rawURL))
}

// PackageFor returns the Android application id for a platform, for intent
// URL package= hints. Empty when unknown.
func PackageFor(tag Platform) string {
	return catalog[tag].pkg
}

// Name returns the display name for a platform tag.
func Name(tag Platform) string {
	if tag == Web {
		return "Web"
	}
	if info, ok := catalog[tag]; ok {
		return info.name
	}
	return string(tag)
}
