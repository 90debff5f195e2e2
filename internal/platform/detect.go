// Package platform detects which known platform a URL belongs to, extracts
// platform-specific identifiers and synthesizes per-platform deep links.
package platform

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform is a detected platform tag
type Platform string

// Known platform tags
const (
	YouTube    Platform = "youtube"
	TikTok     Platform = "tiktok"
	Vimeo      Platform = "vimeo"
	Twitch     Platform = "twitch"
	Instagram  Platform = "instagram"
	Twitter    Platform = "twitter"
	Facebook   Platform = "facebook"
	LinkedIn   Platform = "linkedin"
	Pinterest  Platform = "pinterest"
	Reddit     Platform = "reddit"
	Snapchat   Platform = "snapchat"
	Discord    Platform = "discord"
	WhatsApp   Platform = "whatsapp"
	Telegram   Platform = "telegram"
	Signal     Platform = "signal"
	Spotify    Platform = "spotify"
	AppleMusic Platform = "applemusic"
	SoundCloud Platform = "soundcloud"
	Amazon     Platform = "amazon"
	Shopify    Platform = "shopify"
	Etsy       Platform = "etsy"
	Notion     Platform = "notion"
	Figma      Platform = "figma"
	GitHub     Platform = "github"
	Medium     Platform = "medium"
	Web        Platform = "web"
)

// entry maps domain fragments to a platform tag. Matching is ordered and
// case-insensitive substring; no current fragments overlap, and introducing
// overlapping fragments is a defect.
type entry struct {
	fragments []string
	tag       Platform
}

var table = []entry{
	{[]string{"youtube.com", "youtu.be"}, YouTube},
	{[]string{"tiktok.com"}, TikTok},
	{[]string{"vimeo.com"}, Vimeo},
	{[]string{"twitch.tv"}, Twitch},
	{[]string{"instagram.com"}, Instagram},
	{[]string{"twitter.com", "x.com"}, Twitter},
	{[]string{"facebook.com", "fb.com"}, Facebook},
	{[]string{"linkedin.com"}, LinkedIn},
	{[]string{"pinterest.com"}, Pinterest},
	{[]string{"reddit.com"}, Reddit},
	{[]string{"snapchat.com"}, Snapchat},
	{[]string{"discord.com", "discord.gg"}, Discord},
	{[]string{"whatsapp.com", "wa.me"}, WhatsApp},
	{[]string{"telegram.org", "t.me"}, Telegram},
	{[]string{"signal.org", "signal.me"}, Signal},
	{[]string{"spotify.com"}, Spotify},
	{[]string{"music.apple.com"}, AppleMusic},
	{[]string{"soundcloud.com"}, SoundCloud},
	{[]string{"amazon.com", "amzn."}, Amazon},
	{[]string{"shopify.com"}, Shopify},
	{[]string{"etsy.com"}, Etsy},
	{[]string{"notion.so", "notion.site"}, Notion},
	{[]string{"figma.com"}, Figma},
	{[]string{"github.com"}, GitHub},
	{[]string{"medium.com"}, Medium},
}

// Detect classifies a URL against the platform table. It returns Web for any
// syntactically valid URL matching no table entry, and ok=false for input
// that is not a parseable absolute http(s) URL.
func Detect(rawURL string) (Platform, bool) {
	if !validURL(rawURL) {
		return "", false
	}

	lower := strings.ToLower(rawURL)
	for _, e := range table {
		for _, frag := range e.fragments {
			if strings.Contains(lower, frag) {
				return e.tag, true
			}
		}
	}
	return Web, true
}

func validURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Identifier extraction regexes. Each extractor returns "" on no match;
// callers treat that as "cannot synthesize a deep link".
var (
	youtubeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#/]+)`),
		regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
	}
	instagramRe  = regexp.MustCompile(`instagram\.com/(?:p|reel|tv)/([^/?#]+)`)
	twitterRe    = regexp.MustCompile(`(?:twitter\.com|x\.com)/\w+/status/(\d+)`)
	tiktokRe     = regexp.MustCompile(`tiktok\.com/@[\w.]+/video/(\d+)`)
	spotifyRe    = regexp.MustCompile(`spotify\.com/(track|album|playlist|artist)/([a-zA-Z0-9]+)`)
	liURNRe      = regexp.MustCompile(`urn:li:activity:(\d+)`)
	liFeedRe     = regexp.MustCompile(`linkedin\.com/feed/update/(?:urn:li:activity:)?(\d+)`)
	liActivityRe = regexp.MustCompile(`activity-(\d+)`)
	liProfileRe  = regexp.MustCompile(`linkedin\.com/in/([^/?#]+)`)
	liCompanyRe  = regexp.MustCompile(`linkedin\.com/company/([^/?#]+)`)
	liJobRe      = regexp.MustCompile(`linkedin\.com/jobs/view/(\d+)`)
)

// extractYouTubeID extracts a video id from watch, youtu.be and embed forms.
func extractYouTubeID(rawURL string) string {
	for _, re := range youtubeRes {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractInstagramID extracts a post/reel/tv id.
func extractInstagramID(rawURL string) string {
	if m := instagramRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// extractTwitterID extracts a numeric status id.
func extractTwitterID(rawURL string) string {
	if m := twitterRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// extractTikTokID extracts a numeric video id.
func extractTikTokID(rawURL string) string {
	if m := tiktokRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// extractSpotifyRef extracts a (type, id) pair from track/album/playlist/artist URLs.
func extractSpotifyRef(rawURL string) (kind, id string) {
	if m := spotifyRe.FindStringSubmatch(rawURL); m != nil {
		return m[1], m[2]
	}
	return "", ""
}

// linkedInRef is the extracted LinkedIn entity, one field set at most.
type linkedInRef struct {
	activityID string
	username   string
	company    string
	jobID      string
}

// extractLinkedInRef tries the three activity-id URL shapes in order
// (urn:li:activity:<id>, /feed/update/<id>, activity-<id>), then profile,
// company and job forms. First match wins.
func extractLinkedInRef(rawURL string) linkedInRef {
	for _, re := range []*regexp.Regexp{liURNRe, liFeedRe, liActivityRe} {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return linkedInRef{activityID: m[1]}
		}
	}
	if m := liProfileRe.FindStringSubmatch(rawURL); m != nil {
		return linkedInRef{username: m[1]}
	}
	if m := liCompanyRe.FindStringSubmatch(rawURL); m != nil {
		return linkedInRef{company: m[1]}
	}
	if m := liJobRe.FindStringSubmatch(rawURL); m != nil {
		return linkedInRef{jobID: m[1]}
	}
	return linkedInRef{}
}

func (r linkedInRef) empty() bool {
	return r == linkedInRef{}
}
