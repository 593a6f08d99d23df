package embed

import (
	"net/url"
	"regexp"

	"sheets-editor-be/pkg/doctree"
)

// DefaultShareImageBaseURL renders the preview image of a cross-referenced
// segment.
const DefaultShareImageBaseURL = "https://pecha.org/api/v1/share/image"

// Provider is one row of the paste table: text matching Pattern becomes the
// node returned by Build. Build may return nil to let later rows try.
type Provider struct {
	Name    string
	Kind    string
	Pattern *regexp.Regexp
	Build   func(raw string, match []string) *doctree.Node
}

var (
	crossReferencePattern = regexp.MustCompile(`^https?://[\w.-]+(?::\d+)?/chapter\?text_id=([\w-]+)&content_id=([\w-]+)&segment_id=([\w-]+)`)
	youtubePattern        = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/watch\?(?:[^#\s]*&)?v=|youtube\.com/shorts/|youtu\.be/)([A-Za-z0-9_-]+)`)
	soundcloudPattern     = regexp.MustCompile(`^https?://(?:www\.|m\.)?soundcloud\.com/[\w-]+/[\w-]+`)
	spotifyPattern        = regexp.MustCompile(`^https?://open\.spotify\.com/(track|album|playlist|episode|show)/([A-Za-z0-9]+)`)
	imageFilePattern      = regexp.MustCompile(`(?i)^https?://\S+\.(?:png|jpe?g|gif|webp|svg|bmp|avif)(?:\?\S*)?$`)
	imageProxyPattern     = regexp.MustCompile(`^https?://images\.weserv\.nl/\?\S+$`)
)

// DefaultProviders returns the built-in table in priority order.
func DefaultProviders(shareImageBase string) []Provider {
	if shareImageBase == "" {
		shareImageBase = DefaultShareImageBaseURL
	}

	return []Provider{
		{
			Name:    "cross-reference",
			Kind:    doctree.TypeCustomPecha,
			Pattern: crossReferencePattern,
			Build: func(_ string, m []string) *doctree.Node {
				q := url.Values{}
				q.Set("text_id", m[1])
				q.Set("content_id", m[2])
				q.Set("segment_id", m[3])
				return doctree.NewElement(doctree.TypeCustomPecha, doctree.Props{
					"src":       shareImageBase + "?" + q.Encode(),
					"segmentId": m[3],
				})
			},
		},
		{
			Name:    "youtube",
			Kind:    doctree.TypeYoutube,
			Pattern: youtubePattern,
			Build: func(_ string, m []string) *doctree.Node {
				return doctree.NewElement(doctree.TypeYoutube, doctree.Props{"youtubeId": m[1]})
			},
		},
		{
			Name:    "soundcloud",
			Kind:    doctree.TypeAudio,
			Pattern: soundcloudPattern,
			Build: func(raw string, _ []string) *doctree.Node {
				src := "https://w.soundcloud.com/player/?url=" + url.QueryEscape(raw) + "&auto_play=false"
				return doctree.NewElement(doctree.TypeAudio, doctree.Props{"url": raw, "src": src})
			},
		},
		{
			Name:    "spotify",
			Kind:    doctree.TypeAudio,
			Pattern: spotifyPattern,
			Build: func(raw string, m []string) *doctree.Node {
				src := "https://open.spotify.com/embed/" + m[1] + "/" + m[2]
				return doctree.NewElement(doctree.TypeAudio, doctree.Props{"url": raw, "src": src})
			},
		},
		{
			Name:    "image",
			Kind:    doctree.TypeImage,
			Pattern: imageFilePattern,
			Build:   buildImage,
		},
		{
			Name:    "image-proxy",
			Kind:    doctree.TypeImage,
			Pattern: imageProxyPattern,
			Build:   buildImage,
		},
	}
}

func buildImage(raw string, _ []string) *doctree.Node {
	return doctree.NewElement(doctree.TypeImage, doctree.Props{"src": raw})
}

var spotifyPlayerPattern = regexp.MustCompile(`^https?://open\.spotify\.com/embed/(track|album|playlist|episode|show)/([A-Za-z0-9]+)`)

// AudioURL recovers the page URL an audio player src was derived from. A src
// no provider produced is returned unchanged.
func AudioURL(src string) string {
	if m := spotifyPlayerPattern.FindStringSubmatch(src); m != nil {
		return "https://open.spotify.com/" + m[1] + "/" + m[2]
	}
	u, err := url.Parse(src)
	if err != nil || u.Host != "w.soundcloud.com" {
		return src
	}
	if raw := u.Query().Get("url"); raw != "" {
		return raw
	}
	return src
}

// SegmentID returns the segment a share-image src points at, or "" when src
// is not a share-image URL.
func SegmentID(src string) string {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Query().Get("segment_id")
}
