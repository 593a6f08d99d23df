package embed

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"sheets-editor-be/pkg/doctree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	id    string
	err   error
	calls int
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.id, s.err
}

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		text     string
		provider string
		kind     string
		props    doctree.Props
	}{
		{
			name:     "youtube watch url",
			text:     "https://www.youtube.com/watch?v=abc123",
			provider: "youtube",
			kind:     doctree.TypeYoutube,
			props:    doctree.Props{"youtubeId": "abc123"},
		},
		{
			name:     "youtube short url with whitespace",
			text:     "  https://youtu.be/abc123\n",
			provider: "youtube",
			kind:     doctree.TypeYoutube,
			props:    doctree.Props{"youtubeId": "abc123"},
		},
		{
			name:     "youtube short id",
			text:     "https://www.youtube.com/watch?v=abc",
			provider: "youtube",
			kind:     doctree.TypeYoutube,
			props:    doctree.Props{"youtubeId": "abc"},
		},
		{
			name:     "youtube id before other params",
			text:     "https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			provider: "youtube",
			kind:     doctree.TypeYoutube,
			props:    doctree.Props{"youtubeId": "dQw4w9WgXcQ"},
		},
		{
			name:     "cross reference",
			text:     "https://pecha.org/chapter?text_id=t1&content_id=c1&segment_id=s1",
			provider: "cross-reference",
			kind:     doctree.TypeCustomPecha,
			props: doctree.Props{
				"src":       DefaultShareImageBaseURL + "?content_id=c1&segment_id=s1&text_id=t1",
				"segmentId": "s1",
			},
		},
		{
			name:     "soundcloud",
			text:     "https://soundcloud.com/artist/track",
			provider: "soundcloud",
			kind:     doctree.TypeAudio,
			props: doctree.Props{
				"url": "https://soundcloud.com/artist/track",
				"src": "https://w.soundcloud.com/player/?url=https%3A%2F%2Fsoundcloud.com%2Fartist%2Ftrack&auto_play=false",
			},
		},
		{
			name:     "spotify",
			text:     "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			provider: "spotify",
			kind:     doctree.TypeAudio,
			props: doctree.Props{
				"url": "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
				"src": "https://open.spotify.com/embed/track/4uLU6hMCjMI75M1A2tKUQC",
			},
		},
		{
			name:     "image file",
			text:     "https://x.test/photos/a.PNG",
			provider: "image",
			kind:     doctree.TypeImage,
			props:    doctree.Props{"src": "https://x.test/photos/a.PNG"},
		},
		{
			name:     "image proxy",
			text:     "https://images.weserv.nl/?url=example.com/a",
			provider: "image-proxy",
			kind:     doctree.TypeImage,
			props:    doctree.Props{"src": "https://images.weserv.nl/?url=example.com/a"},
		},
		{
			name: "plain text",
			text: "hello world",
		},
		{
			name: "url without provider",
			text: "https://example.com/page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(context.Background(), tt.text)

			assert.Equal(t, tt.text, res.Text)
			assert.Equal(t, tt.provider, res.Provider)
			if tt.kind == "" {
				assert.False(t, res.IsEmbed())
				return
			}
			require.True(t, res.IsEmbed())
			assert.Equal(t, tt.kind, res.Node.Type)
			assert.Equal(t, tt.props, res.Node.Props)
		})
	}
}

func TestClassifyShortLink(t *testing.T) {
	link := "https://pecha.link/abc"

	t.Run("resolved", func(t *testing.T) {
		r := &stubResolver{id: "seg-1"}
		c := NewClassifier(WithResolver(r))

		assert.True(t, c.NeedsResolution(link))
		res := c.Classify(context.Background(), link)

		require.True(t, res.IsEmbed())
		assert.Equal(t, doctree.TypePecha, res.Node.Type)
		assert.Equal(t, "seg-1", res.Node.Attr("src"))
		assert.Equal(t, 1, r.calls)
	})

	t.Run("failure falls through", func(t *testing.T) {
		r := &stubResolver{err: errors.New("boom")}
		c := NewClassifier(WithResolver(r))

		res := c.Classify(context.Background(), link)

		assert.False(t, res.IsEmbed())
		assert.Equal(t, link, res.Text)
	})

	t.Run("empty id falls through", func(t *testing.T) {
		c := NewClassifier(WithResolver(&stubResolver{}))
		assert.False(t, c.Classify(context.Background(), link).IsEmbed())
	})

	t.Run("no resolver configured", func(t *testing.T) {
		c := NewClassifier()
		assert.False(t, c.NeedsResolution(link))
		assert.False(t, c.Classify(context.Background(), link).IsEmbed())
	})
}

func TestRegisterProvider(t *testing.T) {
	c := NewClassifier()
	c.Register(Provider{
		Name:    "vimeo",
		Kind:    "vimeo",
		Pattern: regexp.MustCompile(`^https://vimeo\.com/(\d+)$`),
		Build: func(_ string, m []string) *doctree.Node {
			return doctree.NewElement("vimeo", doctree.Props{"videoId": m[1]})
		},
	})

	res := c.Classify(context.Background(), "https://vimeo.com/42")

	require.True(t, res.IsEmbed())
	assert.Equal(t, "vimeo", res.Provider)
	assert.Equal(t, "42", res.Node.Attr("videoId"))
}

func TestClassifyEmpty(t *testing.T) {
	res := NewClassifier().Classify(context.Background(), "")
	assert.True(t, res.IsEmpty())
}

func TestAudioURL(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "https://w.soundcloud.com/player/?url=https%3A%2F%2Fsoundcloud.com%2Fa%2Fb&auto_play=false", want: "https://soundcloud.com/a/b"},
		{src: "https://open.spotify.com/embed/album/xyz", want: "https://open.spotify.com/album/xyz"},
		{src: "https://cdn.test/clip.mp3", want: "https://cdn.test/clip.mp3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AudioURL(tt.src), tt.src)
	}
}

func TestSegmentID(t *testing.T) {
	assert.Equal(t, "s1", SegmentID(DefaultShareImageBaseURL+"?content_id=c1&segment_id=s1&text_id=t1"))
	assert.Equal(t, "", SegmentID("seg-1"))
	assert.Equal(t, "", SegmentID("https://img.test/seg-2.png"))
}
