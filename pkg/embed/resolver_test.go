package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"sheets-editor-be/pkg/doctree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string]string
}

func (m *memoryCache) Get(_ context.Context, link string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.items[link]
	return id, ok, nil
}

func (m *memoryCache) Set(_ context.Context, link, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[link] = id
	return nil
}

func newPageServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/s/meta", func(w http.ResponseWriter, _ *http.Request) {
		*hits++
		fmt.Fprint(w, `<html><head>
			<meta property="og:title" content="A page">
			<meta property="og:url" content="https://pecha.org/chapter?text_id=t&content_id=c&segment_id=seg-9">
		</head><body></body></html>`)
	})
	mux.HandleFunc("/s/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/chapter?text_id=t&segment_id=seg-7", http.StatusFound)
	})
	mux.HandleFunc("/chapter", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html></html>`)
	})
	mux.HandleFunc("/s/bare", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>nothing</title></head></html>`)
	})
	mux.HandleFunc("/s/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPResolver(t *testing.T) {
	hits := 0
	srv := newPageServer(t, &hits)
	r := NewHTTPResolver(time.Second, nil, nil)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "og url meta", path: "/s/meta", want: "seg-9"},
		{name: "redirect target", path: "/s/redirect", want: "seg-7"},
		{name: "no metadata", path: "/s/bare", wantErr: true},
		{name: "not found", path: "/s/missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), srv.URL+tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPResolverNoSegment(t *testing.T) {
	hits := 0
	srv := newPageServer(t, &hits)

	_, err := NewHTTPResolver(time.Second, nil, nil).Resolve(context.Background(), srv.URL+"/s/bare")

	assert.True(t, errors.Is(err, ErrNoSegment))
}

func TestHTTPResolverUsesCache(t *testing.T) {
	hits := 0
	srv := newPageServer(t, &hits)
	cache := &memoryCache{items: map[string]string{}}
	r := NewHTTPResolver(time.Second, cache, nil)

	for i := 0; i < 3; i++ {
		id, err := r.Resolve(context.Background(), srv.URL+"/s/meta")
		require.NoError(t, err)
		assert.Equal(t, "seg-9", id)
	}
	assert.Equal(t, 1, hits)
}

func TestClassifierWithHTTPResolver(t *testing.T) {
	hits := 0
	srv := newPageServer(t, &hits)
	c := NewClassifier(
		WithResolver(NewHTTPResolver(time.Second, nil, nil)),
		WithShortLinkPattern(regexp.MustCompile(`^`+regexp.QuoteMeta(srv.URL)+`/s/`)),
	)

	res := c.Classify(context.Background(), srv.URL+"/s/meta")
	require.True(t, res.IsEmbed())
	assert.Equal(t, doctree.TypePecha, res.Node.Type)
	assert.Equal(t, "seg-9", res.Node.Attr("src"))

	res = c.Classify(context.Background(), srv.URL+"/s/missing")
	assert.False(t, res.IsEmbed())
}

func TestExtractSegmentID(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "twitter url",
			page: `<meta name="twitter:url" content="https://pecha.org/chapter?segment_id=abc">`,
			want: "abc",
		},
		{
			name: "segment id meta",
			page: `<meta name="segment-id" content=" xyz ">`,
			want: "xyz",
		},
		{
			name: "og url without segment",
			page: `<meta property="og:url" content="https://pecha.org/"><meta name="segment-id" content="later">`,
			want: "later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSegmentID(strings.NewReader(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
