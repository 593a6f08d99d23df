package embed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	tracerName  = "sheets-editor-be/pkg/embed"
	maxPageSize = 1 << 20
)

var ErrNoSegment = errors.New("embed: page carries no segment id")

// LinkCache remembers resolved short links.
type LinkCache interface {
	Get(ctx context.Context, link string) (string, bool, error)
	Set(ctx context.Context, link, segmentID string) error
}

// HTTPResolver fetches the page behind a short link and reads the segment id
// from the final URL or from the page's <meta> tags.
type HTTPResolver struct {
	client *http.Client
	cache  LinkCache
	logger Logger
}

func NewHTTPResolver(timeout time.Duration, cache LinkCache, logger Logger) *HTTPResolver {
	return &HTTPResolver{
		client: &http.Client{Timeout: timeout},
		cache:  cache,
		logger: logger,
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, link string) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "embed.ResolveShortLink", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("embed.link", link))

	if r.cache != nil {
		id, ok, err := r.cache.Get(ctx, link)
		if err != nil && r.logger != nil {
			r.logger.Warn(logModule, "link cache read failed", map[string]interface{}{"error": err.Error()})
		}
		if ok {
			span.SetAttributes(attribute.Bool("embed.cache_hit", true))
			return id, nil
		}
	}

	id, err := r.fetch(ctx, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("embed.segment_id", id))

	if r.cache != nil {
		if err := r.cache.Set(ctx, link, id); err != nil && r.logger != nil {
			r.logger.Warn(logModule, "link cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return id, nil
}

func (r *HTTPResolver) fetch(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("build short link request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch short link: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fetch short link: unexpected status %d", resp.StatusCode)
	}
	if resp.Request != nil && resp.Request.URL != nil {
		if id := resp.Request.URL.Query().Get("segment_id"); id != "" {
			return id, nil
		}
	}
	return ExtractSegmentID(io.LimitReader(resp.Body, maxPageSize))
}

// ExtractSegmentID reads a segment id from og:url / twitter:url metadata or
// from <meta name="segment-id">.
func ExtractSegmentID(body io.Reader) (string, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse short link page: %w", err)
	}

	var found string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta {
			found = segmentFromMeta(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if found == "" {
		return "", ErrNoSegment
	}
	return found, nil
}

func segmentFromMeta(n *html.Node) string {
	var key, content string
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "property", "name":
			key = strings.ToLower(a.Val)
		case "content":
			content = strings.TrimSpace(a.Val)
		}
	}

	switch key {
	case "segment-id":
		return content
	case "og:url", "twitter:url":
		u, err := url.Parse(content)
		if err != nil {
			return ""
		}
		return u.Query().Get("segment_id")
	}
	return ""
}
