// Package embed decides what a paste turns into: an embed node followed by an
// empty paragraph, or a plain paragraph.
package embed

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"sheets-editor-be/pkg/doctree"
)

const logModule = "embed"

// DefaultShortLinkPattern matches links that only reveal their target after a
// fetch.
var DefaultShortLinkPattern = regexp.MustCompile(`^https?://(?:www\.)?pecha\.link/[A-Za-z0-9_-]+/?$`)

// Logger is satisfied by the service logger.
type Logger interface {
	Warn(module, message string, details map[string]interface{})
}

// Resolver turns a short link into a segment id.
type Resolver interface {
	Resolve(ctx context.Context, link string) (string, error)
}

// Result is the outcome of classification. A nil Node means the text goes in
// as a plain paragraph.
type Result struct {
	Text     string        `json:"text"`
	Provider string        `json:"provider,omitempty"`
	Node     *doctree.Node `json:"node,omitempty"`
}

func (r Result) IsEmbed() bool { return r.Node != nil }

func (r Result) IsEmpty() bool { return r.Node == nil && r.Text == "" }

type Classifier struct {
	mu             sync.RWMutex
	providers      []Provider
	shortLink      *regexp.Regexp
	resolver       Resolver
	logger         Logger
	shareImageBase string
}

type Option func(*Classifier)

func WithResolver(r Resolver) Option {
	return func(c *Classifier) { c.resolver = r }
}

func WithShortLinkPattern(re *regexp.Regexp) Option {
	return func(c *Classifier) { c.shortLink = re }
}

func WithLogger(l Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

func WithShareImageBaseURL(base string) Option {
	return func(c *Classifier) { c.shareImageBase = base }
}

func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		shortLink:      DefaultShortLinkPattern,
		shareImageBase: DefaultShareImageBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.providers = DefaultProviders(c.shareImageBase)
	return c
}

// Register appends a provider after the built-in ones.
func (c *Classifier) Register(p Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = append(c.providers, p)
}

// NeedsResolution reports whether classifying text would hit the network.
func (c *Classifier) NeedsResolution(text string) bool {
	return c.resolver != nil && c.shortLink != nil && c.shortLink.MatchString(strings.TrimSpace(text))
}

// Classify walks the table in priority order; the first match wins. Short
// links are resolved first and silently fall through on any failure. Classify
// never touches an editor and is safe to call from any goroutine.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Text: text}
	}

	if c.NeedsResolution(trimmed) {
		id, err := c.resolver.Resolve(ctx, trimmed)
		switch {
		case err != nil:
			c.warn("short link resolution failed", map[string]interface{}{"link": trimmed, "error": err.Error()})
		case id != "":
			return Result{
				Text:     text,
				Provider: "short-link",
				Node:     doctree.NewElement(doctree.TypePecha, doctree.Props{"src": id}),
			}
		}
	}

	c.mu.RLock()
	providers := c.providers
	c.mu.RUnlock()

	for _, p := range providers {
		m := p.Pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if n := p.Build(trimmed, m); n != nil {
			return Result{Text: text, Provider: p.Name, Node: n}
		}
	}
	return Result{Text: text}
}

func (c *Classifier) warn(message string, details map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(logModule, message, details)
	}
}
