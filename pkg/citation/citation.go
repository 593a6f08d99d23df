// Package citation resolves bracketed source ids in display text.
package citation

import (
	"regexp"
	"strings"
)

// DefaultLiteralThreshold is the id length above which an unresolved token is
// assumed not to be a citation and is kept verbatim.
const DefaultLiteralThreshold = 15

// Source is one entry of the list a citation can point at.
type Source struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Outcome records what happened to a single bracketed token
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeLiteral  Outcome = "literal"
	OutcomeDropped  Outcome = "dropped"
)

// Citation is one bracketed token found in the text.
type Citation struct {
	ID          string  `json:"id"`
	Outcome     Outcome `json:"outcome"`
	Title       string  `json:"title,omitempty"`
	OriginalRaw string  `json:"raw"`
}

// Result contains the rewritten text and every token seen, in order.
type Result struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

var (
	tokenPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)
	spacePattern = regexp.MustCompile(`[ \t]{2,}`)
)

// Resolver rewrites citation tokens. The zero value uses DefaultLiteralThreshold.
type Resolver struct {
	LiteralThreshold int
}

func NewResolver(threshold int) *Resolver {
	return &Resolver{LiteralThreshold: threshold}
}

// Resolve replaces every [id] with the title of the matching source.
// Unmatched ids longer than the threshold stay as written, shorter ones are
// removed.
func (r *Resolver) Resolve(text string, sources []Source) *Result {
	threshold := r.LiteralThreshold
	if threshold <= 0 {
		threshold = DefaultLiteralThreshold
	}

	titles := make(map[string]string, len(sources))
	for _, s := range sources {
		titles[strings.TrimSpace(s.ID)] = s.Title
	}

	result := &Result{Citations: make([]Citation, 0)}
	dropped := false
	out := tokenPattern.ReplaceAllStringFunc(text, func(raw string) string {
		id := strings.TrimSpace(raw[1 : len(raw)-1])
		c := Citation{ID: id, OriginalRaw: raw}
		switch title, ok := titles[id]; {
		case ok:
			c.Outcome = OutcomeResolved
			c.Title = title
			result.Citations = append(result.Citations, c)
			return title
		case len([]rune(id)) > threshold:
			c.Outcome = OutcomeLiteral
			result.Citations = append(result.Citations, c)
			return raw
		default:
			c.Outcome = OutcomeDropped
			result.Citations = append(result.Citations, c)
			dropped = true
			return ""
		}
	})

	if dropped {
		out = strings.TrimSpace(spacePattern.ReplaceAllString(out, " "))
	}
	result.Text = out
	return result
}

// Resolve uses DefaultLiteralThreshold.
func Resolve(text string, sources []Source) string {
	return (&Resolver{}).Resolve(text, sources).Text
}
