package doctree

// Option configures a command.
type Option func(*options)

type options struct {
	path  Path
	point *Point
	rng   *Range
	match Matcher
	mode  Mode
	split bool

	hasMode bool
}

// At targets the node at p instead of the selection.
func At(p Path) Option {
	return func(o *options) { o.path = p.Clone() }
}

func AtPoint(pt Point) Option {
	return func(o *options) { c := pt.Clone(); o.point = &c }
}

func AtRange(r Range) Option {
	return func(o *options) { c := r.Clone(); o.rng = &c }
}

func WithMatch(m Matcher) Option {
	return func(o *options) { o.match = m }
}

func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m; o.hasMode = true }
}

// WithSplit splits text leaves (for SetNodes) or wrappers (for UnwrapNodes)
// at the range edges so only the covered part is affected.
func WithSplit() Option {
	return func(o *options) { o.split = true }
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) modeOr(def Mode) Mode {
	if o.hasMode {
		return o.mode
	}
	return def
}

// span resolves the target location to a range; an explicit path spans the
// whole node.
func (o *options) span(e *Editor) (Range, bool) {
	switch {
	case o.path != nil:
		if !e.Has(o.path) {
			return Range{}, false
		}
		return e.RangeOf(o.path)
	case o.point != nil:
		if !e.HasPoint(*o.point) {
			return Range{}, false
		}
		return Collapsed(*o.point), true
	case o.rng != nil:
		if !e.HasPoint(o.rng.Anchor) || !e.HasPoint(o.rng.Focus) {
			return Range{}, false
		}
		return o.rng.Clone(), true
	case e.Selection != nil:
		return e.Selection.Clone(), true
	}
	return Range{}, false
}
