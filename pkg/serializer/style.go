package serializer

import (
	"fmt"
	"strings"

	"sheets-editor-be/pkg/doctree"
)

// StyleMap represents parsed CSS declarations keyed by CSS property name.
type StyleMap map[string]string

// styleProps maps leaf properties rendered through an inline span to their CSS
// property, in output order.
var styleProps = []struct {
	Prop string
	CSS  string
}{
	{"color", "color"},
	{"fontWeight", "font-weight"},
	{"fontStyle", "font-style"},
	{"textDecoration", "text-decoration"},
	{"textAlign", "text-align"},
	{"backgroundColor", "background-color"},
}

// ParseStyle parses a CSS style string into a map
// Example: "color: #F97316; background-color: #BFDBFE;"
func ParseStyle(styleStr string) StyleMap {
	styles := make(StyleMap)
	if styleStr == "" {
		return styles
	}

	for _, part := range strings.Split(styleStr, ";") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) == 2 {
			k := strings.ToLower(strings.TrimSpace(kv[0]))
			v := strings.TrimSpace(kv[1])
			if k != "" && v != "" {
				styles[k] = v
			}
		}
	}
	return styles
}

// LeafProps turns the whitelisted CSS declarations back into leaf properties.
func (s StyleMap) LeafProps() doctree.Props {
	out := doctree.Props{}
	for _, sp := range styleProps {
		if v, ok := s[sp.CSS]; ok {
			out[sp.Prop] = v
		}
	}
	return out
}

// leafStyle renders the style attribute value for a text leaf, or "" when it
// carries none of the whitelisted properties.
func leafStyle(props doctree.Props) string {
	var relevant []string
	for _, sp := range styleProps {
		v, ok := props[sp.Prop]
		if !ok || v == nil {
			continue
		}
		val := fmt.Sprint(v)
		if val == "" {
			continue
		}
		relevant = append(relevant, sp.CSS+": "+val)
	}
	return strings.Join(relevant, "; ")
}
