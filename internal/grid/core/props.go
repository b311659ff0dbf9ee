package core

import (
	"fmt"
	"strconv"
	"strings"
)

// StyleEntry is one custom style declaration.
type StyleEntry struct {
	Key   string
	Value string
}

// Style holds the style properties of a cell. The positional keys are
// fixed fields; anything else lives in Extra, in declaration order.
type Style struct {
	Transform   string
	Width       string
	PaddingLeft string
	Extra       []StyleEntry
}

// Get returns the value of a style key.
func (s Style) Get(key string) (string, bool) {
	switch key {
	case "transform":
		return s.Transform, s.Transform != ""
	case "width":
		return s.Width, s.Width != ""
	case "paddingLeft":
		return s.PaddingLeft, s.PaddingLeft != ""
	}
	for _, e := range s.Extra {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set returns a copy of the style with key set to value.
func (s Style) Set(key, value string) Style {
	switch key {
	case "transform":
		s.Transform = value
		return s
	case "width":
		s.Width = value
		return s
	case "paddingLeft":
		s.PaddingLeft = value
		return s
	}
	extra := make([]StyleEntry, len(s.Extra), len(s.Extra)+1)
	copy(extra, s.Extra)
	for i := range extra {
		if extra[i].Key == key {
			extra[i].Value = value
			s.Extra = extra
			return s
		}
	}
	s.Extra = append(extra, StyleEntry{Key: key, Value: value})
	return s
}

// String renders the style as a declaration list.
func (s Style) String() string {
	var parts []string
	if s.Width != "" {
		parts = append(parts, "width: "+s.Width)
	}
	if s.Transform != "" {
		parts = append(parts, "transform: "+s.Transform)
	}
	if s.PaddingLeft != "" {
		parts = append(parts, "padding-left: "+s.PaddingLeft)
	}
	for _, e := range s.Extra {
		parts = append(parts, e.Key+": "+e.Value)
	}
	return strings.Join(parts, "; ")
}

// Props are the attributes attached to a rendered cell.
type Props struct {
	DataCol int
	DataRow int
	Class   string
	Style   Style
	Attrs   map[string]string
}

// AttrMap returns the props as a flat attribute map including the data
// index attributes.
func (p Props) AttrMap() map[string]string {
	out := make(map[string]string, len(p.Attrs)+4)
	for k, v := range p.Attrs {
		out[k] = v
	}
	out[DataColAttr] = strconv.Itoa(p.DataCol)
	out[DataRowAttr] = strconv.Itoa(p.DataRow)
	if p.Class != "" {
		out["class"] = p.Class
	}
	if style := p.Style.String(); style != "" {
		out["style"] = style
	}
	return out
}

// Px formats a pixel length.
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// TranslateX formats a horizontal translation.
func TranslateX(v float64) string {
	return fmt.Sprintf("translateX(%s)", Px(v))
}

// ParsePx parses a pixel length produced by Px.
func ParsePx(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
}

// JoinClass joins non-empty class names with a single space.
func JoinClass(classes ...string) string {
	var b strings.Builder
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c)
	}
	return b.String()
}

// HasClass reports whether class appears in a space separated class list.
func HasClass(list, class string) bool {
	for _, c := range strings.Fields(list) {
		if c == class {
			return true
		}
	}
	return false
}
