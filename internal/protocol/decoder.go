package protocol

import (
	"html"
	"regexp"
	"strings"
)

// The upstream payloads are attribute-heavy and not reliably well-formed
// (self-closing variance, inconsistent escaping), so they are scanned tag by
// tag instead of being fed to an XML parser. Every function here is total:
// missing attributes read as "", no matches yield an empty result.

var (
	// Quoted attribute values are matched whole so a raw < or > inside one
	// does not end the tag.
	tagPattern  = regexp.MustCompile(`<(/?)([A-Za-z_][\w:.-]*)((?:\s+(?:[^<>"']|"[^"]*"|'[^']*')*?)?)\s*(/?)>`)
	attrPattern = regexp.MustCompile(`([A-Za-z_][\w:.-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

type tag struct {
	start       int
	end         int
	name        string
	attrs       string
	closing     bool
	selfClosing bool
}

func scanTags(s string) []tag {
	matches := tagPattern.FindAllStringSubmatchIndex(s, -1)
	tags := make([]tag, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, tag{
			start:       m[0],
			end:         m[1],
			closing:     m[3] > m[2],
			name:        localName(s[m[4]:m[5]]),
			attrs:       s[m[6]:m[7]],
			selfClosing: m[9] > m[8],
		})
	}
	return tags
}

func localName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ParseAttrs returns the attributes of a single tag's attribute string keyed
// by lower-cased name. The first occurrence of a name wins.
func ParseAttrs(attrString string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(attrString, -1) {
		key := strings.ToLower(m[1])
		if _, exists := attrs[key]; exists {
			continue
		}
		value := m[2]
		if value == "" {
			value = m[3]
		}
		attrs[key] = html.UnescapeString(value)
	}
	return attrs
}

// Attr looks a single attribute up by name, case-insensitively.
func Attr(attrString, name string) string {
	return ParseAttrs(attrString)[strings.ToLower(name)]
}

// Row is one element of a repeated tag: its attributes and raw inner content.
type Row struct {
	Name  string
	Attrs map[string]string
	Inner string
}

func (r Row) Attr(name string) string {
	return r.Attrs[strings.ToLower(name)]
}

// Bool reads an attribute as a flag; "true" and "1" are set.
func (r Row) Bool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(r.Attr(name))) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Rows returns the outermost elements named tagName (namespace prefix and
// case ignored). Rows nested inside a matched element stay in its Inner.
// An element left unclosed extends to the end of the payload.
func Rows(payload, tagName string) []Row {
	var (
		rows  []Row
		open  tag
		depth int
	)

	for _, t := range scanTags(payload) {
		if !strings.EqualFold(t.name, tagName) {
			continue
		}
		switch {
		case t.closing:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				rows = append(rows, Row{Name: open.name, Attrs: ParseAttrs(open.attrs), Inner: payload[open.end:t.start]})
			}
		case t.selfClosing:
			if depth == 0 {
				rows = append(rows, Row{Name: t.name, Attrs: ParseAttrs(t.attrs)})
			}
		default:
			if depth == 0 {
				open = t
			}
			depth++
		}
	}

	if depth > 0 {
		rows = append(rows, Row{Name: open.name, Attrs: ParseAttrs(open.attrs), Inner: payload[open.end:]})
	}

	return rows
}

// Section returns the inner content of the first <name>...</name> element.
func Section(payload, name string) (string, bool) {
	rows := Rows(payload, name)
	if len(rows) == 0 {
		return "", false
	}
	return rows[0].Inner, true
}

// RowNode is a row together with the same-named rows nested directly in it.
type RowNode struct {
	Row
	Children []*RowNode
}

// RowTree decodes self-nesting rows into a tree, preserving document order.
func RowTree(payload, tagName string) []*RowNode {
	rows := Rows(payload, tagName)
	nodes := make([]*RowNode, 0, len(rows))
	for _, r := range rows {
		nodes = append(nodes, &RowNode{
			Row:      r,
			Children: RowTree(r.Inner, tagName),
		})
	}
	return nodes
}
