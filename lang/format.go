package lang

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stencil/json"
)

// Print writes an indented outline of the template's nodes to w, one node
// per line.
func (t *Template) Print(w io.Writer) error {
	var sb strings.Builder

	t.Walk(func(n *Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Describe())
		sb.WriteByte('\n')

		return true
	})

	_, err := io.WriteString(w, sb.String())

	return err
}

// Describe returns a one-line summary of n without its body.
func (n *Node) Describe() string {
	switch n.Kind {
	case KindText:
		return "text " + strconv.Quote(n.Content)
	case KindInterpolate, KindInclude:
		return n.Kind.String() + " " + n.Path.String()
	case KindExecute:
		return "execute " + strconv.Quote(n.Content)
	case KindSection:
		s := "section " + n.Iterator + " in " + n.Path.String()
		if n.Joined {
			s += " join " + strconv.Quote(n.Join)
		}

		return s
	default:
		return n.Kind.String()
	}
}

// ToValue returns the template's nodes as a JSON array of objects, each
// with a "kind" member and the members meaningful for that kind.
func (t *Template) ToValue() *json.Value {
	return nodesValue(t.Nodes)
}

// ToMap returns the template as plain Go values: a map with a "nodes" list.
func (t *Template) ToMap() map[string]any {
	return map[string]any{"nodes": t.ToValue().Native()}
}

func nodesValue(nodes []*Node) *json.Value {
	items := make([]*json.Value, len(nodes))
	for i, n := range nodes {
		items[i] = nodeValue(n)
	}

	return json.Array(items...)
}

func nodeValue(n *Node) *json.Value {
	members := []json.Member{
		json.Pair("kind", json.Text(n.Kind.String())),
		json.Pair("offset", json.Number(float64(n.Offset))),
	}

	switch n.Kind {
	case KindText, KindExecute:
		members = append(members, json.Pair("content", json.Text(n.Content)))

	case KindInterpolate, KindInclude:
		members = append(members, json.Pair("path", json.Text(n.Path.String())))

	case KindSection:
		members = append(members,
			json.Pair("iterator", json.Text(n.Iterator)),
			json.Pair("path", json.Text(n.Path.String())),
		)

		if n.Joined {
			members = append(members, json.Pair("join", json.Text(n.Join)))
		}

		members = append(members, json.Pair("body", nodesValue(n.Body)))
	}

	return json.Object(members...)
}

// FormatJSON writes the template's node tree as JSON. An empty indent
// writes compact JSON.
func (t *Template) FormatJSON(w io.Writer, indent string) error {
	v := t.ToValue()

	var s string
	if indent == "" {
		s = json.Print(v)
	} else {
		s = json.Indent(v, indent)
	}

	_, err := io.WriteString(w, s+"\n")

	return err
}

// FormatYAML writes the template's node tree as YAML indented by indent
// spaces.
func (t *Template) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	opts := []yaml.EncodeOption{yaml.IndentSequence(true)}
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	}

	data, err := json.MarshalYAML(ctx, t.ToValue(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Format writes the template source back in its own syntax, normalizing
// the spacing inside tags. Parsing the output yields an equivalent
// template.
func (t *Template) Format(w io.Writer) error {
	var sb strings.Builder

	formatNodes(&sb, t.syntax, t.Nodes)

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatNodes(sb *strings.Builder, s Syntax, nodes []*Node) {
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			sb.WriteString(n.Content)

		case KindInterpolate:
			tag(sb, s, keyword(s.InterpolationPrefix), n.Path.String())

		case KindInclude:
			tag(sb, s, keyword(s.Include), n.Path.String())

		case KindExecute:
			code := n.Content
			if strings.HasSuffix(code, `\`) {
				code += " " // keep the backslash from escaping the close brace
			}

			tag(sb, s, keyword(s.Execute), code)

		case KindSection:
			formatSection(sb, s, n)
		}
	}
}

func formatSection(sb *strings.Builder, s Syntax, n *Node) {
	var head strings.Builder

	source := strings.TrimSpace(s.SectionSource)
	if isWord(source) {
		source = " " + source + " "
	}

	if s.keywordDialect() {
		head.WriteString(keyword(s.SectionControl))
	} else {
		head.WriteString(strings.TrimSpace(s.SectionPrefixStart))
	}

	head.WriteString(n.Iterator)
	head.WriteString(source)
	head.WriteString(n.Path.String())

	if n.Joined {
		prefix, suffix := s.join()
		if isWord(n.Path.String()) && isWordStart(prefix) {
			head.WriteByte(' ')
		}

		head.WriteString(prefix)
		head.WriteString(n.Join)
		head.WriteString(suffix)
	}

	tag(sb, s, "", head.String())
	formatNodes(sb, s, n.Body)

	end := strings.TrimSpace(s.SectionPrefixEnd)
	if !s.keywordDialect() {
		end += n.Path.String()
	}

	tag(sb, s, "", end)
}

func tag(sb *strings.Builder, s Syntax, kw, content string) {
	sb.WriteString(s.OpenBrace)
	sb.WriteString(kw)
	sb.WriteString(content)
	sb.WriteString(s.CloseBrace)
}

// keyword returns k trimmed, followed by a space if it must be followed by
// a boundary.
func keyword(k string) string {
	k = strings.TrimSpace(k)
	if isWord(k) {
		k += " "
	}

	return k
}

func isWordStart(s string) bool {
	for _, r := range s {
		return isWord(string(r))
	}

	return false
}
