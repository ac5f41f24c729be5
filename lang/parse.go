package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/klauspost/readahead"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/stencil/arena"
	"github.com/ardnew/stencil/log"
	"github.com/ardnew/stencil/pkg"
)

// ParseReader parses a template read from r.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	syntax Syntax,
	opts ...Option,
) (*Template, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), syntax, opts...)
}

// Parse parses source written in the given syntax.
//
// Parsing stops at the first error, which is a [*pkg.Error] matching one of
// the template error sentinels and located at the offending tag. An empty
// source yields a template with a single empty text node.
func Parse(
	ctx context.Context,
	source string,
	syntax Syntax,
	opts ...Option,
) (*Template, error) {
	if err := syntax.Validate(); err != nil {
		return nil, err
	}

	o := makeOptions(opts...)

	p := &parser{
		src:      source,
		syntax:   syntax,
		table:    newDispatch(syntax),
		arena:    o.arena,
		logger:   o.logger,
		maxDepth: o.maxDepth,
	}

	p.logger.TraceContext(ctx, "parse start",
		slog.Int("source_bytes", len(source)))

	nodes, err := p.parseNodes(0, len(source))
	if err != nil {
		p.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	if len(nodes) == 0 {
		if err := p.charge(); err != nil {
			return nil, err
		}

		nodes = []*Node{{Kind: KindText}}
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("nodes", p.count))

	return &Template{Nodes: nodes, source: source, syntax: syntax}, nil
}

// parser holds the state of one parse.
//
// All positions are byte offsets into src; section bodies are parsed in
// place so that errors report offsets in the original source.
type parser struct {
	src      string
	syntax   Syntax
	table    dispatch
	arena    *arena.Arena
	logger   log.Logger
	depth    int
	maxDepth int
	count    int
}

// parseNodes parses src[start:end] into a node sequence.
func (p *parser) parseNodes(start, end int) ([]*Node, error) {
	var nodes []*Node

	open := p.syntax.OpenBrace

	for pos := start; pos < end; {
		i := strings.Index(p.src[pos:end], open)
		if i < 0 {
			i = end - pos
		}

		if i > 0 {
			n, err := p.node(KindText, pos)
			if err != nil {
				return nil, err
			}

			n.Content = p.src[pos : pos+i]
			nodes = append(nodes, n)
		}

		pos += i
		if pos >= end {
			break
		}

		n, next, err := p.parseTag(pos, end)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)
		pos = next
	}

	return nodes, nil
}

// parseTag parses the tag starting at src[tag], returning its node and the
// offset following it.
func (p *parser) parseTag(tag, end int) (*Node, int, error) {
	cs := p.skipSpace(tag+len(p.syntax.OpenBrace), end)

	r, ok := p.table.match(p.src[cs:end])
	if !ok {
		return nil, 0, p.unknownTag(tag, cs, end)
	}

	after := cs + len(r.keyword)

	switch r.kind {
	case tagSection:
		return p.parseSection(tag, after, end)

	case tagInclude:
		closeAt, err := p.tagClose(tag, after, end, ErrNestedInclude, ErrUnexpectedIncludeEnd)
		if err != nil {
			return nil, 0, err
		}

		n, err := p.node(KindInclude, tag)
		if err != nil {
			return nil, 0, err
		}

		n.Path = p.path(strings.TrimSpace(p.src[after:closeAt]))

		return n, closeAt + len(p.syntax.CloseBrace), nil

	case tagExecute:
		closeAt, err := p.scanExecute(tag, after, end)
		if err != nil {
			return nil, 0, err
		}

		n, err := p.node(KindExecute, tag)
		if err != nil {
			return nil, 0, err
		}

		n.Content = strings.TrimSpace(p.src[after:closeAt])

		return n, closeAt + len(p.syntax.CloseBrace), nil

	case tagEnd:
		return nil, 0, p.errorAt(ErrUnexpectedSectionEnd, tag,
			"section end without matching start")

	default:
		closeAt, err := p.tagClose(tag, after, end,
			ErrNestedInterpolation, ErrUnexpectedInterpolationEnd)
		if err != nil {
			return nil, 0, err
		}

		raw := strings.TrimSpace(p.src[after:closeAt])
		if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
			return nil, 0, p.unknownTag(tag, cs, end)
		}

		n, err := p.node(KindInterpolate, tag)
		if err != nil {
			return nil, 0, err
		}

		n.Path = p.path(raw)

		return n, closeAt + len(p.syntax.CloseBrace), nil
	}
}

// tagClose finds the close brace of a simple tag whose content starts at
// from. An open brace before it is reported as nested, and a missing close
// brace as unterminated.
func (p *parser) tagClose(tag, from, end int, nested, unterminated *pkg.Error) (int, error) {
	s := p.src[from:end]

	c := strings.Index(s, p.syntax.CloseBrace)
	o := strings.Index(s, p.syntax.OpenBrace)

	if o >= 0 && (c < 0 || o < c) {
		return 0, p.errorAt(nested, from+o, "open brace inside tag")
	}

	if c < 0 {
		return 0, p.errorAt(unterminated, tag, "missing "+p.syntax.CloseBrace)
	}

	return from + c, nil
}

// sectionHeader is the parsed content of a section start tag.
type sectionHeader struct {
	iterator string
	source   string
	join     string
	joined   bool
}

func (p *parser) parseSection(tag, after, end int) (*Node, int, error) {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.maxDepth {
		return nil, 0, p.errorAt(ErrMaxDepthExceeded, tag, "sections nested too deeply").
			With(slog.Int("max_depth", p.maxDepth))
	}

	closeAt := strings.Index(p.src[after:end], p.syntax.CloseBrace)
	if closeAt < 0 {
		return nil, 0, p.errorAt(ErrUnexpectedSectionEnd, tag,
			"missing "+p.syntax.CloseBrace)
	}

	closeAt += after

	h, err := p.parseHeader(tag, p.src[after:closeAt])
	if err != nil {
		return nil, 0, err
	}

	bodyStart := closeAt + len(p.syntax.CloseBrace)

	bodyEnd, next, err := p.scanSection(tag, bodyStart, end, h.source)
	if err != nil {
		return nil, 0, err
	}

	n, err := p.node(KindSection, tag)
	if err != nil {
		return nil, 0, err
	}

	n.Iterator = h.iterator
	n.Path = p.path(h.source)
	n.Join = h.join
	n.Joined = h.joined

	n.Body, err = p.parseNodes(bodyStart, bodyEnd)
	if err != nil {
		return nil, 0, err
	}

	return n, next, nil
}

// parseHeader parses "x in items" or "x#items", with an optional join
// clause following the source path.
func (p *parser) parseHeader(tag int, content string) (sectionHeader, error) {
	var h sectionHeader

	src := strings.TrimSpace(p.syntax.SectionSource)
	joinPrefix, joinSuffix := p.syntax.join()

	s := strings.TrimLeftFunc(content, unicode.IsSpace)

	// iterator name
	n := p.scanName(s, src)
	h.iterator, s = s[:n], strings.TrimLeftFunc(s[n:], unicode.IsSpace)

	if !strings.HasPrefix(s, src) ||
		(isWord(src) && !p.table.atBoundary(s[len(src):])) {
		return h, p.errorAt(ErrNoSourceInSection, tag,
			"expected "+strconv.Quote(src)+" after iterator")
	}

	s = strings.TrimLeftFunc(s[len(src):], unicode.IsSpace)

	// source path
	n = p.scanName(s, joinPrefix)
	h.source, s = s[:n], strings.TrimLeftFunc(s[n:], unicode.IsSpace)

	if h.source == "" {
		return h, p.errorAt(ErrNoSourceInSection, tag, "missing source path")
	}

	if s == "" {
		return h, nil
	}

	if joinPrefix == "" || !strings.HasPrefix(s, joinPrefix) {
		return h, p.errorAt(ErrUnexpectedSectionEnd, tag,
			"unexpected "+strconv.Quote(s)+" in section tag")
	}

	s = s[len(joinPrefix):]

	if joinSuffix != "" {
		s = strings.TrimRightFunc(s, unicode.IsSpace)
		if !strings.HasSuffix(s, joinSuffix) {
			return h, p.errorAt(ErrUnexpectedSectionEnd, tag,
				"unterminated join separator")
		}

		s = s[:len(s)-len(joinSuffix)]
	}

	h.join, h.joined = s, true

	return h, nil
}

// scanName returns the length of the name at the start of s. The name ends
// at whitespace or, when stop is a symbol, at the first occurrence of stop.
func (p *parser) scanName(s, stop string) int {
	symbol := stop != "" && !isWord(stop)

	for i, r := range s {
		if unicode.IsSpace(r) || (symbol && strings.HasPrefix(s[i:], stop)) {
			return i
		}
	}

	return len(s)
}

// scanSection finds the end tag matching a section whose body starts at
// from. It returns the offset of the end tag and the offset following it.
//
// In the keyword dialect every nested section start increases the nesting
// level; in the delimiter dialect only starts and ends naming the same
// source count. Execute tags are skipped whole so that braces in code do
// not affect nesting.
func (p *parser) scanSection(tag, from, end int, source string) (int, int, error) {
	var (
		open    = p.syntax.OpenBrace
		closing = p.syntax.CloseBrace
		keyword = p.syntax.keywordDialect()
		level   = 1
	)

	for pos := from; pos < end; {
		i := strings.Index(p.src[pos:end], open)
		if i < 0 {
			break
		}

		t := pos + i
		cs := p.skipSpace(t+len(open), end)
		r, ok := p.table.match(p.src[cs:end])

		if ok && r.kind == tagExecute {
			closeAt, err := p.scanExecute(t, cs+len(r.keyword), end)
			if err != nil {
				return 0, 0, err
			}

			pos = closeAt + len(closing)

			continue
		}

		c := strings.Index(p.src[cs:end], closing)
		if c < 0 {
			break
		}

		closeAt := cs + c

		var content string
		if cs+len(r.keyword) <= closeAt {
			content = p.src[cs+len(r.keyword) : closeAt]
		}

		switch {
		case !ok:
		case r.kind == tagSection:
			if keyword || p.headerSource(content) == source {
				level++
			}
		case r.kind == tagEnd:
			if keyword || strings.TrimSpace(content) == source {
				level--
			}
		}

		if level == 0 {
			return t, closeAt + len(closing), nil
		}

		pos = closeAt + len(closing)
	}

	return 0, 0, p.errorAt(ErrUnexpectedSectionEnd, tag,
		"no matching section end").With(slog.String("source", source))
}

// headerSource returns the source path of a section start tag's content,
// or the empty string if it does not parse.
func (p *parser) headerSource(content string) string {
	h, err := p.parseHeader(0, content)
	if err != nil {
		return ""
	}

	return h.source
}

// scanExecute finds the close brace ending code that starts at from.
//
// Quotes and backslash escapes are tracked so that braces inside string
// literals are inert. Outside quotes each open brace raises the brace level
// and each close brace lowers it; the code ends where the level reaches
// zero. An Execute tag opened inside the code is an error.
func (p *parser) scanExecute(tag, from, end int) (int, error) {
	var (
		open    = p.syntax.OpenBrace
		closing = p.syntax.CloseBrace
		level   = 1
		quote   byte
		escaped bool
	)

	for i := from; i < end; {
		c := p.src[i]

		switch {
		case escaped:
			escaped = false
			i++

		case c == '\\':
			escaped = true
			i++

		case quote != 0:
			if c == quote {
				quote = 0
			}

			i++

		case c == '\'' || c == '"':
			quote = c
			i++

		case strings.HasPrefix(p.src[i:end], open):
			cs := p.skipSpace(i+len(open), end)
			if r, ok := p.table.match(p.src[cs:end]); ok && r.kind == tagExecute {
				return 0, p.errorAt(ErrNestedExecute, i, "execute tag inside code")
			}

			level++
			i += len(open)

		case strings.HasPrefix(p.src[i:end], closing):
			level--
			if level == 0 {
				return i, nil
			}

			i += len(closing)

		default:
			i++
		}
	}

	return 0, p.errorAt(ErrUnexpectedExecuteEnd, tag, "unbalanced braces or quotes in code")
}

func (p *parser) node(kind Kind, offset int) (*Node, error) {
	if err := p.charge(); err != nil {
		return nil, err
	}

	return &Node{Kind: kind, Offset: offset}, nil
}

func (p *parser) charge() error {
	p.count++

	if p.arena == nil {
		return nil
	}

	return p.arena.Charge(nodeSize)
}

func (p *parser) path(raw string) Path {
	return ParsePath(raw, p.syntax.NestingSeparator)
}

func (p *parser) skipSpace(pos, end int) int {
	for pos < end {
		r, size := utf8.DecodeRuneInString(p.src[pos:end])
		if !unicode.IsSpace(r) {
			break
		}

		pos += size
	}

	return pos
}

// unknownTag reports the first word of an unrecognized tag, with the
// closest keyword as a suggestion.
func (p *parser) unknownTag(tag, cs, end int) error {
	s := p.src[cs:end]
	if i := strings.Index(s, p.syntax.CloseBrace); i >= 0 {
		s = s[:i]
	}

	word := s
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		word = s[:i]
	}

	e := p.errorAt(ErrUnknownTag, tag, "unrecognized "+strconv.Quote(word)).
		With(slog.String("tag", word))

	if m := fuzzy.Find(word, p.table.keywords()); len(m) > 0 {
		e = e.With(slog.String("suggestion", m[0].Str)).
			Wrap(errors.New("unrecognized " + strconv.Quote(word) +
				", did you mean " + strconv.Quote(m[0].Str) + "?"))
	}

	return e
}

func (p *parser) errorAt(kind *pkg.Error, offset int, reason string) *pkg.Error {
	return kind.WithPosition(pkg.PositionOf(p.src, offset)).
		WithSource(p.src).
		Wrap(errors.New(reason))
}
