package json

import (
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"

	"github.com/ardnew/stencil/arena"
	"github.com/ardnew/stencil/pkg"
)

// DefaultMaxDepth is the default limit on nesting of arrays and objects.
const DefaultMaxDepth = 512

var (
	// ErrParse is returned for malformed JSON text.
	ErrParse = pkg.NewError("invalid JSON")
	// ErrMaxDepth is returned when arrays and objects nest too deeply.
	ErrMaxDepth = pkg.NewError("maximum JSON nesting depth exceeded")
	// ErrReadInput is returned when reading JSON input fails.
	ErrReadInput = pkg.NewError("failed to read JSON input")
)

// Option configures parsing.
type Option func(*config)

type config struct {
	arena    *arena.Arena
	maxDepth int
}

// WithArena charges every parsed node against a.
func WithArena(a *arena.Arena) Option {
	return func(c *config) { c.arena = a }
}

// WithMaxDepth limits the nesting depth of arrays and objects.
// Values <= 0 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth
	}
}

// ParseReader reads all of r and parses it as a single JSON value.
func ParseReader(r io.Reader, opts ...Option) (*Value, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(string(data), opts...)
}

// Parse parses text as a single JSON value.
//
// Leading and trailing whitespace is ignored; any other trailing content is
// an error. Strings are validated but kept raw.
func Parse(text string, opts ...Option) (*Value, error) {
	p := &parser{src: text, config: config{maxDepth: DefaultMaxDepth}}

	for _, opt := range opts {
		opt(&p.config)
	}

	p.skipWhitespace()

	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.eof() {
		return nil, p.errorf("unexpected trailing content")
	}

	return v, nil
}

// parser holds the parser state.
type parser struct {
	src   string
	pos   int
	depth int
	config
}

func (p *parser) parseValue() (*Value, error) {
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}

		return p.node(&Value{kind: KindString, str: s}, len(s))
	case c == '-' || isDigit(c):
		return p.parseNumber()
	case c == 't':
		return p.parseLiteral("true", Bool(true))
	case c == 'f':
		return p.parseLiteral("false", Bool(false))
	case c == 'n':
		return p.parseLiteral("null", Null())
	default:
		return nil, p.errorf("unexpected character", slog.String("found", string(c)))
	}
}

func (p *parser) parseObject() (*Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.pos++ // '{'
	p.skipWhitespace()

	v := &Value{kind: KindObject}

	if p.consume('}') {
		return p.node(v, 0)
	}

	for {
		p.skipWhitespace()

		if p.peek() != '"' {
			return nil, p.errorf("expected object key")
		}

		key, err := p.parseString()
		if err != nil {
			return nil, err
		}

		p.skipWhitespace()

		if !p.consume(':') {
			return nil, p.errorf("expected ':' after object key")
		}

		p.skipWhitespace()

		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		if err := p.charge(memberSize + len(key)); err != nil {
			return nil, err
		}

		v.members = append(v.members, Member{Key: key, Value: elem})

		p.skipWhitespace()

		if p.consume('}') {
			return p.node(v, 0)
		}

		if !p.consume(',') {
			return nil, p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseArray() (*Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.pos++ // '['
	p.skipWhitespace()

	v := &Value{kind: KindArray}

	if p.consume(']') {
		return p.node(v, 0)
	}

	for {
		p.skipWhitespace()

		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		v.items = append(v.items, elem)

		p.skipWhitespace()

		if p.consume(']') {
			return p.node(v, 0)
		}

		if !p.consume(',') {
			return nil, p.errorf("expected ',' or ']' in array")
		}
	}
}

// parseString scans a quoted string and returns its raw contents.
func (p *parser) parseString() (string, error) {
	p.pos++ // opening quote
	start := p.pos

	for !p.eof() {
		c := p.src[p.pos]

		switch {
		case c == '"':
			s := p.src[start:p.pos]
			p.pos++

			return s, nil

		case c == '\\':
			if err := p.skipEscape(); err != nil {
				return "", err
			}

		case c < 0x20:
			return "", p.errorf("control character in string")

		default:
			p.pos++
		}
	}

	return "", p.errorf("unterminated string")
}

func (p *parser) skipEscape() error {
	if p.pos+1 >= len(p.src) {
		return p.errorf("unterminated string")
	}

	switch p.src[p.pos+1] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		p.pos += 2

		return nil

	case 'u':
		if _, ok := hex4(p.src[p.pos:]); !ok {
			return p.errorf("invalid unicode escape")
		}

		p.pos += 6

		return nil

	default:
		return p.errorf("invalid escape character",
			slog.String("found", string(p.src[p.pos+1])))
	}
}

func (p *parser) parseNumber() (*Value, error) {
	start := p.pos

	p.consume('-')

	switch {
	case p.consume('0'):
	case isDigit(p.peek()):
		p.skipDigits()
	default:
		return nil, p.errorf("invalid number")
	}

	if p.consume('.') {
		if !isDigit(p.peek()) {
			return nil, p.errorf("expected digit after decimal point")
		}

		p.skipDigits()
	}

	if c := p.peek(); c == 'e' || c == 'E' {
		p.pos++

		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}

		if !isDigit(p.peek()) {
			return nil, p.errorf("expected digit in exponent")
		}

		p.skipDigits()
	}

	text := p.src[start:p.pos]

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start

		return nil, p.errorf("number out of range", slog.String("number", text))
	}

	return p.node(Number(f), 0)
}

func (p *parser) parseLiteral(word string, v *Value) (*Value, error) {
	if len(p.src)-p.pos < len(word) || p.src[p.pos:p.pos+len(word)] != word {
		return nil, p.errorf("invalid literal", slog.String("expected", word))
	}

	p.pos += len(word)

	return p.node(v, 0)
}

// node charges the arena for v plus extra bytes of string content.
func (p *parser) node(v *Value, extra int) (*Value, error) {
	if err := p.charge(valueSize + extra); err != nil {
		return nil, err
	}

	return v, nil
}

func (p *parser) charge(n int) error {
	if p.arena == nil {
		return nil
	}

	return p.arena.Charge(n)
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrMaxDepth.
			WithPosition(pkg.PositionOf(p.src, p.pos)).
			With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) errorf(msg string, attrs ...slog.Attr) *pkg.Error {
	return ErrParse.
		WithPosition(pkg.PositionOf(p.src, p.pos)).
		WithSource(p.src).
		With(attrs...).
		Wrap(errors.New(msg))
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++

		return true
	}

	return false
}

func (p *parser) skipDigits() {
	for isDigit(p.peek()) {
		p.pos++
	}
}

func (p *parser) skipWhitespace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
