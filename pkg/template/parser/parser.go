package parser

import (
	"errors"
	"io"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/pkg/template"
)

// ErrParse matches malformed template source.
var ErrParse = treeerrors.New(treeerrors.CodeParse)

// ErrResolverIO matches failures to resolve an included template.
var ErrResolverIO = treeerrors.New(treeerrors.CodeResolverIO)

// marker matches the text constructs: {{key}}, @child@ and @include name@.
var marker = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}|@child@|@include\s+([^@\s]+)\s*@`)

// Parse parses template source into a definition tree. Includes are
// resolved through r; a nil r resolves nothing.
func Parse(source string, r Resolver) (template.Node, error) {
	return parseRoot("", source, r)
}

// ParseFile resolves name through r and parses the result. Errors carry
// name as their file.
func ParseFile(name string, r Resolver) (template.Node, error) {
	if r == nil {
		r = NullResolver{}
	}
	source, err := open(r, name)
	if err != nil {
		return nil, err
	}
	return parseRoot(name, source, r)
}

func parseRoot(name, source string, r Resolver) (template.Node, error) {
	if r == nil {
		r = NullResolver{}
	}
	p := &parser{resolver: r}
	if name != "" {
		p.including = []string{name}
	}

	roots, err := p.parse(name, source)
	if err != nil {
		return nil, err
	}
	switch len(roots) {
	case 0:
		return nil, treeerrors.New(treeerrors.CodeParse).
			WithDetail("template has no root node")
	case 1:
	default:
		return nil, treeerrors.New(treeerrors.CodeParse).
			WithDetailf("template has %d root nodes, want exactly one", len(roots))
	}

	def, err := roots[0].Build()
	if err != nil {
		return nil, treeerrors.New(treeerrors.CodeParse).
			WithDetail("invalid template structure").
			Wrap(err)
	}
	return def, nil
}

type parser struct {
	resolver  Resolver
	including []string // include chain, outermost first
}

// frame is an open element.
type frame struct {
	tag     string
	builder *template.ElementBuilder
	slot    bool
}

// state is the parse state of one source. Included sources get their own.
type state struct {
	file   string
	source string
	offset int // byte offset of the current token
	roots  []template.Builder
	stack  []*frame
	slots  int
}

func (p *parser) parse(file, source string) ([]template.Builder, error) {
	s := &state{file: file, source: source}
	z := html.NewTokenizer(strings.NewReader(source))

	for {
		tt := z.Next()
		size := len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return s.roots, nil
			}
			return nil, s.errorf("tokenize: %v", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if err := s.startTag(tok, tt == html.SelfClosingTagToken); err != nil {
				return nil, err
			}

		case html.EndTagToken:
			tok := z.Token()
			if err := s.endTag(tok.Data); err != nil {
				return nil, err
			}

		case html.TextToken:
			if err := p.text(s, string(z.Text())); err != nil {
				return nil, err
			}
		}

		s.offset += size
	}
}

func (s *state) add(b template.Builder) {
	if len(s.stack) == 0 {
		s.roots = append(s.roots, b)
		return
	}
	s.stack[len(s.stack)-1].builder.AddChild(b)
}

func (s *state) startTag(tok html.Token, selfClosing bool) error {
	b := template.NewElement(tok.Data)
	for _, attr := range tok.Attr {
		if err := s.attribute(b, attr.Key, attr.Val); err != nil {
			return err
		}
	}
	s.add(b)
	if !selfClosing && !template.IsVoidElement(tok.Data) {
		s.stack = append(s.stack, &frame{tag: tok.Data, builder: b})
	}
	return nil
}

func (s *state) endTag(tag string) error {
	if template.IsVoidElement(tag) {
		return nil
	}
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].tag != tag {
		return s.errorf("unexpected </%s>", tag)
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// attribute declares one attribute of b according to its syntax.
func (s *state) attribute(b *template.ElementBuilder, key, val string) error {
	switch {
	case strings.HasPrefix(key, "["):
		if !strings.HasSuffix(key, "]") || len(key) < 3 {
			return s.errorf("malformed binding %q", key)
		}
		if val == "" {
			return s.errorf("binding %s has no model key", key)
		}
		name := key[1 : len(key)-1]
		switch {
		case strings.HasPrefix(name, "class."):
			b.SetClass(strings.TrimPrefix(name, "class."), template.ModelValue(val))
		case strings.HasPrefix(name, "attr."):
			b.SetAttribute(strings.TrimPrefix(name, "attr."), template.ModelValue(val))
		default:
			b.SetProperty(name, template.ModelValue(val))
		}

	case strings.HasPrefix(key, "("):
		if !strings.HasSuffix(key, ")") || len(key) < 3 {
			return s.errorf("malformed event binding %q", key)
		}
		if val == "" {
			return s.errorf("event binding %s has no handler", key)
		}
		b.SetEventHandler(key[1:len(key)-1], val)

	default:
		b.SetAttribute(key, template.Static(val))
	}
	return nil
}

// text splits a text token into static text, bound text, the child slot
// and includes. Whitespace-only static text is dropped.
func (p *parser) text(s *state, text string) error {
	last := 0
	for _, m := range marker.FindAllStringSubmatchIndex(text, -1) {
		s.staticText(text[last:m[0]])
		last = m[1]

		switch {
		case m[2] >= 0:
			s.add(template.NewText(template.ModelValue(text[m[2]:m[3]])))
		case m[4] >= 0:
			if err := p.include(s, text[m[4]:m[5]]); err != nil {
				return err
			}
		default:
			if err := s.slot(); err != nil {
				return err
			}
		}
	}
	s.staticText(text[last:])
	return nil
}

func (s *state) staticText(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.add(template.NewText(template.Static(text)))
}

func (s *state) slot() error {
	if len(s.stack) == 0 {
		return s.errorf("@child@ must be inside an element")
	}
	top := s.stack[len(s.stack)-1]
	if top.slot {
		return s.errorf("<%s> declares more than one child slot", top.tag)
	}
	s.slots++
	if s.slots > 1 {
		return s.errorf("a template can declare only one child slot")
	}
	top.slot = true
	top.builder.AddSlot()
	return nil
}

func (p *parser) include(s *state, name string) error {
	if slices.Contains(p.including, name) {
		return s.errorf("include cycle: %s -> %s", strings.Join(p.including, " -> "), name)
	}
	source, err := open(p.resolver, name)
	if err != nil {
		return err
	}

	p.including = append(p.including, name)
	roots, err := p.parse(name, source)
	p.including = p.including[:len(p.including)-1]
	if err != nil {
		return err
	}
	for _, b := range roots {
		s.add(b)
	}
	return nil
}

// errorf returns a parse error located at the current token.
func (s *state) errorf(format string, args ...any) error {
	line, col := position(s.source, s.offset)
	return treeerrors.New(treeerrors.CodeParse).
		WithDetailf(format, args...).
		WithSource(s.file, s.source, line, col)
}

// position converts a byte offset to a 1-based line and column.
func position(source string, offset int) (line, col int) {
	offset = min(offset, len(source))
	before := source[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndex(before, "\n")
	return line, col
}
