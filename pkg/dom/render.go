package dom

import (
	"bytes"
	"io"
	"slices"
	"strings"

	"github.com/vango-dev/statetree/pkg/template"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output, one element per line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer writes element trees as HTML. Properties are not part of the
// markup and are not rendered.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders an element tree to an HTML string.
func (r *Renderer) RenderToString(e *Element) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, e); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams an element tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, e *Element) error {
	return r.renderNode(w, e, 0)
}

func (r *Renderer) renderNode(w io.Writer, e *Element, depth int) error {
	if e == nil {
		return nil
	}
	if e.IsTextNode() {
		return r.renderText(w, e, depth)
	}
	return r.renderElement(w, e, depth)
}

func (r *Renderer) renderElement(w io.Writer, e *Element, depth int) error {
	tag := e.Tag()
	r.writeIndent(w, depth)

	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, e); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if template.IsVoidElement(tag) {
		r.writeNewline(w)
		return nil
	}

	children, err := e.Children()
	if err != nil {
		return err
	}
	if len(children) > 0 {
		r.writeNewline(w)
		for _, child := range children {
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
		}
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "</"+tag+">"); err != nil {
		return err
	}
	r.writeNewline(w)
	return nil
}

func (r *Renderer) renderText(w io.Writer, e *Element, depth int) error {
	r.writeIndent(w, depth)
	if _, err := io.WriteString(w, escapeHTML(e.TextContent())); err != nil {
		return err
	}
	r.writeNewline(w)
	return nil
}

// renderAttributes writes attributes in sorted order. The class attribute
// is taken from the class list so that template class bindings are
// included. Empty values are written as bare names.
func (r *Renderer) renderAttributes(w io.Writer, e *Element) error {
	names := e.AttributeNames()
	classes := e.ClassList().Slice()
	if len(classes) > 0 && !slices.Contains(names, classAttribute) {
		names = append(names, classAttribute)
		slices.Sort(names)
	}

	for _, name := range names {
		var value string
		if name == classAttribute {
			if len(classes) == 0 {
				continue
			}
			value = strings.Join(classes, " ")
		} else {
			v, ok := e.Attribute(name)
			if !ok {
				continue
			}
			value = v
		}

		s := " " + name
		if value != "" {
			s += `="` + escapeAttr(value) + `"`
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	if r.config.Pretty && depth > 0 {
		io.WriteString(w, strings.Repeat(r.config.Indent, depth))
	}
}

func (r *Renderer) writeNewline(w io.Writer) {
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
}
