package template

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented, human-readable outline of a definition tree.
func Fprint(w io.Writer, n Node) error {
	return fprint(w, n, 0)
}

func fprint(w io.Writer, n Node, depth int) error {
	indent := strings.Repeat("  ", depth)

	switch d := n.(type) {
	case *TextNode:
		_, err := fmt.Fprintf(w, "%stext %s\n", indent, d.binding)
		return err

	case *ElementNode:
		var b strings.Builder
		b.WriteString(indent)
		b.WriteString("<")
		b.WriteString(d.tag)
		for _, name := range d.AttributeNames() {
			fmt.Fprintf(&b, " %s=%s", name, d.attributes[name])
		}
		for _, name := range d.PropertyNames() {
			fmt.Fprintf(&b, " [%s]=%s", name, d.properties[name])
		}
		for _, name := range d.ClassNames() {
			fmt.Fprintf(&b, " [class.%s]=%s", name, d.classes[name])
		}
		for _, event := range d.Events() {
			fmt.Fprintf(&b, " (%s)=%s", event, d.events[event])
		}
		b.WriteString(">\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		for i, c := range d.children {
			if i == d.slot {
				if _, err := fmt.Fprintf(w, "%s  @child@\n", indent); err != nil {
					return err
				}
			}
			if err := fprint(w, c, depth+1); err != nil {
				return err
			}
		}
		if d.slot == len(d.children) {
			if _, err := fmt.Fprintf(w, "%s  @child@\n", indent); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("template: unknown definition %T", n)
	}
}
