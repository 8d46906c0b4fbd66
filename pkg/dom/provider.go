package dom

import (
	"github.com/vango-dev/statetree/pkg/state"
)

// provider knows how a family of nodes stores element data. Providers are
// comparable values so that Element equality can include them.
type provider interface {
	supports(n *state.Node) bool

	tag(n *state.Node) string
	isText(n *state.Node) bool
	text(n *state.Node) string
	setText(n *state.Node, text string) error

	property(n *state.Node, name string) (any, bool)
	hasProperty(n *state.Node, name string) bool
	setProperty(n *state.Node, name string, value any) error
	removeProperty(n *state.Node, name string) error
	propertyNames(n *state.Node) []string

	attribute(n *state.Node, name string) (string, bool)
	hasAttribute(n *state.Node, name string) bool
	setAttribute(n *state.Node, name, value string) error
	removeAttribute(n *state.Node, name string) error
	attributeNames(n *state.Node) []string

	childCount(n *state.Node) int
	children(n *state.Node) ([]*Element, error)

	// childList returns the list holding directly editable children. It
	// returns a nil list without error when create is false and the list
	// does not exist yet.
	childList(n *state.Node, create bool) (*state.NodeList, error)

	parent(n *state.Node) *Element
	classList(n *state.Node) ClassList
	eventHandler(n *state.Node, event string) (string, bool)
}

// parentOf resolves the façade parent of a node that is held in a list.
func parentOf(n *state.Node) *Element {
	p := n.Parent()
	if p == nil {
		return nil
	}
	if target, err := state.Get[*state.OverrideTarget](p); err == nil {
		root := target.Root()
		if root == nil {
			return nil
		}
		return &Element{node: root, p: templateProvider{def: target.Definition()}}
	}
	if tm, err := state.Get[*state.TemplateMap](p); err == nil && tm.Child() == n {
		return &Element{node: p, p: templateProvider{def: tm.SlotHolder()}}
	}
	e, err := Get(p)
	if err != nil {
		return nil
	}
	return e
}

func wrapAll(nodes []*state.Node) ([]*Element, error) {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		e, err := Get(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
