package dom

import (
	"slices"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/pkg/state"
)

// classAttribute is stored in ElementClassList rather than in
// ElementAttributes for plain elements.
const classAttribute = "class"

// basicProvider serves plain element and text nodes.
type basicProvider struct{}

func (basicProvider) supports(n *state.Node) bool {
	if state.Has[*state.TextNodeMap](n) {
		return true
	}
	return state.Has[*state.ElementData](n) &&
		state.Has[*state.ElementAttributes](n) &&
		state.Has[*state.ElementProperties](n) &&
		state.Has[*state.ElementChildren](n)
}

func (basicProvider) isText(n *state.Node) bool {
	return state.Has[*state.TextNodeMap](n)
}

func (basicProvider) tag(n *state.Node) string {
	data, err := state.Get[*state.ElementData](n)
	if err != nil {
		return ""
	}
	return data.Tag()
}

func (basicProvider) text(n *state.Node) string {
	t, err := state.Get[*state.TextNodeMap](n)
	if err != nil {
		return ""
	}
	return t.Text()
}

func (basicProvider) setText(n *state.Node, text string) error {
	t, err := state.Get[*state.TextNodeMap](n)
	if err != nil {
		return err
	}
	t.SetText(text)
	return nil
}

func (basicProvider) property(n *state.Node, name string) (any, bool) {
	props, err := state.Get[*state.ElementProperties](n)
	if err != nil {
		return nil, false
	}
	return props.Get(name)
}

func (p basicProvider) hasProperty(n *state.Node, name string) bool {
	_, ok := p.property(n, name)
	return ok
}

func (basicProvider) setProperty(n *state.Node, name string, value any) error {
	props, err := state.Get[*state.ElementProperties](n)
	if err != nil {
		return unsupported(n, "properties")
	}
	props.Set(name, value)
	return nil
}

func (basicProvider) removeProperty(n *state.Node, name string) error {
	props, err := state.Get[*state.ElementProperties](n)
	if err != nil {
		return unsupported(n, "properties")
	}
	props.Remove(name)
	return nil
}

func (basicProvider) propertyNames(n *state.Node) []string {
	props, err := state.Get[*state.ElementProperties](n)
	if err != nil {
		return nil
	}
	return props.Keys()
}

func (basicProvider) attribute(n *state.Node, name string) (string, bool) {
	if name == classAttribute {
		cl, err := state.Get[*state.ElementClassList](n)
		if err != nil || cl.Len() == 0 {
			return "", false
		}
		return cl.String(), true
	}
	attrs, err := state.Get[*state.ElementAttributes](n)
	if err != nil {
		return "", false
	}
	v, ok := attrs.Get(name)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

func (p basicProvider) hasAttribute(n *state.Node, name string) bool {
	_, ok := p.attribute(n, name)
	return ok
}

func (basicProvider) setAttribute(n *state.Node, name, value string) error {
	if name == classAttribute {
		cl, err := state.Get[*state.ElementClassList](n)
		if err != nil {
			return unsupported(n, "class names")
		}
		cl.SetString(value)
		return nil
	}
	attrs, err := state.Get[*state.ElementAttributes](n)
	if err != nil {
		return unsupported(n, "attributes")
	}
	attrs.Set(name, value)
	return nil
}

func (basicProvider) removeAttribute(n *state.Node, name string) error {
	if name == classAttribute {
		cl, err := state.Get[*state.ElementClassList](n)
		if err != nil {
			return unsupported(n, "class names")
		}
		cl.Clear()
		return nil
	}
	attrs, err := state.Get[*state.ElementAttributes](n)
	if err != nil {
		return unsupported(n, "attributes")
	}
	attrs.Remove(name)
	return nil
}

func (basicProvider) attributeNames(n *state.Node) []string {
	var names []string
	if attrs, err := state.Get[*state.ElementAttributes](n); err == nil {
		names = attrs.Keys()
	}
	if cl, err := state.Get[*state.ElementClassList](n); err == nil && cl.Len() > 0 {
		names = append(names, classAttribute)
		slices.Sort(names)
	}
	return names
}

func (basicProvider) childCount(n *state.Node) int {
	children, err := state.Get[*state.ElementChildren](n)
	if err != nil {
		return 0
	}
	return children.Len()
}

func (basicProvider) children(n *state.Node) ([]*Element, error) {
	children, err := state.Get[*state.ElementChildren](n)
	if err != nil {
		return nil, nil
	}
	return wrapAll(children.Nodes())
}

func (basicProvider) childList(n *state.Node, _ bool) (*state.NodeList, error) {
	children, err := state.Get[*state.ElementChildren](n)
	if err != nil {
		return nil, unsupported(n, "children")
	}
	return &children.NodeList, nil
}

func (basicProvider) parent(n *state.Node) *Element {
	return parentOf(n)
}

func (basicProvider) classList(n *state.Node) ClassList {
	cl, err := state.Get[*state.ElementClassList](n)
	if err != nil {
		return computedClassList{}
	}
	return plainClassList{list: cl}
}

func (basicProvider) eventHandler(*state.Node, string) (string, bool) {
	return "", false
}

func unsupported(n *state.Node, what string) error {
	return treeerrors.New(treeerrors.CodeUnsupported).
		WithDetailf("%s has no %s", n, what)
}
