package dom

import (
	"slices"
	"strings"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/pkg/state"
	"github.com/vango-dev/statetree/pkg/template"
)

// templateProvider serves one definition of a template instance. The node
// it is paired with is always the instance's root node.
type templateProvider struct {
	def template.Node
}

func (templateProvider) supports(n *state.Node) bool {
	return state.Has[*state.ModelMap](n) && state.Has[*state.TemplateOverrides](n)
}

func (p templateProvider) element() (*template.ElementNode, bool) {
	el, ok := p.def.(*template.ElementNode)
	return el, ok
}

func (templateProvider) model(root *state.Node) template.ModelReader {
	m, err := state.Get[*state.ModelMap](root)
	if err != nil {
		return nil
	}
	return m
}

// override returns the override node holding per-instance data for the
// definition, creating it when create is true.
func (p templateProvider) override(root *state.Node, create bool) (*state.Node, error) {
	el, ok := p.element()
	if !ok {
		return nil, unsupported(root, "overrides for text definitions")
	}
	overrides, err := state.Get[*state.TemplateOverrides](root)
	if err != nil {
		return nil, err
	}
	return overrides.Get(el, create)
}

func (p templateProvider) isText(*state.Node) bool {
	return p.def.Kind() == template.KindText
}

func (p templateProvider) tag(*state.Node) string {
	if el, ok := p.element(); ok {
		return el.Tag()
	}
	return ""
}

func (p templateProvider) text(root *state.Node) string {
	t, ok := p.def.(*template.TextNode)
	if !ok {
		return ""
	}
	v, _ := t.Binding().Value(p.model(root))
	return template.Stringify(v)
}

func (p templateProvider) setText(root *state.Node, _ string) error {
	return unsupported(root, "writable text; template text follows its binding")
}

func (p templateProvider) property(root *state.Node, name string) (any, bool) {
	if ov, _ := p.override(root, false); ov != nil {
		if v, ok := state.Must[*state.ElementProperties](ov).Get(name); ok {
			return v, true
		}
	}
	el, ok := p.element()
	if !ok {
		return nil, false
	}
	b, ok := el.Property(name)
	if !ok {
		return nil, false
	}
	return b.Value(p.model(root))
}

func (p templateProvider) hasProperty(root *state.Node, name string) bool {
	if el, ok := p.element(); ok {
		if _, bound := el.Property(name); bound {
			return true
		}
	}
	if ov, _ := p.override(root, false); ov != nil {
		return state.Must[*state.ElementProperties](ov).Has(name)
	}
	return false
}

func (p templateProvider) setProperty(root *state.Node, name string, value any) error {
	if err := p.checkUnbound(name, "property"); err != nil {
		return err
	}
	ov, err := p.override(root, true)
	if err != nil {
		return err
	}
	state.Must[*state.ElementProperties](ov).Set(name, value)
	return nil
}

func (p templateProvider) removeProperty(root *state.Node, name string) error {
	if err := p.checkUnbound(name, "property"); err != nil {
		return err
	}
	ov, err := p.override(root, false)
	if err != nil || ov == nil {
		return err
	}
	state.Must[*state.ElementProperties](ov).Remove(name)
	return nil
}

func (p templateProvider) propertyNames(root *state.Node) []string {
	var names []string
	if el, ok := p.element(); ok {
		names = el.PropertyNames()
	}
	if ov, _ := p.override(root, false); ov != nil {
		names = append(names, state.Must[*state.ElementProperties](ov).Keys()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (p templateProvider) attribute(root *state.Node, name string) (string, bool) {
	if ov, _ := p.override(root, false); ov != nil {
		if v, ok := state.Must[*state.ElementAttributes](ov).Get(name); ok {
			s, _ := v.(string)
			return s, true
		}
	}
	el, ok := p.element()
	if !ok {
		return "", false
	}
	b, ok := el.Attribute(name)
	if !ok {
		return "", false
	}
	v, ok := b.Value(p.model(root))
	if !ok {
		return "", false
	}
	return template.Stringify(v), true
}

func (p templateProvider) hasAttribute(root *state.Node, name string) bool {
	if el, ok := p.element(); ok {
		if _, bound := el.Attribute(name); bound {
			return true
		}
	}
	if ov, _ := p.override(root, false); ov != nil {
		return state.Must[*state.ElementAttributes](ov).Has(name)
	}
	return false
}

func (p templateProvider) setAttribute(root *state.Node, name, value string) error {
	if err := p.checkUnbound(name, "attribute"); err != nil {
		return err
	}
	ov, err := p.override(root, true)
	if err != nil {
		return err
	}
	state.Must[*state.ElementAttributes](ov).Set(name, value)
	return nil
}

func (p templateProvider) removeAttribute(root *state.Node, name string) error {
	if err := p.checkUnbound(name, "attribute"); err != nil {
		return err
	}
	ov, err := p.override(root, false)
	if err != nil || ov == nil {
		return err
	}
	state.Must[*state.ElementAttributes](ov).Remove(name)
	return nil
}

func (p templateProvider) attributeNames(root *state.Node) []string {
	var names []string
	if el, ok := p.element(); ok {
		names = el.AttributeNames()
	}
	if ov, _ := p.override(root, false); ov != nil {
		names = append(names, state.Must[*state.ElementAttributes](ov).Keys()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (p templateProvider) checkUnbound(name, what string) error {
	el, ok := p.element()
	if !ok {
		return treeerrors.New(treeerrors.CodeUnsupported).
			WithDetailf("text definitions have no %s %q", what, name)
	}
	var bound bool
	if what == "property" {
		_, bound = el.Property(name)
	} else {
		_, bound = el.Attribute(name)
	}
	if bound {
		return treeerrors.New(treeerrors.CodeBoundProperty).
			WithDetailf("%s %q of <%s> is defined by the template", what, name, el.Tag())
	}
	return nil
}

// hasStaticChildren reports whether the definition's children come from
// the template.
func hasStaticChildren(el *template.ElementNode) bool {
	return el.ChildCount() > 0 || el.HasSlot()
}

// slotOccupant returns the node filling the slot declared by el, or nil.
func (templateProvider) slotOccupant(root *state.Node, el *template.ElementNode) *state.Node {
	if !el.HasSlot() {
		return nil
	}
	tm, err := state.Get[*state.TemplateMap](root)
	if err != nil || tm.SlotHolder() != el {
		return nil
	}
	return tm.Child()
}

func (p templateProvider) childCount(root *state.Node) int {
	el, ok := p.element()
	if !ok {
		return 0
	}
	if hasStaticChildren(el) {
		count := el.ChildCount()
		if p.slotOccupant(root, el) != nil {
			count++
		}
		return count
	}
	ov, _ := p.override(root, false)
	if ov == nil {
		return 0
	}
	return state.Must[*state.ElementChildren](ov).Len()
}

func (p templateProvider) children(root *state.Node) ([]*Element, error) {
	el, ok := p.element()
	if !ok {
		return nil, nil
	}
	if !hasStaticChildren(el) {
		ov, _ := p.override(root, false)
		if ov == nil {
			return nil, nil
		}
		return wrapAll(state.Must[*state.ElementChildren](ov).Nodes())
	}

	occupant := p.slotOccupant(root, el)
	out := make([]*Element, 0, el.ChildCount()+1)
	for i := 0; i <= el.ChildCount(); i++ {
		if occupant != nil && i == el.SlotIndex() {
			e, err := Get(occupant)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		if i < el.ChildCount() {
			out = append(out, &Element{node: root, p: templateProvider{def: el.Child(i)}})
		}
	}
	return out, nil
}

func (p templateProvider) childList(root *state.Node, create bool) (*state.NodeList, error) {
	el, ok := p.element()
	if !ok {
		return nil, unsupported(root, "children on a text definition")
	}
	if hasStaticChildren(el) {
		return nil, treeerrors.New(treeerrors.CodeTemplateChildrenMutation).
			WithDetailf("<%s> has template-defined children", el.Tag())
	}
	ov, err := p.override(root, create)
	if err != nil || ov == nil {
		return nil, err
	}
	return &state.Must[*state.ElementChildren](ov).NodeList, nil
}

func (p templateProvider) parent(root *state.Node) *Element {
	if parent := p.def.Parent(); parent != nil {
		return &Element{node: root, p: templateProvider{def: parent}}
	}
	return parentOf(root)
}

func (p templateProvider) classList(root *state.Node) ClassList {
	return computedClassList{names: func() []string { return p.classNames(root) }}
}

// classNames returns the tokens of the class attribute followed by the
// names of class bindings whose value is truthy.
func (p templateProvider) classNames(root *state.Node) []string {
	el, ok := p.element()
	if !ok {
		return nil
	}
	var names []string
	if v, ok := p.attribute(root, classAttribute); ok {
		for _, name := range strings.Fields(v) {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	model := p.model(root)
	for _, name := range el.ClassNames() {
		b, _ := el.ClassBinding(name)
		if v, ok := b.Value(model); ok && template.Truthy(v) && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func (p templateProvider) eventHandler(_ *state.Node, event string) (string, bool) {
	el, ok := p.element()
	if !ok {
		return "", false
	}
	return el.EventHandler(event)
}
