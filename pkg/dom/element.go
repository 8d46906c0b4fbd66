package dom

import (
	"strings"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/pkg/state"
	"github.com/vango-dev/statetree/pkg/template"
)

// ErrBoundProperty matches errors raised when writing a property or
// attribute that a template binds.
var ErrBoundProperty = treeerrors.New(treeerrors.CodeBoundProperty)

// ErrTemplateChildrenMutation matches errors raised when editing the
// children of a template definition that declares its own children.
var ErrTemplateChildrenMutation = treeerrors.New(treeerrors.CodeTemplateChildrenMutation)

// ErrUnsupported matches errors raised by operations the element's kind
// cannot perform, such as adding to a computed class list.
var ErrUnsupported = treeerrors.New(treeerrors.CodeUnsupported)

// Element is a DOM-like view of a state node.
type Element struct {
	node *state.Node
	p    provider
}

// New creates a plain element with the given tag.
func New(tag string) *Element {
	n := state.NewNode(state.KindElement)
	state.Must[*state.ElementData](n).SetTag(tag)
	return &Element{node: n, p: basicProvider{}}
}

// NewText creates a plain text node.
func NewText(text string) *Element {
	n := state.NewNode(state.KindText)
	state.Must[*state.TextNodeMap](n).SetText(text)
	return &Element{node: n, p: basicProvider{}}
}

// NewTemplate instantiates def. The returned element wraps a new template
// root node whose model starts empty. Event handler names used anywhere in
// def are recorded on the root.
func NewTemplate(def template.Node) (*Element, error) {
	n, err := state.DefaultRegistry().NewNode(state.KindTemplateRoot)
	if err != nil {
		return nil, err
	}
	if err := state.Must[*state.TemplateMap](n).SetRootTemplate(def); err != nil {
		return nil, err
	}
	handlers := state.Must[*state.TemplateEventHandlerNames](n)
	template.Walk(def, func(d template.Node) bool {
		if el, ok := d.(*template.ElementNode); ok {
			for _, event := range el.Events() {
				name, _ := el.EventHandler(event)
				handlers.Add(name)
			}
		}
		return true
	})
	return &Element{node: n, p: templateProvider{def: def}}, nil
}

// Get returns the element view of n. Template roots are viewed through
// their root template and override nodes through the definition they
// belong to.
func Get(n *state.Node) (*Element, error) {
	if n == nil {
		return nil, treeerrors.New(treeerrors.CodeIllegalState).WithDetail("nil node")
	}
	if tm, err := state.Get[*state.TemplateMap](n); err == nil {
		if def := tm.RootTemplate(); def != nil {
			return &Element{node: n, p: templateProvider{def: def}}, nil
		}
	}
	if target, err := state.Get[*state.OverrideTarget](n); err == nil {
		if root := target.Root(); root != nil {
			return &Element{node: root, p: templateProvider{def: target.Definition()}}, nil
		}
	}
	if (basicProvider{}).supports(n) {
		return &Element{node: n, p: basicProvider{}}, nil
	}
	return nil, treeerrors.New(treeerrors.CodeMissingFeature).
		WithDetailf("%s cannot be viewed as an element", n)
}

// Node returns the wrapped state node. For template elements this is the
// template instance's root node.
func (e *Element) Node() *state.Node { return e.node }

// Definition returns the template definition viewed by e, or nil for plain
// elements.
func (e *Element) Definition() template.Node {
	if tp, ok := e.p.(templateProvider); ok {
		return tp.def
	}
	return nil
}

// Equal reports whether e and other view the same node through the same
// definition.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.node == other.node && e.p == other.p
}

func (e *Element) String() string {
	if e.IsTextNode() {
		return "#text(" + e.node.String() + ")"
	}
	return "<" + e.Tag() + "> " + e.node.String()
}

// Tag returns the element tag, or "" for text nodes.
func (e *Element) Tag() string { return e.p.tag(e.node) }

// IsTextNode reports whether e is a text node.
func (e *Element) IsTextNode() bool { return e.p.isText(e.node) }

// Property returns the value of a property. Template elements resolve
// per-instance values before template bindings.
func (e *Element) Property(name string) (any, bool) { return e.p.property(e.node, name) }

// HasProperty reports whether the property is set or bound.
func (e *Element) HasProperty(name string) bool { return e.p.hasProperty(e.node, name) }

// SetProperty sets a property. Properties bound by a template cannot be
// set and fail with ErrBoundProperty.
func (e *Element) SetProperty(name string, value any) error {
	return e.p.setProperty(e.node, name, value)
}

// RemoveProperty removes a property. Removing an absent property is a
// no-op.
func (e *Element) RemoveProperty(name string) error { return e.p.removeProperty(e.node, name) }

// PropertyNames returns the property names in sorted order.
func (e *Element) PropertyNames() []string { return e.p.propertyNames(e.node) }

// Attribute returns the value of an attribute.
func (e *Element) Attribute(name string) (string, bool) { return e.p.attribute(e.node, name) }

// HasAttribute reports whether the attribute is set or bound.
func (e *Element) HasAttribute(name string) bool { return e.p.hasAttribute(e.node, name) }

// SetAttribute sets an attribute. The class attribute of a plain element
// replaces its class list.
func (e *Element) SetAttribute(name, value string) error {
	return e.p.setAttribute(e.node, name, value)
}

// RemoveAttribute removes an attribute.
func (e *Element) RemoveAttribute(name string) error { return e.p.removeAttribute(e.node, name) }

// AttributeNames returns the attribute names in sorted order.
func (e *Element) AttributeNames() []string { return e.p.attributeNames(e.node) }

// ClassList returns the element's class names. Template elements return a
// read-only view computed on every call.
func (e *Element) ClassList() ClassList { return e.p.classList(e.node) }

// EventHandler returns the handler name a template binds to event.
func (e *Element) EventHandler(event string) (string, bool) {
	return e.p.eventHandler(e.node, event)
}

// Model returns the model of a template element.
func (e *Element) Model() (*state.ModelMap, error) {
	if _, ok := e.p.(templateProvider); !ok {
		return nil, treeerrors.New(treeerrors.CodeUnsupported).
			WithDetailf("%s is not a template element", e)
	}
	return state.Get[*state.ModelMap](e.node)
}

// TextContent returns the text of a text node, or the concatenated text of
// every descendant text node.
func (e *Element) TextContent() string {
	var b strings.Builder
	e.appendText(&b)
	return b.String()
}

func (e *Element) appendText(b *strings.Builder) {
	if e.IsTextNode() {
		b.WriteString(e.p.text(e.node))
		return
	}
	children, _ := e.p.children(e.node)
	for _, c := range children {
		c.appendText(b)
	}
}

// SetText sets the text of a text node. On an element it replaces every
// child with a single text node, or with nothing when text is empty.
func (e *Element) SetText(text string) error {
	if e.IsTextNode() {
		return e.p.setText(e.node, text)
	}
	if err := e.RemoveAllChildren(); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return e.AppendChild(NewText(text))
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return e.p.childCount(e.node) }

// Children returns the children in order. Template elements interleave
// their static children with the slot occupant.
func (e *Element) Children() ([]*Element, error) { return e.p.children(e.node) }

// Child returns the child at index.
func (e *Element) Child(index int) (*Element, error) {
	children, err := e.Children()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(children) {
		return nil, treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("child index %d out of range for %d children", index, len(children))
	}
	return children[index], nil
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element { return e.p.parent(e.node) }

// AppendChild adds child as the last child, first removing it from its
// current parent.
func (e *Element) AppendChild(child *Element) error {
	return e.InsertChild(e.ChildCount(), child)
}

// InsertChild inserts child at index, first removing it from its current
// parent.
func (e *Element) InsertChild(index int, child *Element) error {
	if child == nil {
		return treeerrors.New(treeerrors.CodeIllegalState).WithDetail("cannot insert a nil element")
	}
	list, err := e.p.childList(e.node, true)
	if err != nil {
		return err
	}
	owner := list.Node()
	if child.node == owner || owner.IsDescendantOf(child.node) {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("inserting %s into %s would create a cycle", child, e)
	}
	if index < 0 || index > list.Len() {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("child index %d out of range for %d children", index, list.Len())
	}

	if err := list.CheckWritable(); err != nil {
		return err
	}
	if parent := child.Parent(); parent != nil {
		if cur := list.IndexOf(child.node); cur >= 0 && cur < index {
			index--
		}
		if err := parent.RemoveChild(child); err != nil {
			return err
		}
	}
	return list.Insert(index, child.node)
}

// RemoveChild removes child, which must be a child of e.
func (e *Element) RemoveChild(child *Element) error {
	list, err := e.p.childList(e.node, false)
	if err != nil {
		return err
	}
	if child == nil || list == nil || list.IndexOf(child.node) < 0 {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("%s is not a child of %s", child, e)
	}
	return list.Remove(child.node)
}

// RemoveChildAt removes the child at index.
func (e *Element) RemoveChildAt(index int) error {
	list, err := e.p.childList(e.node, false)
	if err != nil {
		return err
	}
	if list == nil || index < 0 || index >= list.Len() {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("child index %d out of range for %d children", index, e.ChildCount())
	}
	return list.RemoveAt(index)
}

// RemoveAllChildren removes every child.
func (e *Element) RemoveAllChildren() error {
	list, err := e.p.childList(e.node, false)
	if err != nil || list == nil {
		return err
	}
	return list.Clear()
}

// RemoveFromParent detaches e from its parent. An element without a parent
// is left unchanged. Slot occupants cannot be removed this way; empty the
// slot with SetChildSlot(nil) instead.
func (e *Element) RemoveFromParent() error {
	parent := e.Parent()
	if parent == nil {
		return nil
	}
	return parent.RemoveChild(e)
}

// SetChildSlot places child in the slot of a template instance, replacing
// the current occupant. A nil child empties the slot. It is only available
// on the element viewing the root template.
func (e *Element) SetChildSlot(child *Element) error {
	tp, ok := e.p.(templateProvider)
	if !ok {
		return treeerrors.New(treeerrors.CodeUnsupported).
			WithDetailf("%s is not a template element", e)
	}
	tm, err := state.Get[*state.TemplateMap](e.node)
	if err != nil {
		return err
	}
	if tm.RootTemplate() != tp.def {
		return treeerrors.New(treeerrors.CodeUnsupported).
			WithDetailf("child slots are set on the template root, not on <%s>", e.Tag())
	}
	if child == nil {
		return tm.SetChild(nil)
	}
	if tm.Child() == child.node {
		return nil
	}
	if tm.SlotHolder() == nil {
		return tm.SetChild(child.node)
	}
	if child.node == e.node || e.node.IsDescendantOf(child.node) {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("placing %s in the slot of %s would create a cycle", child, e)
	}
	if err := tm.CheckWritable(); err != nil {
		return err
	}
	if err := child.RemoveFromParent(); err != nil {
		return err
	}
	return tm.SetChild(child.node)
}
