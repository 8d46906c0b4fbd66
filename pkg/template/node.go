package template

import (
	"slices"
	"sort"
)

// Kind discriminates definition nodes.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <span>, etc.
	KindText                // Text content
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a template definition node. ElementNode and TextNode are the only
// implementations.
type Node interface {
	Kind() Kind

	// Parent returns the enclosing element definition, or nil at the root.
	Parent() *ElementNode

	definition()
}

// ElementNode defines an element.
type ElementNode struct {
	tag        string
	attributes map[string]Binding
	properties map[string]Binding
	classes    map[string]Binding
	events     map[string]string
	children   []Node
	slot       int // index among children where the slot sits, -1 if none
	parent     *ElementNode
}

// TextNode defines a text node.
type TextNode struct {
	binding Binding
	parent  *ElementNode
}

func (*ElementNode) definition() {}
func (*TextNode) definition()    {}

// Kind implements Node.
func (*ElementNode) Kind() Kind { return KindElement }

// Kind implements Node.
func (*TextNode) Kind() Kind { return KindText }

// Parent implements Node.
func (n *ElementNode) Parent() *ElementNode { return n.parent }

// Parent implements Node.
func (n *TextNode) Parent() *ElementNode { return n.parent }

// Binding returns the text content binding.
func (n *TextNode) Binding() Binding { return n.binding }

// Tag returns the element tag name.
func (n *ElementNode) Tag() string { return n.tag }

// Attribute returns the binding declared for an attribute.
func (n *ElementNode) Attribute(name string) (Binding, bool) {
	b, ok := n.attributes[name]
	return b, ok
}

// AttributeNames returns the declared attribute names, sorted.
func (n *ElementNode) AttributeNames() []string { return sortedKeys(n.attributes) }

// Property returns the binding declared for a property.
func (n *ElementNode) Property(name string) (Binding, bool) {
	b, ok := n.properties[name]
	return b, ok
}

// PropertyNames returns the declared property names, sorted.
func (n *ElementNode) PropertyNames() []string { return sortedKeys(n.properties) }

// ClassBinding returns the condition declared for a class name.
func (n *ElementNode) ClassBinding(name string) (Binding, bool) {
	b, ok := n.classes[name]
	return b, ok
}

// ClassNames returns the class names with a declared condition, sorted.
func (n *ElementNode) ClassNames() []string { return sortedKeys(n.classes) }

// EventHandler returns the handler name declared for an event.
func (n *ElementNode) EventHandler(event string) (string, bool) {
	h, ok := n.events[event]
	return h, ok
}

// Events returns the events with a declared handler, sorted.
func (n *ElementNode) Events() []string { return sortedKeys(n.events) }

// ChildCount returns the number of static children.
func (n *ElementNode) ChildCount() int { return len(n.children) }

// Child returns the static child at index.
func (n *ElementNode) Child(index int) Node { return n.children[index] }

// Children returns a copy of the static children.
func (n *ElementNode) Children() []Node { return slices.Clone(n.children) }

// HasSlot reports whether this element declares the child slot.
func (n *ElementNode) HasSlot() bool { return n.slot >= 0 }

// SlotIndex returns the position of the slot among the static children, or
// -1 if the element has no slot.
func (n *ElementNode) SlotIndex() int { return n.slot }

// FindSlot returns the element in the subtree rooted at n that declares the
// child slot, or nil.
func (n *ElementNode) FindSlot() *ElementNode {
	var found *ElementNode
	Walk(n, func(d Node) bool {
		if e, ok := d.(*ElementNode); ok && e.HasSlot() {
			found = e
			return false
		}
		return found == nil
	})
	return found
}

// Root returns the topmost definition above n.
func Root(n Node) Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		n = p
	}
	return n
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	if e, ok := n.(*ElementNode); ok {
		for _, c := range e.children {
			Walk(c, fn)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
