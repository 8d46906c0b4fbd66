package template

import (
	"slices"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
)

// Builder produces an immutable definition tree.
type Builder interface {
	// Build freezes the builder into a definition tree.
	Build() (Node, error)

	build(parent *ElementNode, st *buildState) (Node, error)
}

// buildState is shared by one Build call across the whole tree.
type buildState struct {
	slots int
	// open holds the element builders between the root and the current
	// one, so a builder nested inside itself is rejected.
	open []*ElementBuilder
}

// ElementBuilder builds an ElementNode.
type ElementBuilder struct {
	tag        string
	attributes map[string]Binding
	properties map[string]Binding
	classes    map[string]Binding
	events     map[string]string
	children   []Builder
	slot       int
	err        error
}

// NewElement starts an element definition with the given tag.
func NewElement(tag string) *ElementBuilder {
	return &ElementBuilder{
		tag:        tag,
		attributes: make(map[string]Binding),
		properties: make(map[string]Binding),
		classes:    make(map[string]Binding),
		events:     make(map[string]string),
		slot:       -1,
	}
}

// SetAttribute declares an attribute binding. A later call for the same
// name replaces the earlier one.
func (b *ElementBuilder) SetAttribute(name string, binding Binding) *ElementBuilder {
	b.attributes[name] = binding
	return b
}

// SetProperty declares a property binding.
func (b *ElementBuilder) SetProperty(name string, binding Binding) *ElementBuilder {
	b.properties[name] = binding
	return b
}

// SetClass declares a class condition.
func (b *ElementBuilder) SetClass(name string, binding Binding) *ElementBuilder {
	b.classes[name] = binding
	return b
}

// SetEventHandler declares the handler name invoked for event.
func (b *ElementBuilder) SetEventHandler(event, handler string) *ElementBuilder {
	b.events[event] = handler
	return b
}

// AddChild appends a static child definition.
func (b *ElementBuilder) AddChild(child Builder) *ElementBuilder {
	b.children = append(b.children, child)
	return b
}

// AddSlot places the child slot after the children added so far.
func (b *ElementBuilder) AddSlot() *ElementBuilder {
	if b.slot >= 0 {
		b.err = treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("<%s> declares more than one child slot", b.tag)
		return b
	}
	b.slot = len(b.children)
	return b
}

// Build implements Builder.
func (b *ElementBuilder) Build() (Node, error) {
	return b.build(nil, &buildState{})
}

func (b *ElementBuilder) build(parent *ElementNode, st *buildState) (Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if slices.Contains(st.open, b) {
		return nil, treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("<%s> is added as a child of itself", b.tag)
	}
	if b.tag == "" {
		return nil, treeerrors.New(treeerrors.CodeIllegalState).
			WithDetail("element definition without a tag")
	}

	n := &ElementNode{
		tag:        b.tag,
		attributes: copyMap(b.attributes),
		properties: copyMap(b.properties),
		classes:    copyMap(b.classes),
		events:     copyMap(b.events),
		children:   make([]Node, 0, len(b.children)),
		slot:       b.slot,
		parent:     parent,
	}

	if n.slot >= 0 {
		st.slots++
		if st.slots > 1 {
			return nil, treeerrors.New(treeerrors.CodeIllegalState).
				WithDetail("a template can declare only one child slot")
		}
	}

	st.open = append(st.open, b)
	for _, cb := range b.children {
		child, err := cb.build(n, st)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	st.open = st.open[:len(st.open)-1]

	return n, nil
}

// TextBuilder builds a TextNode.
type TextBuilder struct {
	binding Binding
}

// NewText starts a text definition.
func NewText(binding Binding) *TextBuilder {
	return &TextBuilder{binding: binding}
}

// Build implements Builder.
func (b *TextBuilder) Build() (Node, error) {
	return b.build(nil, nil)
}

func (b *TextBuilder) build(parent *ElementNode, _ *buildState) (Node, error) {
	if b.binding == nil {
		return nil, treeerrors.New(treeerrors.CodeIllegalState).
			WithDetail("text definition without a binding")
	}
	return &TextNode{binding: b.binding, parent: parent}, nil
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
