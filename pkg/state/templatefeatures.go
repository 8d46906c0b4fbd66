package state

import (
	"cmp"
	"slices"
	"weak"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/pkg/template"
)

// TemplateMap holds the root template of a template instance and the
// occupant of its child slot.
type TemplateMap struct {
	NodeMap
	slot       NodeList
	slotHolder *template.ElementNode
}

// Type implements Feature.
func (*TemplateMap) Type() FeatureType { return FeatureTemplateMap }

// RootTemplate returns the root definition, or nil if none is set.
func (m *TemplateMap) RootTemplate() template.Node {
	v, _ := m.Get("root")
	def, _ := v.(template.Node)
	return def
}

// SetRootTemplate sets the root definition. A root template cannot be
// replaced by a different one once set, since override nodes are keyed by
// its definitions.
func (m *TemplateMap) SetRootTemplate(def template.Node) error {
	if def == nil {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetail("root template cannot be nil")
	}
	if current := m.RootTemplate(); current != nil && current != def {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("%s already has a root template", m.node)
	}
	m.Set("root", def)
	if e, ok := def.(*template.ElementNode); ok {
		m.slotHolder = e.FindSlot()
	}
	return nil
}

// SlotHolder returns the definition declaring the child slot, or nil.
func (m *TemplateMap) SlotHolder() *template.ElementNode { return m.slotHolder }

// Child returns the slot occupant, or nil.
func (m *TemplateMap) Child() *Node {
	if m.slot.Len() == 0 {
		return nil
	}
	return m.slot.Get(0)
}

// SetChild places child in the slot, detaching any previous occupant.
// A nil child empties the slot. Placing the current occupant again is a
// no-op.
func (m *TemplateMap) SetChild(child *Node) error {
	if m.slotHolder == nil {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("the root template of %s has no child slot", m.node)
	}

	current := m.Child()
	switch {
	case current == child:
		return nil
	case current == nil:
		return m.slot.Splice(0, 0, child)
	case child == nil:
		return m.slot.Splice(0, 1)
	default:
		return m.slot.Splice(0, 1, child)
	}
}

// CheckWritable returns ErrReentrantSplice while slot listeners are being
// notified.
func (m *TemplateMap) CheckWritable() error { return m.slot.CheckWritable() }

// AddSpliceListener registers fn for slot fills and clears.
func (m *TemplateMap) AddSpliceListener(fn SpliceListener) Registration {
	return m.slot.AddSpliceListener(fn)
}

// TemplateOverrides owns the override nodes of a template instance, one per
// definition node, created on first use.
type TemplateOverrides struct {
	node      *Node
	overrides map[*template.ElementNode]*Node
}

// Type implements Feature.
func (*TemplateOverrides) Type() FeatureType { return FeatureTemplateOverrides }

// Node implements Feature.
func (o *TemplateOverrides) Node() *Node { return o.node }

// Get returns the override node for def. When none exists and create is
// true, a KindOverride node is created from the owner's registry and
// memoized; otherwise Get returns nil.
func (o *TemplateOverrides) Get(def *template.ElementNode, create bool) (*Node, error) {
	if n, ok := o.overrides[def]; ok {
		return n, nil
	}
	if !create {
		return nil, nil
	}

	n, err := o.node.registry.NewNode(KindOverride)
	if err != nil {
		return nil, err
	}
	target, err := Get[*OverrideTarget](n)
	if err != nil {
		return nil, err
	}
	target.root = weak.Make(o.node)
	target.definition = def
	if data, err := Get[*ElementData](n); err == nil {
		data.SetTag(def.Tag())
	}

	o.overrides[def] = n
	return n, nil
}

// Len returns the number of override nodes.
func (o *TemplateOverrides) Len() int { return len(o.overrides) }

// Nodes returns the override nodes ordered by node ID.
func (o *TemplateOverrides) Nodes() []*Node {
	nodes := make([]*Node, 0, len(o.overrides))
	for _, n := range o.overrides {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		return cmp.Compare(a.id, b.id)
	})
	return nodes
}

// OverrideTarget records which template instance and definition an override
// node belongs to.
type OverrideTarget struct {
	node       *Node
	root       weak.Pointer[Node]
	definition *template.ElementNode
}

// Type implements Feature.
func (*OverrideTarget) Type() FeatureType { return FeatureOverrideTarget }

// Node implements Feature.
func (t *OverrideTarget) Node() *Node { return t.node }

// Root returns the template root owning the override node.
func (t *OverrideTarget) Root() *Node { return t.root.Value() }

// Definition returns the definition the override node stores data for.
func (t *OverrideTarget) Definition() *template.ElementNode { return t.definition }
