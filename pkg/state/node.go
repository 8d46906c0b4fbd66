package state

import (
	"fmt"
	"slices"
	"sync/atomic"
	"weak"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
)

// ErrMissingFeature matches errors raised when a node lacks a feature.
var ErrMissingFeature = treeerrors.New(treeerrors.CodeMissingFeature)

// ErrIllegalState matches errors raised for violated structural
// preconditions.
var ErrIllegalState = treeerrors.New(treeerrors.CodeIllegalState)

// ErrReentrantSplice matches errors raised when a splice listener edits the
// list that is notifying it.
var ErrReentrantSplice = treeerrors.New(treeerrors.CodeReentrantSplice)

var nextID atomic.Uint64

// Node is a state tree node.
type Node struct {
	id       uint64
	kind     Kind
	registry *Registry
	features []Feature // sorted by FeatureType
	parent   weak.Pointer[Node]
}

func newNode(r *Registry, kind Kind, types []FeatureType) *Node {
	n := &Node{
		id:       nextID.Add(1),
		kind:     kind,
		registry: r,
		features: make([]Feature, 0, len(types)),
	}
	for _, t := range types {
		n.features = append(n.features, newFeature(t, n))
	}
	return n
}

// NewNode creates a node of kind using the default registry. It panics if
// kind is not registered; every Kind constant except KindCustom is.
func NewNode(kind Kind) *Node {
	n, err := defaultRegistry.NewNode(kind)
	if err != nil {
		panic(err)
	}
	return n
}

// NewNodeWithFeatures creates a KindCustom node carrying exactly the given
// features. Unknown and duplicate types are ignored.
func NewNodeWithFeatures(types ...FeatureType) *Node {
	var valid []FeatureType
	for _, t := range types {
		if t.Valid() {
			valid = append(valid, t)
		}
	}
	slices.Sort(valid)
	return newNode(defaultRegistry, KindCustom, slices.Compact(valid))
}

// ID returns the node's process-unique identity.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the kind the node was created for.
func (n *Node) Kind() Kind { return n.kind }

// Registry returns the registry the node was created from.
func (n *Node) Registry() *Registry { return n.registry }

// String returns a short description such as "node#3(Element)".
func (n *Node) String() string {
	if n == nil {
		return "node(nil)"
	}
	return fmt.Sprintf("node#%d(%s)", n.id, n.kind)
}

// HasFeature reports whether the node carries feature t.
func (n *Node) HasFeature(t FeatureType) bool {
	_, ok := n.lookup(t)
	return ok
}

// Feature returns the feature of type t.
func (n *Node) Feature(t FeatureType) (Feature, error) {
	if f, ok := n.lookup(t); ok {
		return f, nil
	}
	return nil, treeerrors.New(treeerrors.CodeMissingFeature).
		WithDetailf("%s has no %s", n, t)
}

func (n *Node) lookup(t FeatureType) (Feature, bool) {
	for _, f := range n.features {
		if f.Type() == t {
			return f, true
		}
	}
	return nil, false
}

// FeatureTypes returns the node's feature types in order.
func (n *Node) FeatureTypes() []FeatureType {
	types := make([]FeatureType, len(n.features))
	for i, f := range n.features {
		types[i] = f.Type()
	}
	return types
}

// Get returns the feature of concrete type F attached to n.
//
//	model, err := state.Get[*state.ModelMap](node)
func Get[F Feature](n *Node) (F, error) {
	for _, f := range n.features {
		if ff, ok := f.(F); ok {
			return ff, nil
		}
	}
	var zero F
	return zero, treeerrors.New(treeerrors.CodeMissingFeature).
		WithDetailf("%s has no %T", n, zero)
}

// Has reports whether n carries a feature of concrete type F.
func Has[F Feature](n *Node) bool {
	_, err := Get[F](n)
	return err == nil
}

// Must is Get for callers that already checked the node's features. It
// panics if the feature is missing.
func Must[F Feature](n *Node) F {
	f, err := Get[F](n)
	if err != nil {
		panic(err)
	}
	return f
}

// Parent returns the node whose list holds n, or nil when n is detached or
// the parent has been reclaimed.
func (n *Node) Parent() *Node {
	return n.parent.Value()
}

func (n *Node) setParent(p *Node) {
	if p == nil {
		n.parent = weak.Pointer[Node]{}
		return
	}
	n.parent = weak.Make(p)
}

// logicalParent is Parent, except that override nodes report the template
// root owning them.
func (n *Node) logicalParent() *Node {
	if p := n.Parent(); p != nil {
		return p
	}
	if t, ok := n.lookup(FeatureOverrideTarget); ok {
		return t.(*OverrideTarget).Root()
	}
	return nil
}

// IsDescendantOf reports whether ancestor is above n in the tree. Override
// nodes count as descendants of the template root that owns them.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for p := n.logicalParent(); p != nil; p = p.logicalParent() {
		if p == ancestor {
			return true
		}
	}
	return false
}
