package state

import (
	"slices"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
)

// SpliceEvent describes one list edit: Removed were taken out at Index and
// Added were inserted at the same position.
type SpliceEvent struct {
	List    *NodeList
	Index   int
	Removed []*Node
	Added   []*Node
}

// RemovedCount returns the number of removed nodes.
func (e SpliceEvent) RemovedCount() int { return len(e.Removed) }

// Apply replays the edit on a copy of seq.
func (e SpliceEvent) Apply(seq []*Node) []*Node {
	return slices.Replace(slices.Clone(seq), e.Index, e.Index+len(e.Removed), e.Added...)
}

// SpliceListener receives splice events.
type SpliceListener func(SpliceEvent)

// Registration is returned by listener registration.
type Registration interface {
	// Remove deregisters the listener. Calling it twice is harmless.
	Remove()
}

type listenerEntry struct {
	fn SpliceListener
}

type listRegistration struct {
	list  *NodeList
	entry *listenerEntry
}

func (r *listRegistration) Remove() {
	if r.list == nil {
		return
	}
	r.list.listeners = slices.DeleteFunc(r.list.listeners, func(e *listenerEntry) bool {
		return e == r.entry
	})
	r.list = nil
}

// NodeList is the ordered list feature shape.
type NodeList struct {
	node      *Node
	ftype     FeatureType
	items     []*Node
	listeners []*listenerEntry
	firing    bool
}

func newNodeList(n *Node, t FeatureType) NodeList {
	return NodeList{node: n, ftype: t}
}

// Node returns the owning node.
func (l *NodeList) Node() *Node { return l.node }

// FeatureType returns the type of the feature holding the list.
func (l *NodeList) FeatureType() FeatureType { return l.ftype }

// Len returns the number of nodes.
func (l *NodeList) Len() int { return len(l.items) }

// Get returns the node at index.
func (l *NodeList) Get(index int) *Node { return l.items[index] }

// IndexOf returns the index of n, or -1.
func (l *NodeList) IndexOf(n *Node) int { return slices.Index(l.items, n) }

// Nodes returns a copy of the list.
func (l *NodeList) Nodes() []*Node { return slices.Clone(l.items) }

// AddSpliceListener registers fn. Edits made before registration are not
// replayed.
func (l *NodeList) AddSpliceListener(fn SpliceListener) Registration {
	entry := &listenerEntry{fn: fn}
	l.listeners = append(l.listeners, entry)
	return &listRegistration{list: l, entry: entry}
}

// CheckWritable returns ErrReentrantSplice while the list is notifying its
// listeners, and nil otherwise. Multi-step edits call it before touching
// any other list.
func (l *NodeList) CheckWritable() error {
	if l.firing {
		return treeerrors.New(treeerrors.CodeReentrantSplice).
			WithDetailf("%s %s", l.node, l.ftype)
	}
	return nil
}

// Add appends n.
func (l *NodeList) Add(n *Node) error {
	return l.Splice(len(l.items), 0, n)
}

// Insert inserts nodes at index.
func (l *NodeList) Insert(index int, nodes ...*Node) error {
	return l.Splice(index, 0, nodes...)
}

// RemoveAt removes the node at index.
func (l *NodeList) RemoveAt(index int) error {
	return l.Splice(index, 1)
}

// Remove removes n, which must be in the list.
func (l *NodeList) Remove(n *Node) error {
	i := l.IndexOf(n)
	if i < 0 {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("%s is not a child of %s", n, l.node)
	}
	return l.Splice(i, 1)
}

// Clear removes every node.
func (l *NodeList) Clear() error {
	return l.Splice(0, len(l.items))
}

// Splice removes removeCount nodes at index and inserts add in their place.
// Removed nodes lose their parent, inserted nodes get the list owner as
// parent, then listeners are notified. An edit that neither removes nor
// inserts anything is not reported.
func (l *NodeList) Splice(index, removeCount int, add ...*Node) error {
	if err := l.CheckWritable(); err != nil {
		return err
	}
	if index < 0 || removeCount < 0 || index+removeCount > len(l.items) {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("splice(%d, %d) out of range for %d nodes", index, removeCount, len(l.items))
	}

	removed := slices.Clone(l.items[index : index+removeCount])
	if err := l.checkInsert(removed, add); err != nil {
		return err
	}
	if len(removed) == 0 && len(add) == 0 {
		return nil
	}

	added := slices.Clone(add)
	l.items = slices.Replace(l.items, index, index+removeCount, added...)
	for _, r := range removed {
		if !slices.Contains(added, r) {
			r.setParent(nil)
		}
	}
	for _, a := range added {
		a.setParent(l.node)
	}

	l.fire(SpliceEvent{List: l, Index: index, Removed: removed, Added: added})
	return nil
}

func (l *NodeList) checkInsert(removed, add []*Node) error {
	for i, a := range add {
		if a == nil {
			return treeerrors.New(treeerrors.CodeIllegalState).
				WithDetail("cannot insert a nil node")
		}
		if slices.Contains(add[:i], a) {
			return treeerrors.New(treeerrors.CodeIllegalState).
				WithDetailf("%s inserted twice", a)
		}
		if a == l.node || l.node.IsDescendantOf(a) {
			return treeerrors.New(treeerrors.CodeIllegalState).
				WithDetailf("inserting %s into %s would create a cycle", a, l.node)
		}
		if a.Parent() != nil && !slices.Contains(removed, a) {
			return treeerrors.New(treeerrors.CodeIllegalState).
				WithDetailf("%s already has a parent", a)
		}
	}
	return nil
}

func (l *NodeList) fire(e SpliceEvent) {
	if len(l.listeners) == 0 {
		return
	}
	l.firing = true
	defer func() { l.firing = false }()

	for _, entry := range slices.Clone(l.listeners) {
		entry.fn(e)
	}
}

// ElementChildren holds the children of a plain element.
type ElementChildren struct{ NodeList }

// Type implements Feature.
func (*ElementChildren) Type() FeatureType { return FeatureElementChildren }
