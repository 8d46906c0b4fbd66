package state

import (
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	events []SpliceEvent
}

func (r *recorder) listen(e SpliceEvent) { r.events = append(r.events, e) }

type spliceSummary struct {
	Index   int
	Removed int
	Added   []uint64
}

func summarize(events []SpliceEvent) []spliceSummary {
	out := make([]spliceSummary, len(events))
	for i, e := range events {
		out[i] = spliceSummary{Index: e.Index, Removed: e.RemovedCount(), Added: ids(e.Added)}
	}
	return out
}

func ids(nodes []*Node) []uint64 {
	out := make([]uint64, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

func newChildren(t *testing.T) (*Node, *ElementChildren) {
	t.Helper()
	parent := NewNode(KindElement)
	return parent, Must[*ElementChildren](parent)
}

func TestAppendThenRemove(t *testing.T) {
	parent, children := newChildren(t)
	x := NewNode(KindElement)
	rec := &recorder{}
	children.AddSpliceListener(rec.listen)

	if err := children.Add(x); err != nil {
		t.Fatal(err)
	}
	if x.Parent() != parent {
		t.Error("appended node should have the list owner as parent")
	}
	if err := children.Remove(x); err != nil {
		t.Fatal(err)
	}

	want := []spliceSummary{
		{Index: 0, Removed: 0, Added: []uint64{x.ID()}},
		{Index: 0, Removed: 1, Added: []uint64{}},
	}
	if diff := cmp.Diff(want, summarize(rec.events)); diff != "" {
		t.Errorf("splices mismatch (-want +got):\n%s", diff)
	}
	if children.Len() != 0 || x.Parent() != nil {
		t.Errorf("after remove: len %d, parent %v", children.Len(), x.Parent())
	}
	if rec.events[1].Removed[0] != x {
		t.Error("remove splice should carry the removed node")
	}
}

func TestSpliceReplaysEdits(t *testing.T) {
	_, children := newChildren(t)
	nodes := make([]*Node, 6)
	for i := range nodes {
		nodes[i] = NewNode(KindText)
	}

	var shadow []*Node
	children.AddSpliceListener(func(e SpliceEvent) {
		if e.List != &children.NodeList {
			t.Error("event should reference the notifying list")
		}
		shadow = e.Apply(shadow)
	})

	edits := []struct {
		name string
		do   func() error
	}{
		{"append", func() error { return children.Add(nodes[0]) }},
		{"insert many", func() error { return children.Insert(0, nodes[1], nodes[2]) }},
		{"insert middle", func() error { return children.Insert(2, nodes[3]) }},
		{"remove at", func() error { return children.RemoveAt(1) }},
		{"replace", func() error { return children.Splice(1, 2, nodes[4], nodes[5]) }},
		{"move within splice", func() error { return children.Splice(0, 2, nodes[4], nodes[1]) }},
		{"remove by instance", func() error { return children.Remove(nodes[5]) }},
		{"clear", children.Clear},
	}

	for _, edit := range edits {
		if err := edit.do(); err != nil {
			t.Fatalf("%s: %v", edit.name, err)
		}
		if diff := cmp.Diff(ids(children.Nodes()), ids(shadow)); diff != "" {
			t.Fatalf("%s: replayed sequence differs (-list +replay):\n%s", edit.name, diff)
		}
		for _, n := range children.Nodes() {
			if n.Parent() != children.Node() {
				t.Fatalf("%s: %v should be parented to the list owner", edit.name, n)
			}
		}
	}

	for _, n := range nodes {
		if n.Parent() != nil {
			t.Errorf("%v still has a parent after clear", n)
		}
	}
}

func TestNoopSpliceIsNotReported(t *testing.T) {
	_, children := newChildren(t)
	rec := &recorder{}
	children.AddSpliceListener(rec.listen)

	if err := children.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := children.Insert(0); err != nil {
		t.Fatal(err)
	}
	if len(rec.events) != 0 {
		t.Errorf("got %d events for no-op edits", len(rec.events))
	}
}

func TestListenersInRegistrationOrder(t *testing.T) {
	_, children := newChildren(t)
	var order []string
	children.AddSpliceListener(func(SpliceEvent) { order = append(order, "first") })
	reg := children.AddSpliceListener(func(SpliceEvent) { order = append(order, "second") })
	children.AddSpliceListener(func(SpliceEvent) { order = append(order, "third") })

	_ = children.Add(NewNode(KindText))
	reg.Remove()
	reg.Remove()
	_ = children.Add(NewNode(KindText))

	want := []string{"first", "second", "third", "first", "third"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("listener order mismatch (-want +got):\n%s", diff)
	}
}

func TestReentrantSpliceFails(t *testing.T) {
	_, children := newChildren(t)
	_, other := newChildren(t)
	var reentrant, sibling error

	var writable error
	children.AddSpliceListener(func(SpliceEvent) {
		writable = children.CheckWritable()
		reentrant = children.Add(NewNode(KindText))
		sibling = other.Add(NewNode(KindText))
	})

	if err := children.Add(NewNode(KindText)); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(reentrant, ErrReentrantSplice) {
		t.Errorf("reentrant edit error = %v, want ErrReentrantSplice", reentrant)
	}
	if !errors.Is(writable, ErrReentrantSplice) {
		t.Errorf("CheckWritable() during notification = %v, want ErrReentrantSplice", writable)
	}
	if err := children.CheckWritable(); err != nil {
		t.Errorf("CheckWritable() after notification = %v", err)
	}
	if sibling != nil {
		t.Errorf("editing another list from a listener failed: %v", sibling)
	}
	if children.Len() != 1 || other.Len() != 1 {
		t.Errorf("lens = %d, %d; want 1, 1", children.Len(), other.Len())
	}

	// The guard is released once the listener returns.
	if err := children.RemoveAt(0); err != nil {
		t.Errorf("edit after notification failed: %v", err)
	}
}

func TestSpliceRejectsIllegalEdits(t *testing.T) {
	parent, children := newChildren(t)
	child := NewNode(KindElement)
	_ = children.Add(child)
	grandchild := NewNode(KindElement)
	_ = Must[*ElementChildren](child).Add(grandchild)

	_, elsewhere := newChildren(t)

	tests := []struct {
		name string
		do   func() error
	}{
		{"negative index", func() error { return children.Splice(-1, 0) }},
		{"remove past end", func() error { return children.Splice(0, 2) }},
		{"index past end", func() error { return children.Insert(5, NewNode(KindText)) }},
		{"nil node", func() error { return children.Add(nil) }},
		{"duplicate insert", func() error {
			n := NewNode(KindText)
			return children.Insert(0, n, n)
		}},
		{"already attached", func() error { return elsewhere.Add(child) }},
		{"self", func() error { return children.Add(parent) }},
		{"ancestor", func() error { return Must[*ElementChildren](grandchild).Add(parent) }},
		{"remove non-child", func() error { return children.Remove(grandchild) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.do(); !errors.Is(err, ErrIllegalState) {
				t.Errorf("error = %v, want ErrIllegalState", err)
			}
			if children.Len() != 1 || children.Get(0) != child {
				t.Error("failed edit must not change the list")
			}
		})
	}
}

func TestParentIsWeak(t *testing.T) {
	child := NewNode(KindText)
	func() {
		parent := NewNode(KindElement)
		_ = Must[*ElementChildren](parent).Add(child)
		if child.Parent() != parent {
			t.Fatal("parent not set")
		}
	}()

	// The child does not keep its parent alive.
	for i := 0; i < 10 && child.Parent() != nil; i++ {
		runtime.GC()
	}
	if child.Parent() != nil {
		t.Skip("parent not collected yet; GC timing is not guaranteed")
	}
}
