// Package state implements the mutable state tree.
//
// A Node owns a fixed set of features, chosen from the Registry when the
// node is created and never changed afterwards. Features are typed data
// compartments of two essential shapes:
//
//   - mapping features (NodeMap and its specializations) hold key/value data
//   - list features (NodeList and its specializations) hold ordered children
//
// Children keep only a weak back-reference to their parent. The parent
// reference is written exclusively by list edits, so parent and child views
// of the tree cannot disagree.
//
// # Splices
//
// Every list edit is reduced to one splice: a start index, the removed nodes
// and the inserted nodes. Listeners registered with AddSpliceListener
// receive the splice synchronously, in registration order, before the
// mutating call returns:
//
//	reg := children.AddSpliceListener(func(e state.SpliceEvent) {
//	    log.Printf("splice at %d: -%d +%d", e.Index, e.RemovedCount(), len(e.Added))
//	})
//	defer reg.Remove()
//
// A listener must not edit the list that is notifying it; such edits fail
// with ErrReentrantSplice.
//
// # Concurrency
//
// A tree has a single writer. Nothing in this package locks.
package state
