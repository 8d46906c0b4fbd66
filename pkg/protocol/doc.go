// Package protocol encodes list edits of a state tree for a remote observer.
//
// A Tracker watches node lists and turns every splice into a SpliceChange
// that refers to nodes by ID. Flush hands the accumulated changes out as a
// ChangesFrame with an increasing sequence number, and EncodeChanges turns a
// frame into bytes:
//
//	tr := protocol.NewTracker()
//	tr.Watch(children)
//	...
//	if frame := tr.Flush(); frame != nil {
//		send(protocol.EncodeChanges(frame))
//	}
//
// # Wire Format
//
// Integers are protobuf-style varints. A frame is
//
//	[Seq: varint][Count: varint][Change]*
//
// and every change is
//
//	[NodeID: varint][Feature: byte][Index: varint]
//	[RemoveCount: varint][NodeID: varint]*
//	[AddCount: varint][NodeID: varint]*
//
// Removed nodes are listed by ID only. The observer is expected to know
// them from earlier frames or from an initial snapshot.
//
// Transport framing is left to the caller.
package protocol
