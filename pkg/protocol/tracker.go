package protocol

import (
	"github.com/vango-dev/statetree/internal/metrics"
	"github.com/vango-dev/statetree/pkg/state"
)

// Source is anything that reports splices: *state.NodeList, the children
// feature and *state.TemplateMap for its child slot.
type Source interface {
	AddSpliceListener(state.SpliceListener) state.Registration
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMetrics records splices and flushed frames on m.
func WithMetrics(m *metrics.Metrics) TrackerOption {
	return func(t *Tracker) {
		t.metrics = m
	}
}

// Tracker collects splice changes from watched lists until they are
// flushed. Like the tree it observes, a Tracker is not safe for concurrent
// use.
type Tracker struct {
	metrics *metrics.Metrics
	seq     uint64
	pending []SpliceChange
	regs    []state.Registration
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Watch starts recording splices of src.
func (t *Tracker) Watch(src Source) {
	t.regs = append(t.regs, src.AddSpliceListener(t.record))
}

func (t *Tracker) record(e state.SpliceEvent) {
	t.pending = append(t.pending, ChangeFromEvent(e))
	t.metrics.RecordSplice(len(e.Added), len(e.Removed))
}

// Pending returns the number of changes waiting to be flushed.
func (t *Tracker) Pending() int {
	return len(t.pending)
}

// Flush returns the pending changes as the next frame, or nil when nothing
// changed since the last flush. Sequence numbers start at 1.
func (t *Tracker) Flush() *ChangesFrame {
	if len(t.pending) == 0 {
		return nil
	}
	t.seq++
	f := &ChangesFrame{Seq: t.seq, Changes: t.pending}
	t.pending = nil
	t.metrics.RecordFrame()
	return f
}

// Close stops watching every source. Pending changes stay available to
// Flush.
func (t *Tracker) Close() {
	for _, r := range t.regs {
		r.Remove()
	}
	t.regs = nil
}
