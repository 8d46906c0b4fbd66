package protocol

import (
	"fmt"

	"github.com/vango-dev/statetree/pkg/state"
)

// SpliceChange is one list edit expressed with node IDs. NodeID and Feature
// name the list, Remove lists the IDs taken out at Index and Add the IDs
// inserted there.
type SpliceChange struct {
	NodeID  uint64
	Feature state.FeatureType
	Index   int
	Remove  []uint64
	Add     []uint64
}

// String returns a compact description such as "#4.ElementChildren[1] -[7] +[9 10]".
func (c SpliceChange) String() string {
	return fmt.Sprintf("#%d.%s[%d] -%v +%v", c.NodeID, c.Feature, c.Index, c.Remove, c.Add)
}

// ChangesFrame is a batch of changes with a sequence number.
type ChangesFrame struct {
	Seq     uint64
	Changes []SpliceChange
}

// ChangeFromEvent converts a splice event into its wire form.
func ChangeFromEvent(e state.SpliceEvent) SpliceChange {
	return SpliceChange{
		NodeID:  e.List.Node().ID(),
		Feature: e.List.FeatureType(),
		Index:   e.Index,
		Remove:  nodeIDs(e.Removed),
		Add:     nodeIDs(e.Added),
	}
}

func nodeIDs(nodes []*state.Node) []uint64 {
	if len(nodes) == 0 {
		return nil
	}
	ids := make([]uint64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	return ids
}

// EncodeChanges encodes a frame to bytes.
func EncodeChanges(f *ChangesFrame) []byte {
	e := NewEncoder()
	EncodeChangesTo(e, f)
	return e.Bytes()
}

// EncodeChangesTo appends a frame to e.
func EncodeChangesTo(e *Encoder, f *ChangesFrame) {
	e.WriteUvarint(f.Seq)
	e.WriteUvarint(uint64(len(f.Changes)))
	for i := range f.Changes {
		encodeChange(e, &f.Changes[i])
	}
}

func encodeChange(e *Encoder, c *SpliceChange) {
	e.WriteUvarint(c.NodeID)
	e.WriteByte(byte(c.Feature))
	e.WriteUvarint(uint64(c.Index))
	e.WriteIDs(c.Remove)
	e.WriteIDs(c.Add)
}

// DecodeChanges decodes a frame and rejects trailing bytes.
func DecodeChanges(data []byte) (*ChangesFrame, error) {
	d := NewDecoder(data)
	f, err := DecodeChangesFrom(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingData
	}
	return f, nil
}

// DecodeChangesFrom reads one frame from d.
func DecodeChangesFrom(d *Decoder) (*ChangesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	f := &ChangesFrame{Seq: seq}
	if count > 0 {
		f.Changes = make([]SpliceChange, count)
	}
	for i := range f.Changes {
		if err := decodeChange(d, &f.Changes[i]); err != nil {
			return nil, fmt.Errorf("change %d: %w", i, err)
		}
	}
	return f, nil
}

func decodeChange(d *Decoder, c *SpliceChange) error {
	var err error
	if c.NodeID, err = d.ReadUvarint(); err != nil {
		return err
	}

	b, err := d.ReadByte()
	if err != nil {
		return err
	}
	c.Feature = state.FeatureType(b)
	if !c.Feature.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownFeature, b)
	}

	index, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	if index > MaxCollectionCount {
		return ErrCollectionTooLarge
	}
	c.Index = int(index)

	if c.Remove, err = d.ReadIDs(); err != nil {
		return err
	}
	c.Add, err = d.ReadIDs()
	return err
}
