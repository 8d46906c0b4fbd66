package protocol

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/statetree/pkg/state"
)

func TestEncoderDecoder(t *testing.T) {
	e := NewEncoder()
	e.WriteByte(0x42)
	e.WriteUvarint(12345)
	e.WriteSvarint(-9876)
	e.WriteString("hello")
	e.WriteIDs([]uint64{1, math.MaxUint64})

	d := NewDecoder(e.Bytes())
	if b, err := d.ReadByte(); err != nil || b != 0x42 {
		t.Errorf("ReadByte() = %x, %v", b, err)
	}
	if v, err := d.ReadUvarint(); err != nil || v != 12345 {
		t.Errorf("ReadUvarint() = %d, %v", v, err)
	}
	if v, err := d.ReadSvarint(); err != nil || v != -9876 {
		t.Errorf("ReadSvarint() = %d, %v", v, err)
	}
	if s, err := d.ReadString(); err != nil || s != "hello" {
		t.Errorf("ReadString() = %q, %v", s, err)
	}
	ids, err := d.ReadIDs()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint64{1, math.MaxUint64}, ids); diff != "" {
		t.Errorf("ReadIDs() mismatch (-want +got):\n%s", diff)
	}
	if !d.EOF() || d.Remaining() != 0 {
		t.Errorf("decoder should be exhausted, %d bytes left", d.Remaining())
	}
	if _, err := d.ReadByte(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadByte() past the end error = %v", err)
	}
}

func TestUvarintLen(t *testing.T) {
	tests := []struct {
		value uint64
		want  int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{math.MaxUint32, 5},
		{math.MaxUint64, 10},
	}
	for _, tt := range tests {
		e := NewEncoder()
		e.WriteUvarint(tt.value)
		if got := UvarintLen(tt.value); got != tt.want || e.Len() != tt.want {
			t.Errorf("UvarintLen(%d) = %d, encoded %d bytes, want %d", tt.value, got, e.Len(), tt.want)
		}
	}
}

func TestEncodeChangesWireFormat(t *testing.T) {
	f := &ChangesFrame{
		Seq: 1,
		Changes: []SpliceChange{{
			NodeID:  5,
			Feature: state.FeatureElementChildren,
			Index:   0,
			Add:     []uint64{7, 300},
		}},
	}
	want := []byte{
		0x01,       // seq
		0x01,       // count
		0x05,       // node id
		0x03,       // ElementChildren
		0x00,       // index
		0x00,       // remove count
		0x02,       // add count
		0x07,       // id 7
		0xAC, 0x02, // id 300
	}
	if got := EncodeChanges(f); !bytes.Equal(got, want) {
		t.Errorf("EncodeChanges() = % x, want % x", got, want)
	}
}

func TestChangesRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame *ChangesFrame
	}{
		{"empty", &ChangesFrame{Seq: 9}},
		{
			name: "insert and remove",
			frame: &ChangesFrame{
				Seq: 300,
				Changes: []SpliceChange{
					{NodeID: 1, Feature: state.FeatureElementChildren, Index: 2, Add: []uint64{10, 11}},
					{NodeID: 1, Feature: state.FeatureElementChildren, Index: 0, Remove: []uint64{10}},
				},
			},
		},
		{
			name: "slot replace",
			frame: &ChangesFrame{
				Seq: 2,
				Changes: []SpliceChange{
					{NodeID: 1 << 40, Feature: state.FeatureTemplateMap, Remove: []uint64{3}, Add: []uint64{4}},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeChanges(EncodeChanges(tt.frame))
			if err != nil {
				t.Fatalf("DecodeChanges() error = %v", err)
			}
			if diff := cmp.Diff(tt.frame, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeChangesErrors(t *testing.T) {
	valid := EncodeChanges(&ChangesFrame{
		Seq:     1,
		Changes: []SpliceChange{{NodeID: 2, Feature: state.FeatureElementChildren, Add: []uint64{3}}},
	})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"truncated", valid[:len(valid)-1], io.ErrUnexpectedEOF},
		{"trailing", append(append([]byte{}, valid...), 0x00), ErrTrailingData},
		{"unknown feature", []byte{0x01, 0x01, 0x02, 0xFF, 0x00, 0x00, 0x00}, ErrUnknownFeature},
		{"huge count", []byte{0x01, 0xFF, 0xFF, 0xFF, 0x0F}, ErrCollectionTooLarge},
		{"count beyond input", []byte{0x01, 0x05, 0x00}, io.ErrUnexpectedEOF},
		{"varint overflow", bytes.Repeat([]byte{0xFF}, 11), ErrVarintOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeChanges(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("DecodeChanges() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSpliceChangeString(t *testing.T) {
	c := SpliceChange{NodeID: 4, Feature: state.FeatureElementChildren, Index: 1, Remove: []uint64{7}, Add: []uint64{9, 10}}
	if got, want := c.String(), "#4.ElementChildren[1] -[7] +[9 10]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
