package record

import (
	"fmt"

	"github.com/relcore/relcore/internal/bx"
)

// RID identifies a record's slot within a table: the page it lives on
// and its slot index within that page.
type RID struct {
	Page int
	Slot int
}

func (r RID) String() string { return fmt.Sprintf("(%d,%d)", r.Page, r.Slot) }

// tombstone byte values. A record buffer's first byte marks whether
// the slot is live; a deleted slot keeps its space reserved rather
// than compacting the page.
const (
	tombstoneLive    byte = 1
	tombstoneDeleted byte = 0
)

// Record is one tuple: its slot identity plus its fixed-width encoded
// bytes (tombstone byte followed by each attribute's encoding, in
// schema order).
type Record struct {
	ID   RID
	Data []byte
}

// NewRecord allocates a zeroed, live record buffer sized for s.
func NewRecord(s *Schema, id RID) *Record {
	data := make([]byte, s.RecordSize())
	data[0] = tombstoneLive
	return &Record{ID: id, Data: data}
}

// IsLive reports whether the record's tombstone byte marks it live.
func (r *Record) IsLive() bool {
	return len(r.Data) > 0 && r.Data[0] == tombstoneLive
}

// MarkDeleted flips the record's tombstone byte without touching the
// rest of its bytes, so the slot's space is reclaimed by future
// inserts but the page itself does not shift.
func (r *Record) MarkDeleted() {
	if len(r.Data) > 0 {
		r.Data[0] = tombstoneDeleted
	}
}

// Value is a dynamically-typed attribute value, tagged with the
// schema Type it was read as or is being written as.
type Value struct {
	Type   Type
	Int    int32
	Float  float32
	Bool   bool
	String string
}

// GetAttr reads attribute attrIndex out of rec according to s.
func (s *Schema) GetAttr(rec *Record, attrIndex int) (Value, error) {
	off, err := s.attrOffset(attrIndex)
	if err != nil {
		return Value{}, err
	}
	a := s.Attrs[attrIndex]

	switch a.Type {
	case TypeInt:
		return Value{Type: TypeInt, Int: bx.I32(rec.Data[off : off+4])}, nil
	case TypeFloat:
		return Value{Type: TypeFloat, Float: bx.F32(rec.Data[off : off+4])}, nil
	case TypeBool:
		return Value{Type: TypeBool, Bool: rec.Data[off] != 0}, nil
	case TypeString:
		raw := rec.Data[off : off+a.Length]
		return Value{Type: TypeString, String: string(trimNulls(raw))}, nil
	default:
		return Value{}, fmt.Errorf("%w: %v", ErrUnknownType, a.Type)
	}
}

// SetAttr writes v into attribute attrIndex of rec according to s. The
// value's Type must match the attribute's declared type.
func (s *Schema) SetAttr(rec *Record, attrIndex int, v Value) error {
	off, err := s.attrOffset(attrIndex)
	if err != nil {
		return err
	}
	a := s.Attrs[attrIndex]
	if v.Type != a.Type {
		return fmt.Errorf("%w: attr %d is %v, value is %v", ErrTypeMismatch, attrIndex, a.Type, v.Type)
	}

	switch a.Type {
	case TypeInt:
		bx.PutI32(rec.Data[off:off+4], v.Int)
	case TypeFloat:
		bx.PutF32(rec.Data[off:off+4], v.Float)
	case TypeBool:
		if v.Bool {
			rec.Data[off] = 1
		} else {
			rec.Data[off] = 0
		}
	case TypeString:
		field := rec.Data[off : off+a.Length]
		for i := range field {
			field[i] = 0
		}
		copy(field, v.String)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownType, a.Type)
	}
	return nil
}

// IntValue, FloatValue, BoolValue and StringValue build a Value of the
// matching type, for callers constructing attribute values to pass to
// SetAttr.
func IntValue(n int32) Value     { return Value{Type: TypeInt, Int: n} }
func FloatValue(f float32) Value { return Value{Type: TypeFloat, Float: f} }
func BoolValue(b bool) Value     { return Value{Type: TypeBool, Bool: b} }
func StringValue(s string) Value { return Value{Type: TypeString, String: s} }
