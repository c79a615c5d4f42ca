// Package record implements the fixed-width tuple layout, the page-0
// catalog encoding, and the tombstone-based record representation the
// table layer builds on.
package record

import "fmt"

// Type is one of the four attribute types a schema attribute can carry.
type Type int32

const (
	TypeInt Type = iota
	TypeFloat
	TypeBool
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeBool:
		return "BOOL"
	case TypeString:
		return "STRING"
	default:
		return fmt.Sprintf("Type(%d)", int32(t))
	}
}

// attrNameSize is the fixed catalog slot width reserved for an
// attribute's name.
const attrNameSize = 15

// Attribute describes one column of a schema: its name, its type, and,
// for TypeString, the fixed number of bytes it occupies.
type Attribute struct {
	Name   string
	Type   Type
	Length int // byte width for TypeString; ignored otherwise
}

// size returns the number of bytes this attribute occupies in a record.
func (a Attribute) size() int {
	switch a.Type {
	case TypeInt, TypeFloat:
		return 4
	case TypeBool:
		return 1
	case TypeString:
		return a.Length
	default:
		return 0
	}
}

// Schema is the ordered attribute list of a table, plus the subset of
// attributes that make up its key.
//
// KeyAttrs is populated by NewSchema at creation time but is not part
// of the on-disk catalog encoding: DecodeCatalog returns a schema with
// KeyAttrs left nil. Callers that need the key after reopening a table
// must track it themselves, same as the catalog layout this package
// implements.
type Schema struct {
	Attrs    []Attribute
	KeyAttrs []int
}

// NewSchema validates attrs and keyAttrs and returns the schema. Every
// attribute name must fit in the fixed 15-byte catalog slot.
func NewSchema(attrs []Attribute, keyAttrs []int) (*Schema, error) {
	for _, a := range attrs {
		if len(a.Name) > attrNameSize {
			return nil, fmt.Errorf("%w: %q", ErrAttrNameTooLong, a.Name)
		}
		switch a.Type {
		case TypeInt, TypeFloat, TypeBool, TypeString:
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnknownType, a.Type)
		}
	}
	return &Schema{Attrs: attrs, KeyAttrs: keyAttrs}, nil
}

// RecordSize returns the total byte width of a record under this
// schema, including the one-byte tombstone prefix.
func (s *Schema) RecordSize() int {
	size := 1 // tombstone byte
	for _, a := range s.Attrs {
		size += a.size()
	}
	return size
}

// attrOffset returns the byte offset of attrIndex within a record's
// data area (after the tombstone byte).
func (s *Schema) attrOffset(attrIndex int) (int, error) {
	if attrIndex < 0 || attrIndex >= len(s.Attrs) {
		return 0, fmt.Errorf("%w: %d", ErrBadAttrIndex, attrIndex)
	}
	off := 1
	for i := 0; i < attrIndex; i++ {
		off += s.Attrs[i].size()
	}
	return off, nil
}
