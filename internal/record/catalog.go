package record

import (
	"fmt"

	"github.com/relcore/relcore/internal/bx"
)

// Catalog is the page-0 metadata block of a table: the schema plus the
// two counters the table layer needs to drive insert and scan.
type Catalog struct {
	Schema        *Schema
	TupleCount    int
	FirstFreePage int // hint only, see Open Questions in DESIGN.md
	KeySize       int // number of key attributes; member indices are not persisted
}

// catalogHeaderSize is the fixed prefix before the per-attribute
// entries: tupleCount, firstFreePage, numAttr, keySize, each an int32.
const catalogHeaderSize = 4 * 4

// attrEntrySize is the fixed width of one attribute's catalog entry:
// a 15-byte name slot, an int32 type tag, and an int32 length.
const attrEntrySize = attrNameSize + 4 + 4

// EncodeCatalog serializes c into a page-0 sized buffer: tupleCount |
// firstFreePage | numAttr | keySize | {name,type,length} per attribute.
func EncodeCatalog(c Catalog, pageSize int) ([]byte, error) {
	numAttr := len(c.Schema.Attrs)
	need := catalogHeaderSize + numAttr*attrEntrySize
	if need > pageSize {
		return nil, fmt.Errorf("record: catalog for %d attributes exceeds page size %d", numAttr, pageSize)
	}

	buf := make([]byte, pageSize)
	bx.PutI32(buf[0:4], int32(c.TupleCount))
	bx.PutI32(buf[4:8], int32(c.FirstFreePage))
	bx.PutI32(buf[8:12], int32(numAttr))
	bx.PutI32(buf[12:16], int32(len(c.Schema.KeyAttrs)))

	off := catalogHeaderSize
	for _, a := range c.Schema.Attrs {
		nameBuf := make([]byte, attrNameSize)
		copy(nameBuf, a.Name)
		copy(buf[off:off+attrNameSize], nameBuf)
		bx.PutI32(buf[off+attrNameSize:off+attrNameSize+4], int32(a.Type))
		bx.PutI32(buf[off+attrNameSize+4:off+attrNameSize+8], int32(a.Length))
		off += attrEntrySize
	}

	return buf, nil
}

// DecodeCatalog deserializes a page-0 buffer written by EncodeCatalog.
// The returned schema's KeyAttrs is always nil: the catalog layout
// stores the key's size, not its member attribute indices.
func DecodeCatalog(buf []byte) (Catalog, error) {
	if len(buf) < catalogHeaderSize {
		return Catalog{}, ErrShortCatalogPage
	}

	tupleCount := int(bx.I32(buf[0:4]))
	firstFreePage := int(bx.I32(buf[4:8]))
	numAttr := int(bx.I32(buf[8:12]))
	keySize := int(bx.I32(buf[12:16]))

	need := catalogHeaderSize + numAttr*attrEntrySize
	if numAttr < 0 || need > len(buf) {
		return Catalog{}, ErrShortCatalogPage
	}

	attrs := make([]Attribute, numAttr)
	off := catalogHeaderSize
	for i := 0; i < numAttr; i++ {
		nameBuf := buf[off : off+attrNameSize]
		name := string(trimNulls(nameBuf))
		typ := Type(bx.I32(buf[off+attrNameSize : off+attrNameSize+4]))
		length := int(bx.I32(buf[off+attrNameSize+4 : off+attrNameSize+8]))
		attrs[i] = Attribute{Name: name, Type: typ, Length: length}
		off += attrEntrySize
	}

	schema := &Schema{Attrs: attrs}

	return Catalog{
		Schema:        schema,
		TupleCount:    tupleCount,
		FirstFreePage: firstFreePage,
		KeySize:       keySize,
	}, nil
}

func trimNulls(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return b[:i]
}
