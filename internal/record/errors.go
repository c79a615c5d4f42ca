package record

import "errors"

var (
	// ErrAttrNameTooLong is returned by NewSchema when an attribute name
	// exceeds the fixed 15-byte catalog slot.
	ErrAttrNameTooLong = errors.New("record: attribute name exceeds 15 bytes")

	// ErrUnknownType is returned for an attribute type outside
	// INT/FLOAT/BOOL/STRING.
	ErrUnknownType = errors.New("record: unknown attribute type")

	// ErrBadAttrIndex is returned by GetAttr/SetAttr for an out-of-range
	// attribute index.
	ErrBadAttrIndex = errors.New("record: attribute index out of range")

	// ErrTypeMismatch is returned by SetAttr when the supplied value's
	// type does not match the schema's declared attribute type.
	ErrTypeMismatch = errors.New("record: value type does not match attribute")

	// ErrShortCatalogPage is returned by DecodeCatalog when the page-0
	// buffer is too small to hold the fixed catalog header.
	ErrShortCatalogPage = errors.New("record: catalog page truncated")
)
