package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalog_EncodeDecodeRoundTrip(t *testing.T) {
	s := testSchema(t)
	in := Catalog{
		Schema:        s,
		TupleCount:    42,
		FirstFreePage: 3,
	}

	buf, err := EncodeCatalog(in, 4096)
	require.NoError(t, err)
	require.Len(t, buf, 4096)

	out, err := DecodeCatalog(buf)
	require.NoError(t, err)

	require.Equal(t, in.TupleCount, out.TupleCount)
	require.Equal(t, in.FirstFreePage, out.FirstFreePage)
	require.Equal(t, len(s.KeyAttrs), out.KeySize)
	require.Equal(t, s.Attrs, out.Schema.Attrs)
	require.Nil(t, out.Schema.KeyAttrs)
}

func TestCatalog_EncodeTooManyAttrsForPage(t *testing.T) {
	attrs := make([]Attribute, 300)
	for i := range attrs {
		attrs[i] = Attribute{Name: "x", Type: TypeInt}
	}
	s, err := NewSchema(attrs, nil)
	require.NoError(t, err)

	_, err = EncodeCatalog(Catalog{Schema: s}, 4096)
	require.Error(t, err)
}

func TestCatalog_DecodeShortBuffer(t *testing.T) {
	_, err := DecodeCatalog([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrShortCatalogPage)
}
