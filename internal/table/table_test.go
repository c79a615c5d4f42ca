package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/relcore/internal/bufferpool"
	"github.com/relcore/relcore/internal/record"
)

func testTableSchema(t *testing.T) *record.Schema {
	t.Helper()
	s, err := record.NewSchema([]record.Attribute{
		{Name: "a", Type: record.TypeInt},
		{Name: "b", Type: record.TypeString, Length: 4},
		{Name: "c", Type: record.TypeBool},
	}, []int{0})
	require.NoError(t, err)
	return s
}

func newTestTable(t *testing.T, numFrames int) *Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t1.tbl")
	schema := testTableSchema(t)
	require.NoError(t, Create(path, schema))

	tb, err := Open(path, numFrames, bufferpool.FIFO)
	require.NoError(t, err)
	t.Cleanup(func() { tb.Close() })
	return tb
}

func makeRecord(t *testing.T, s *record.Schema, a int32, b string, c bool) *record.Record {
	t.Helper()
	rec := record.NewRecord(s, record.RID{})
	require.NoError(t, s.SetAttr(rec, 0, record.IntValue(a)))
	require.NoError(t, s.SetAttr(rec, 1, record.StringValue(b)))
	require.NoError(t, s.SetAttr(rec, 2, record.BoolValue(c)))
	return rec
}

func TestTable_CreateOpen_EmptyCatalog(t *testing.T) {
	tb := newTestTable(t, 3)
	count, firstFree := tb.Stat()
	require.Equal(t, 0, count)
	require.Equal(t, 1, firstFree)
	require.Len(t, tb.Schema().Attrs, 3)
}

func TestTable_InsertGetRoundTrip(t *testing.T) {
	tb := newTestTable(t, 3)
	s := tb.Schema()

	rec := makeRecord(t, s, 7, "abcd", true)
	require.NoError(t, tb.Insert(rec))
	require.Equal(t, 1, rec.ID.Page)
	require.Equal(t, 0, rec.ID.Slot)

	got, err := tb.Get(rec.ID)
	require.NoError(t, err)
	v0, err := s.GetAttr(got, 0)
	require.NoError(t, err)
	require.Equal(t, int32(7), v0.Int)
}

func TestTable_Get_NoTuple(t *testing.T) {
	tb := newTestTable(t, 3)
	_, err := tb.Get(record.RID{Page: 1, Slot: 0})
	require.ErrorIs(t, err, ErrNoTupleWithGivenRid)
}

func TestTable_DeleteThenReinsertReusesSlot(t *testing.T) {
	tb := newTestTable(t, 3)
	s := tb.Schema()

	rec1 := makeRecord(t, s, 1, "aaaa", false)
	require.NoError(t, tb.Insert(rec1))

	require.NoError(t, tb.Delete(rec1.ID))
	_, err := tb.Get(rec1.ID)
	require.ErrorIs(t, err, ErrNoTupleWithGivenRid)

	rec2 := makeRecord(t, s, 2, "bbbb", true)
	require.NoError(t, tb.Insert(rec2))
	require.Equal(t, rec1.ID, rec2.ID)
}

func TestTable_Update(t *testing.T) {
	tb := newTestTable(t, 3)
	s := tb.Schema()

	rec := makeRecord(t, s, 1, "aaaa", false)
	require.NoError(t, tb.Insert(rec))

	updated := makeRecord(t, s, 99, "zzzz", true)
	updated.ID = rec.ID
	require.NoError(t, tb.Update(updated))

	got, err := tb.Get(rec.ID)
	require.NoError(t, err)
	v0, err := s.GetAttr(got, 0)
	require.NoError(t, err)
	require.Equal(t, int32(99), v0.Int)
}

func TestTable_InsertSpillsToNextPage(t *testing.T) {
	tb := newTestTable(t, 5)
	s := tb.Schema()
	slotsPerPage := tb.slotsPerPage

	var lastRID record.RID
	for i := 0; i < slotsPerPage+1; i++ {
		rec := makeRecord(t, s, int32(i), "xxxx", false)
		require.NoError(t, tb.Insert(rec))
		lastRID = rec.ID
	}
	require.Equal(t, 2, lastRID.Page)
	require.Equal(t, 0, lastRID.Slot)
}

func TestTable_OperationsAfterClose(t *testing.T) {
	tb := newTestTable(t, 3)
	require.NoError(t, tb.Close())

	_, err := tb.Get(record.RID{Page: 1, Slot: 0})
	require.ErrorIs(t, err, ErrTableClosed)
}
