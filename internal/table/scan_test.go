package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/relcore/internal/expr"
	"github.com/relcore/relcore/internal/record"
)

func TestScan_MatchesPredicate(t *testing.T) {
	tb := newTestTable(t, 5)
	s := tb.Schema()

	for i := 0; i < 10; i++ {
		rec := makeRecord(t, s, int32(i), "xxxx", i%2 == 0)
		require.NoError(t, tb.Insert(rec))
	}

	cond := expr.Compare{Op: expr.OpEq, Left: expr.AttrRef{Index: 2}, Right: expr.Const{Value: record.BoolValue(true)}}
	sc, err := NewScan(tb, cond)
	require.NoError(t, err)

	var found []int32
	for {
		rec, err := sc.Next()
		if err == ErrNoMoreTuples {
			break
		}
		require.NoError(t, err)
		v, err := s.GetAttr(rec, 0)
		require.NoError(t, err)
		found = append(found, v.Int)
	}

	require.Equal(t, []int32{0, 2, 4, 6, 8}, found)
}

func TestScan_SkipsDeletedSlots(t *testing.T) {
	tb := newTestTable(t, 5)
	s := tb.Schema()

	rec0 := makeRecord(t, s, 0, "xxxx", true)
	require.NoError(t, tb.Insert(rec0))
	rec1 := makeRecord(t, s, 1, "xxxx", true)
	require.NoError(t, tb.Insert(rec1))

	require.NoError(t, tb.Delete(rec0.ID))

	cond := expr.Const{Value: record.BoolValue(true)}
	sc, err := NewScan(tb, cond)
	require.NoError(t, err)

	rec, err := sc.Next()
	require.NoError(t, err)
	v, err := s.GetAttr(rec, 0)
	require.NoError(t, err)
	require.Equal(t, int32(1), v.Int)

	_, err = sc.Next()
	require.ErrorIs(t, err, ErrNoMoreTuples)
}

func TestScan_EmptyTableImmediatelyDone(t *testing.T) {
	tb := newTestTable(t, 3)
	sc, err := NewScan(tb, expr.Const{Value: record.BoolValue(true)})
	require.NoError(t, err)

	_, err = sc.Next()
	require.ErrorIs(t, err, ErrNoMoreTuples)
}

func TestNewScan_NilCondition(t *testing.T) {
	tb := newTestTable(t, 3)
	_, err := NewScan(tb, nil)
	require.ErrorIs(t, err, ErrScanConditionNotFound)
}

func TestScan_RestartsAfterExhaustion(t *testing.T) {
	tb := newTestTable(t, 3)
	s := tb.Schema()
	rec := makeRecord(t, s, 5, "xxxx", true)
	require.NoError(t, tb.Insert(rec))

	sc, err := NewScan(tb, expr.Const{Value: record.BoolValue(true)})
	require.NoError(t, err)

	_, err = sc.Next()
	require.NoError(t, err)
	_, err = sc.Next()
	require.ErrorIs(t, err, ErrNoMoreTuples)

	// Cursor reset, scanning again finds the same tuple.
	got, err := sc.Next()
	require.NoError(t, err)
	v, err := s.GetAttr(got, 0)
	require.NoError(t, err)
	require.Equal(t, int32(5), v.Int)
}
