package table

import "errors"

var (
	// ErrNoTupleWithGivenRid is returned by Get when the named slot does
	// not hold a live record.
	ErrNoTupleWithGivenRid = errors.New("table: no tuple with given rid")

	// ErrNoMoreTuples is returned by Scan.Next once every tuple in the
	// table has been visited.
	ErrNoMoreTuples = errors.New("table: no more tuples")

	// ErrScanConditionNotFound is returned by NewScan when called with
	// a nil predicate.
	ErrScanConditionNotFound = errors.New("table: scan condition not found")

	// ErrRecordSizeMismatch is returned by Insert/Update when the
	// record's buffer does not match the table's schema width.
	ErrRecordSizeMismatch = errors.New("table: record size does not match schema")

	// ErrTableClosed is returned by Insert, Get, Update, Delete and
	// Scan.Next on a table after Close has run.
	ErrTableClosed = errors.New("table: table is closed")
)
