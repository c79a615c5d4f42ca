package table

import (
	"github.com/relcore/relcore/internal/expr"
	"github.com/relcore/relcore/internal/record"
)

// Scan walks every live tuple of a table that satisfies a predicate.
// A table may have any number of independent, concurrently active
// scans; each Scan owns its own cursor.
type Scan struct {
	table *Table
	cond  expr.Node

	page, slot int
	scanCount  int
}

// NewScan seeds a scan over t with predicate cond. cond must not be
// nil: an unconditional scan still needs a root expression (for
// example expr.Const{Value: record.BoolValue(true)}).
func NewScan(t *Table, cond expr.Node) (*Scan, error) {
	if cond == nil {
		return nil, ErrScanConditionNotFound
	}
	return &Scan{
		table: t,
		cond:  cond,
		page:  1,
		slot:  -1,
	}, nil
}

// Next advances the cursor, evaluating cond against each live tuple it
// crosses, and returns the first live tuple that satisfies it. It
// returns ErrNoMoreTuples once the cursor runs past the table's last
// page, resetting the cursor so a subsequent Next restarts the scan.
func (s *Scan) Next() (*record.Record, error) {
	t := s.table
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	for {
		// Step 1: advance the cursor.
		s.slot++
		if s.slot >= t.slotsPerPage {
			s.slot = 0
			s.page++
		}

		// Step 2: stop once past the last page.
		if s.page > t.lastDataPage() {
			s.page = 1
			s.slot = -1
			s.scanCount = 0
			return nil, ErrNoMoreTuples
		}

		s.scanCount++

		// Step 3: pin, probe the tombstone.
		h, err := t.pool.Pin(s.page)
		if err != nil {
			return nil, err
		}
		data, err := t.pool.FrameData(h)
		if err != nil {
			t.pool.Unpin(h)
			return nil, err
		}

		off := t.slotOffset(s.slot)
		if data[off] != tombstoneByteLive {
			if err := t.pool.Unpin(h); err != nil {
				return nil, err
			}
			continue
		}

		// Step 4: copy out, evaluate.
		rec := &record.Record{
			ID:   record.RID{Page: s.page, Slot: s.slot},
			Data: make([]byte, t.recordSize),
		}
		copy(rec.Data, data[off:off+t.recordSize])

		ok, evalErr := expr.EvalPredicate(s.cond, t.schema, rec)

		// Step 5: unpin regardless of the predicate result.
		if err := t.pool.Unpin(h); err != nil {
			return nil, err
		}
		if evalErr != nil {
			return nil, evalErr
		}
		if ok {
			return rec, nil
		}
	}
}

// Close resets the scan's cursor. Scans hold no pinned frames between
// Next calls, so Close has nothing to release; it exists so callers
// can defer a uniform cleanup step.
func (s *Scan) Close() {
	s.page = 1
	s.slot = -1
	s.scanCount = 0
}
