// Package table implements the record-manager handle: table
// create/open/close/delete and per-record insert/get/update/delete,
// built on the buffer pool and the record package's tombstone layout.
package table

import (
	"log/slog"

	"go.uber.org/atomic"

	"github.com/relcore/relcore/internal/bufferpool"
	"github.com/relcore/relcore/internal/pagefile"
	"github.com/relcore/relcore/internal/record"
)

var logDebugPrefix = "table: "

const tombstoneByteLive = byte(1)

// Table is an open handle on one table file: its buffer pool, its
// immutable schema, and the two catalog counters mirrored from page 0
// at open time.
//
// tupleCount and firstFreePage are in-memory only after open; per the
// record layout's design, they are not written back to page 0 on
// mutation (see DESIGN.md). A reopened table's counters reflect the
// catalog as of the last Create, not the most recent mutation.
type Table struct {
	pool   *bufferpool.Pool
	schema *record.Schema

	recordSize   int
	slotsPerPage int

	tupleCount    int
	firstFreePage int

	closed atomic.Bool
}

// Create makes a new table file at path with the given schema and
// writes its page-0 catalog. The file is left with a single page
// (page 0); data pages are appended lazily by Insert.
func Create(path string, schema *record.Schema) error {
	pf, err := pagefile.Create(path)
	if err != nil {
		return err
	}
	defer pf.Close()

	buf, err := record.EncodeCatalog(record.Catalog{
		Schema:        schema,
		TupleCount:    0,
		FirstFreePage: 1,
	}, pagefile.PageSize)
	if err != nil {
		return err
	}

	return pf.WriteBlock(0, buf)
}

// Delete destroys the table file at path.
func Delete(path string) error {
	return pagefile.Destroy(path)
}

// Open pins page 0, deserializes the catalog into an in-memory
// schema, and returns a Table backed by a fresh buffer pool of
// numFrames frames under policy.
func Open(path string, numFrames int, policy bufferpool.Policy) (*Table, error) {
	pool, err := bufferpool.Init(path, numFrames, policy)
	if err != nil {
		return nil, err
	}

	h, err := pool.Pin(0)
	if err != nil {
		pool.Shutdown()
		return nil, err
	}
	data, err := pool.FrameData(h)
	if err != nil {
		pool.Unpin(h)
		pool.Shutdown()
		return nil, err
	}
	cat, err := record.DecodeCatalog(data)
	if err != nil {
		pool.Unpin(h)
		pool.Shutdown()
		return nil, err
	}
	if err := pool.Unpin(h); err != nil {
		pool.Shutdown()
		return nil, err
	}

	t := &Table{
		pool:          pool,
		schema:        cat.Schema,
		recordSize:    cat.Schema.RecordSize(),
		slotsPerPage:  pagefile.PageSize / cat.Schema.RecordSize(),
		tupleCount:    cat.TupleCount,
		firstFreePage: cat.FirstFreePage,
	}
	slog.Debug(logDebugPrefix+"opened", "path", path, "numAttr", len(cat.Schema.Attrs), "tupleCount", cat.TupleCount)
	return t, nil
}

// Close flushes the buffer pool and marks the table unusable. It
// fails with bufferpool.ErrPinnedPages if any frame is still pinned.
func (t *Table) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	return t.pool.Shutdown()
}

// Schema returns the table's immutable schema.
func (t *Table) Schema() *record.Schema { return t.schema }

// Stat returns the in-memory tuple count and firstFreePage hint.
func (t *Table) Stat() (tupleCount, firstFreePage int) {
	return t.tupleCount, t.firstFreePage
}

// PoolStats returns the underlying buffer pool's cumulative read and
// write I/O counts, for callers that want to report cache efficiency.
func (t *Table) PoolStats() (readIO, writeIO int) {
	return t.pool.NumReadIO(), t.pool.NumWriteIO()
}

func (t *Table) checkOpen() error {
	if t.closed.Load() {
		return ErrTableClosed
	}
	return nil
}

func (t *Table) slotOffset(slot int) int { return slot * t.recordSize }

// findFreeSlot scans pageData for a slot whose tombstone byte is not
// live. It returns -1 if the page is full.
func (t *Table) findFreeSlot(pageData []byte) int {
	for slot := 0; slot < t.slotsPerPage; slot++ {
		if pageData[t.slotOffset(slot)] != tombstoneByteLive {
			return slot
		}
	}
	return -1
}

// Insert finds a free slot starting from the firstFreePage hint,
// writes rec's bytes there, and assigns the resulting RID onto rec.
func (t *Table) Insert(rec *record.Record) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if len(rec.Data) != t.recordSize {
		return ErrRecordSizeMismatch
	}

	page := t.firstFreePage
	if page < 1 {
		page = 1
	}

	for {
		h, err := t.pool.Pin(page)
		if err != nil {
			return err
		}
		data, err := t.pool.FrameData(h)
		if err != nil {
			t.pool.Unpin(h)
			return err
		}

		slot := t.findFreeSlot(data)
		if slot == -1 {
			if err := t.pool.Unpin(h); err != nil {
				return err
			}
			page++
			continue
		}

		off := t.slotOffset(slot)
		copy(data[off:off+t.recordSize], rec.Data)
		if err := t.pool.MarkDirty(h); err != nil {
			t.pool.Unpin(h)
			return err
		}
		if err := t.pool.Unpin(h); err != nil {
			return err
		}

		rec.ID = record.RID{Page: page, Slot: slot}
		t.tupleCount++
		t.firstFreePage = page
		slog.Debug(logDebugPrefix+"inserted", "rid", rec.ID)
		return nil
	}
}

// Get reads the live record at rid. It fails with
// ErrNoTupleWithGivenRid if the slot's tombstone is not live.
func (t *Table) Get(rid record.RID) (*record.Record, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	h, err := t.pool.Pin(rid.Page)
	if err != nil {
		return nil, err
	}
	defer t.pool.Unpin(h)

	data, err := t.pool.FrameData(h)
	if err != nil {
		return nil, err
	}

	off := t.slotOffset(rid.Slot)
	if off+t.recordSize > len(data) || data[off] != tombstoneByteLive {
		return nil, ErrNoTupleWithGivenRid
	}

	out := &record.Record{ID: rid, Data: make([]byte, t.recordSize)}
	copy(out.Data, data[off:off+t.recordSize])
	return out, nil
}

// Update overwrites the slot named by rec.ID with rec's bytes,
// re-marking the tombstone live.
func (t *Table) Update(rec *record.Record) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if len(rec.Data) != t.recordSize {
		return ErrRecordSizeMismatch
	}

	h, err := t.pool.Pin(rec.ID.Page)
	if err != nil {
		return err
	}
	defer t.pool.Unpin(h)

	data, err := t.pool.FrameData(h)
	if err != nil {
		return err
	}

	off := t.slotOffset(rec.ID.Slot)
	copy(data[off:off+t.recordSize], rec.Data)
	data[off] = tombstoneByteLive
	return t.pool.MarkDirty(h)
}

// Delete clears the tombstone on rid's slot and records its page as
// the new firstFreePage hint.
func (t *Table) Delete(rid record.RID) error {
	if err := t.checkOpen(); err != nil {
		return err
	}

	h, err := t.pool.Pin(rid.Page)
	if err != nil {
		return err
	}
	defer t.pool.Unpin(h)

	data, err := t.pool.FrameData(h)
	if err != nil {
		return err
	}

	off := t.slotOffset(rid.Slot)
	if data[off] == tombstoneByteLive {
		data[off] = 0
		if err := t.pool.MarkDirty(h); err != nil {
			return err
		}
	}

	t.firstFreePage = rid.Page
	return nil
}

// lastDataPage returns the highest page number currently backing the
// table file, per the pool's file handle.
func (t *Table) lastDataPage() int {
	return t.pool.FileNumPages() - 1
}
