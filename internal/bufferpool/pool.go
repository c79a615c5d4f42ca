// Package bufferpool caches fixed-size pages of a single paged file in
// memory, under a configurable replacement policy, and is responsible for
// the pin/unpin/dirty discipline that ties in-memory frames to disk.
package bufferpool

import (
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/relcore/relcore/internal/pagefile"
)

var logDebugPrefix = "bufferpool: "

// Handle names a live frame returned by Pin. It carries the page number
// alongside the frame index so a stale handle (one whose frame has since
// been recycled for a different page) is detected rather than silently
// read through.
type Handle struct {
	idx     int
	pageNum int
}

// PageNum is the page number this handle was pinned for.
func (h Handle) PageNum() int { return h.pageNum }

// Pool is a fixed-size buffer pool bound to one paged file.
type Pool struct {
	file *pagefile.File
	path string

	frames    []Frame
	pageIndex map[int]int

	policy Policy
	rep    replacer

	fifoCursor int
	lruCounter int
	lfuHand    int
	clockHand  int

	readIO  int
	writeIO int
}

// Init allocates the frame array, opens the backing paged file, and
// records the replacement policy.
func Init(path string, numFrames int, policy Policy) (*Pool, error) {
	if numFrames <= 0 {
		return nil, fmt.Errorf("%w: numFrames must be positive", ErrOutOfMemory)
	}

	f, err := pagefile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}

	rep, err := newReplacer(policy)
	if err != nil {
		f.Close()
		return nil, err
	}

	frames := make([]Frame, numFrames)
	for i := range frames {
		frames[i].PageNum = EmptyPageNum
	}

	return &Pool{
		file:      f,
		path:      path,
		frames:    frames,
		pageIndex: make(map[int]int, numFrames),
		policy:    policy,
		rep:       rep,
	}, nil
}

// Shutdown flushes all dirty frames and closes the pool. It fails with
// ErrPinnedPages if any frame has a non-zero pin count; the pool remains
// usable in that case.
func (p *Pool) Shutdown() error {
	for i := range p.frames {
		if p.frames[i].Pin > 0 {
			return ErrPinnedPages
		}
	}

	firstErr := p.ForceFlush()

	if err := p.file.Close(); err != nil {
		slog.Warn(logDebugPrefix+"shutdown: closing paged file failed", "path", p.path, "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	p.frames = nil
	p.pageIndex = make(map[int]int)
	return firstErr
}

// ForceFlush writes back every frame with pin count 0 and dirty bit true,
// clearing their dirty bits. A write failure on one frame does not stop
// the remaining frames from being attempted; the first error is returned.
func (p *Pool) ForceFlush() error {
	var combined error

	for i := range p.frames {
		f := &p.frames[i]
		if f.Pin != 0 || !f.Dirty || f.isEmpty() {
			continue
		}
		if err := p.file.WriteBlock(f.PageNum, f.Data); err != nil {
			slog.Warn(logDebugPrefix+"forceFlush: write failed", "page", f.PageNum, "err", err)
			combined = multierr.Append(combined, fmt.Errorf("%w: page %d: %v", ErrWriteFailed, f.PageNum, err))
			continue
		}
		f.Dirty = false
		p.writeIO++
	}

	if combined == nil {
		return nil
	}
	return multierr.Errors(combined)[0]
}

// Pin loads pageNum into a frame (or reuses the frame already caching it)
// and increments the frame's pin count. On a miss it takes an empty frame
// if there is one, otherwise a victim chosen by the replacement policy
// (writing it back first if dirty), extends the file if pageNum lies past
// its end, and reads the page in.
func (p *Pool) Pin(pageNum int) (Handle, error) {
	if pageNum < 0 {
		return Handle{}, ErrReadNonExistingPage
	}

	if idx, ok := p.pageIndex[pageNum]; ok {
		f := &p.frames[idx]
		f.Pin++
		p.rep.touchOnHit(p, idx)
		slog.Debug(logDebugPrefix+"pin hit", "page", pageNum, "frame", idx, "pin", f.Pin)
		return Handle{idx: idx, pageNum: pageNum}, nil
	}

	freeIdx := -1
	for i := range p.frames {
		if p.frames[i].isEmpty() {
			freeIdx = i
			break
		}
	}

	victimIdx := freeIdx
	if victimIdx == -1 {
		vi, err := p.rep.pickVictim(p)
		if err != nil {
			return Handle{}, err
		}
		victimIdx = vi

		victim := &p.frames[victimIdx]
		if victim.Dirty {
			if err := p.file.WriteBlock(victim.PageNum, victim.Data); err != nil {
				return Handle{}, fmt.Errorf("%w: %v", ErrWriteFailed, err)
			}
			p.writeIO++
			victim.Dirty = false
		}
		delete(p.pageIndex, victim.PageNum)
		slog.Debug(logDebugPrefix+"selected victim", "frame", victimIdx, "oldPage", victim.PageNum)
	}

	if pageNum >= p.file.NumPages() {
		if err := p.file.EnsureCapacity(pageNum + 1); err != nil {
			return Handle{}, err
		}
	}

	f := &p.frames[victimIdx]
	if f.Data == nil {
		f.Data = make([]byte, pagefile.PageSize)
	}
	if err := p.file.ReadBlock(pageNum, f.Data); err != nil {
		f.PageNum = EmptyPageNum
		return Handle{}, err
	}
	p.readIO++

	f.PageNum = pageNum
	f.Pin = 1
	f.Dirty = false
	p.rep.touchOnLoad(p, victimIdx)
	p.pageIndex[pageNum] = victimIdx

	slog.Debug(logDebugPrefix+"pin miss loaded", "page", pageNum, "frame", victimIdx)
	return Handle{idx: victimIdx, pageNum: pageNum}, nil
}

// Unpin decrements the pin count of the frame named by h. It is a no-op
// if the count is already zero.
func (p *Pool) Unpin(h Handle) error {
	f, err := p.resolve(h)
	if err != nil {
		return err
	}
	if f.Pin > 0 {
		f.Pin--
	}
	return nil
}

// MarkDirty sets the dirty bit of the frame named by h.
func (p *Pool) MarkDirty(h Handle) error {
	f, err := p.resolve(h)
	if err != nil {
		return err
	}
	f.Dirty = true
	return nil
}

// ForcePage writes the frame named by h to disk immediately and clears
// its dirty bit. It does not change the pin count.
func (p *Pool) ForcePage(h Handle) error {
	f, err := p.resolve(h)
	if err != nil {
		return err
	}
	if err := p.file.WriteBlock(f.PageNum, f.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	p.writeIO++
	f.Dirty = false
	return nil
}

// FrameData returns the frame's page buffer so the record layer can read
// or write slot bytes directly. The caller must call MarkDirty after any
// write.
func (p *Pool) FrameData(h Handle) ([]byte, error) {
	f, err := p.resolve(h)
	if err != nil {
		return nil, err
	}
	return f.Data, nil
}

func (p *Pool) resolve(h Handle) (*Frame, error) {
	if h.idx < 0 || h.idx >= len(p.frames) {
		return nil, ErrReadNonExistingPage
	}
	f := &p.frames[h.idx]
	if f.PageNum != h.pageNum {
		return nil, ErrReadNonExistingPage
	}
	return f, nil
}

// ---- Inspection (for tests) ----

// FrameContents returns the page number held by each frame, in frame
// index order (EmptyPageNum for an empty frame).
func (p *Pool) FrameContents() []int {
	out := make([]int, len(p.frames))
	for i := range p.frames {
		out[i] = p.frames[i].PageNum
	}
	return out
}

// DirtyFlags returns the dirty bit of each frame, in frame index order.
func (p *Pool) DirtyFlags() []bool {
	out := make([]bool, len(p.frames))
	for i := range p.frames {
		out[i] = p.frames[i].Dirty
	}
	return out
}

// FixCounts returns the pin count of each frame, in frame index order.
func (p *Pool) FixCounts() []int {
	out := make([]int, len(p.frames))
	for i := range p.frames {
		out[i] = p.frames[i].Pin
	}
	return out
}

// NumReadIO returns the cumulative count of disk-to-frame transfers.
func (p *Pool) NumReadIO() int { return p.readIO }

// NumWriteIO returns the cumulative count of frame-to-disk transfers.
func (p *Pool) NumWriteIO() int { return p.writeIO }

// NumFrames returns the pool's fixed frame-array size.
func (p *Pool) NumFrames() int { return len(p.frames) }

// FileNumPages returns the current page count of the backing paged
// file, so callers (e.g. the table layer's scan) can detect the end
// of the file without pinning past it.
func (p *Pool) FileNumPages() int { return p.file.NumPages() }
