// Package pagefile implements the fixed-size paged-file abstraction: a
// file on disk divided into PageSize blocks, numbered from zero, with
// positioned reads/writes and append-only growth.
package pagefile

import (
	"fmt"
	"io"
	"os"
)

// PageSize is fixed at build time, matching the reference kernel's 4096
// byte page.
const PageSize = 4096

// File is a handle to an open paged file. The zero value is not usable;
// obtain one via Create or Open.
type File struct {
	path     string
	f        *os.File
	numPages int
	curPage  int
}

// Create makes a new paged file at path containing exactly one zero-filled
// page, then leaves it open.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o664)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	buf := make([]byte, PageSize)
	if _, err := f.WriteAt(buf, 0); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	return &File{path: path, f: f, numPages: 1, curPage: 0}, nil
}

// Open opens an existing paged file for read/write. The total page count
// is computed as ceil(fileSize / PageSize); the cursor starts at page 0.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o664)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	numPages := int((info.Size() + PageSize - 1) / PageSize)
	return &File{path: path, f: f, numPages: numPages, curPage: 0}, nil
}

// Close releases the underlying OS file handle.
func (pf *File) Close() error {
	if pf == nil || pf.f == nil {
		return ErrHandleUninit
	}
	err := pf.f.Close()
	pf.f = nil
	return err
}

// Destroy removes the file at path. It does not close any File handle
// that is still open on it.
func Destroy(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	return nil
}

// NumPages returns the file's current total page count.
func (pf *File) NumPages() int {
	return pf.numPages
}

// ReadBlock fills buf (must be len PageSize) from page n. Updates the
// cursor to n on success.
func (pf *File) ReadBlock(n int, buf []byte) error {
	if pf == nil || pf.f == nil {
		return ErrHandleUninit
	}
	if n < 0 || n >= pf.numPages {
		return ErrReadNonExistingPage
	}
	if len(buf) != PageSize {
		return fmt.Errorf("%w: buffer must be %d bytes, got %d", ErrReadNonExistingPage, PageSize, len(buf))
	}
	off := int64(n) * PageSize
	if _, err := io.ReadFull(io.NewSectionReader(pf.f, off, PageSize), buf); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrReadNonExistingPage, n, err)
	}
	pf.curPage = n
	return nil
}

// WriteBlock writes buf (must be len PageSize) to page n. Fails if n is
// negative or beyond the current page count: writes never implicitly
// extend the file. Updates the cursor to n on success.
func (pf *File) WriteBlock(n int, buf []byte) error {
	if pf == nil || pf.f == nil {
		return ErrHandleUninit
	}
	if n < 0 || n >= pf.numPages {
		return ErrWriteFailed
	}
	if len(buf) != PageSize {
		return fmt.Errorf("%w: buffer must be %d bytes, got %d", ErrWriteFailed, PageSize, len(buf))
	}
	off := int64(n) * PageSize
	if _, err := pf.f.WriteAt(buf, off); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrWriteFailed, n, err)
	}
	pf.curPage = n
	return nil
}

// AppendEmptyBlock appends one zero-filled page, incrementing the total
// page count.
func (pf *File) AppendEmptyBlock() error {
	if pf == nil || pf.f == nil {
		return ErrHandleUninit
	}
	buf := make([]byte, PageSize)
	off := int64(pf.numPages) * PageSize
	if _, err := pf.f.WriteAt(buf, off); err != nil {
		return fmt.Errorf("%w: append page %d: %v", ErrWriteFailed, pf.numPages, err)
	}
	pf.numPages++
	return nil
}

// EnsureCapacity appends empty pages until the total page count is >= k.
func (pf *File) EnsureCapacity(k int) error {
	if pf == nil || pf.f == nil {
		return ErrHandleUninit
	}
	for pf.numPages < k {
		if err := pf.AppendEmptyBlock(); err != nil {
			return err
		}
	}
	return nil
}

// ReadFirst reads page 0.
func (pf *File) ReadFirst(buf []byte) error { return pf.ReadBlock(0, buf) }

// ReadLast reads the last page of the file.
func (pf *File) ReadLast(buf []byte) error { return pf.ReadBlock(pf.numPages-1, buf) }

// ReadCurrent re-reads the page the cursor currently points at.
func (pf *File) ReadCurrent(buf []byte) error { return pf.ReadBlock(pf.curPage, buf) }

// ReadNext reads the page after the cursor.
func (pf *File) ReadNext(buf []byte) error { return pf.ReadBlock(pf.curPage+1, buf) }

// ReadPrev reads the page before the cursor.
func (pf *File) ReadPrev(buf []byte) error { return pf.ReadBlock(pf.curPage-1, buf) }

// CurPage returns the cursor's current page number.
func (pf *File) CurPage() int { return pf.curPage }
