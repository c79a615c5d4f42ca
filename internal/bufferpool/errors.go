package bufferpool

import "errors"

var (
	// ErrFileNotFound is returned by Init when the backing paged file does
	// not exist.
	ErrFileNotFound = errors.New("bufferpool: file not found")

	// ErrOutOfMemory is returned by Init when numFrames is not positive,
	// so no frame array can be allocated.
	ErrOutOfMemory = errors.New("bufferpool: out of memory")

	// ErrPinnedPages is returned by Shutdown when some frame still has a
	// non-zero pin count.
	ErrPinnedPages = errors.New("bufferpool: pinned pages remain")

	// ErrNoAvailableFrame is returned by Pin when every frame is pinned and
	// none is eligible for eviction.
	ErrNoAvailableFrame = errors.New("bufferpool: no available frame")

	// ErrReadNonExistingPage is returned by Pin for a negative page number,
	// and by MarkDirty/Unpin/ForcePage when the handle no longer names a
	// cached page.
	ErrReadNonExistingPage = errors.New("bufferpool: read of non-existing page")

	// ErrWriteFailed wraps an underlying write-back failure.
	ErrWriteFailed = errors.New("bufferpool: write failed")

	// ErrInvalidPolicy is returned by Init for an unrecognized policy name.
	ErrInvalidPolicy = errors.New("bufferpool: invalid replacement policy")
)
