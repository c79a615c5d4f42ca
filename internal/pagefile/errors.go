package pagefile

import "errors"

var (
	// ErrFileNotFound is returned when Open or Create cannot reach path.
	ErrFileNotFound = errors.New("pagefile: file not found")

	// ErrHandleUninit is returned when an operation is attempted on a File
	// that was never successfully opened/created.
	ErrHandleUninit = errors.New("pagefile: handle not initialized")

	// ErrReadNonExistingPage is returned when readBlock addresses a page
	// outside the file's current extent.
	ErrReadNonExistingPage = errors.New("pagefile: read of non-existing page")

	// ErrWriteFailed is returned when writeBlock targets a page outside the
	// current extent, or the underlying positioned write fails.
	ErrWriteFailed = errors.New("pagefile: write failed")
)
