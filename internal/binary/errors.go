package binary

import (
	"fmt"
)

// NetworkError is a transport failure while talking to the artifact host.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DownloadFailedError is returned when the final response is not 200 OK.
type DownloadFailedError struct {
	StatusCode int
	URL        string
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("download failed: %s returned HTTP %d", e.URL, e.StatusCode)
}

// ExtractionFailedError is returned when an archive cannot be unpacked.
type ExtractionFailedError struct {
	Message string
	Err     error
}

func (e *ExtractionFailedError) Error() string {
	if e.Err == nil {
		return "extraction failed: " + e.Message
	}
	return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Err
}

// BinaryNotFoundError means the archive did not contain the expected binary.
type BinaryNotFoundError struct {
	Path string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("binary not found at %s after extraction", e.Path)
}

// PermissionError wraps the OS error from marking the binary executable.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("set executable permission on %s: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}
