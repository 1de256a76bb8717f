package audioclip

import (
	"errors"
	"fmt"
)

// Sentinel errors for clip-build failures. Every one of these collapses to a
// single 500 at the HTTP boundary after logging (InvalidInput collapses to
// 400 instead).
var (
	// ErrInvalidInput indicates malformed ids, a non-finite time bound, or an
	// empty [start, end) window.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPlaylistUnresolvable indicates no media playlist could be extracted
	// from the fetched text, directly or via a master playlist variant.
	ErrPlaylistUnresolvable = errors.New("playlist unresolvable")

	// ErrSegmentSelectionEmpty indicates the requested window falls entirely
	// outside the playlist's covered time range.
	ErrSegmentSelectionEmpty = errors.New("segment selection empty")

	// ErrEncrypted indicates a selected segment carries EXT-X-KEY attributes.
	ErrEncrypted = errors.New("segment is encrypted")

	// ErrFetchFailed indicates a non-2xx HTTP response or transport error.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidRange indicates a byte range with end <= start.
	ErrInvalidRange = errors.New("invalid byte range")

	// ErrUnsupportedContainer indicates the probe could not identify a
	// decodable container in the segment bytes.
	ErrUnsupportedContainer = errors.New("unsupported container")

	// ErrUnsupportedCodec indicates ffprobe found no audio stream with a
	// usable sample rate, or ffmpeg failed to decode the segment's audio.
	ErrUnsupportedCodec = errors.New("unsupported codec")

	// ErrFormatChanged indicates sample rate or channel count changed
	// between frames within a single segment.
	ErrFormatChanged = errors.New("audio format changed within segment")

	// ErrFormatMismatch indicates sample rate or channel count changed
	// across segment boundaries.
	ErrFormatMismatch = errors.New("audio format mismatch across segments")

	// ErrNoAudioDecoded indicates decoding produced zero samples overall.
	ErrNoAudioDecoded = errors.New("no audio decoded")

	// ErrClipTooLarge indicates the WAV data chunk would exceed 2^32-1 bytes.
	ErrClipTooLarge = errors.New("clip too large")

	// ErrDecodeTaskFailed names a failed segment decode task. BuildClip
	// decodes each segment inline and never returns it.
	ErrDecodeTaskFailed = errors.New("decode task failed")
)

// SegmentError wraps an error with the segment URL that produced it, so
// build-failure logs can point at the offending fetch or decode.
type SegmentError struct {
	URL string
	Err error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %s: %v", e.URL, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

// NewSegmentError wraps err with the segment URL it occurred on.
func NewSegmentError(url string, err error) *SegmentError {
	return &SegmentError{URL: url, Err: err}
}
