// Package audioclip extracts a sample-accurate PCM16 WAV clip from an HLS
// audio playlist, given a [start, end) window in seconds.
package audioclip

import "time"

// Key describes an EXT-X-KEY attribute set on a playlist or segment. A
// non-empty Keys slice on a segment means it is encrypted.
type Key struct {
	Method string
	URI    string
}

// ByteRange is the raw EXT-X-BYTERANGE attributes for a segment or init map,
// before resolution against the previous range.
type ByteRange struct {
	// Present is false when no EXT-X-BYTERANGE tag applied.
	Present bool
	Length  int64
	// Offset is the explicit "@o" offset; HasOffset reports whether it was given.
	Offset    int64
	HasOffset bool
}

// InitMap is the EXT-X-MAP initialization section reference.
type InitMap struct {
	URI   string
	Range ByteRange
}

// Segment is one entry of a media playlist.
type Segment struct {
	URI       string
	Duration  time.Duration
	ByteRange ByteRange
	Map       *InitMap
	Keys      []Key
}

// Playlist is the ordered sequence of segments resolved from a media
// playlist, plus the absolute URL it was fetched from (used to resolve
// relative segment and map URIs).
type Playlist struct {
	BaseURL  string
	Segments []Segment
}

// ResolvedByteRange is a half-open [Start, End) byte range, End > Start.
type ResolvedByteRange struct {
	Start int64
	End   int64
}

// SegmentSelection is a segment resolved to an absolute URL and byte range,
// annotated with its cumulative start time in the playlist.
type SegmentSelection struct {
	URL       string
	ByteRange *ResolvedByteRange
	StartTime time.Duration
	Map       *ResolvedInitMap
	Encrypted bool
}

// ResolvedInitMap is an InitMap resolved to an absolute URL and byte range.
type ResolvedInitMap struct {
	URL       string
	ByteRange *ResolvedByteRange
}

// PreparedAudio is the demuxed input ready for decoding: either the original
// segment bytes with a container hint, or an ADTS stream extracted from
// MPEG-TS.
type PreparedAudio struct {
	Data    []byte
	Hint    string
	Samples *SegmentTiming
}

// SegmentTiming carries the PTS recovered from a segment's media, if any.
type SegmentTiming struct {
	FirstPTS          *time.Duration
	ForceSegmentStart bool
}

// DecodedSamples is interleaved PCM16 audio.
type DecodedSamples struct {
	Samples      []int16
	SampleRate   int
	ChannelCount int
}
