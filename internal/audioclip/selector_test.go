package audioclip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segs(durations ...float64) []Segment {
	out := make([]Segment, len(durations))
	for i, d := range durations {
		out[i] = Segment{URI: "seg.ts", Duration: time.Duration(d * float64(time.Second))}
	}
	return out
}

func TestSelectSegments_PrependsPrecedingSegment(t *testing.T) {
	playlist := Playlist{BaseURL: "https://cdn.example/media.m3u8", Segments: segs(4, 4, 4, 4)}

	selections, err := SelectSegments(playlist, 5*time.Second, 7*time.Second)
	require.NoError(t, err)

	// window [5,7) overlaps only segment 1 ([4,8)), but since segment 1 isn't
	// the playlist's first segment, segment 0 ([0,4)) is prepended.
	require.Len(t, selections, 2)
	assert.Equal(t, time.Duration(0), selections[0].StartTime)
	assert.Equal(t, 4*time.Second, selections[1].StartTime)
}

func TestSelectSegments_NoPrependOnFirstSegment(t *testing.T) {
	playlist := Playlist{BaseURL: "https://cdn.example/media.m3u8", Segments: segs(4, 4, 4)}

	selections, err := SelectSegments(playlist, 0, 2*time.Second)
	require.NoError(t, err)
	require.Len(t, selections, 1)
	assert.Equal(t, time.Duration(0), selections[0].StartTime)
}

func TestSelectSegments_EmptyWhenWindowOutsidePlaylist(t *testing.T) {
	playlist := Playlist{BaseURL: "https://cdn.example/media.m3u8", Segments: segs(4, 4)}

	selections, err := SelectSegments(playlist, 100*time.Second, 110*time.Second)
	require.NoError(t, err)
	assert.Empty(t, selections)
}

func TestSelectSegments_CapsAtMaxSegments(t *testing.T) {
	durations := make([]float64, MaxSegments+10)
	for i := range durations {
		durations[i] = 1
	}
	playlist := Playlist{BaseURL: "https://cdn.example/media.m3u8", Segments: segs(durations...)}

	selections, err := SelectSegments(playlist, 0, time.Duration(len(durations))*time.Second)
	require.NoError(t, err)
	assert.Len(t, selections, MaxSegments)
}

func TestResolveContinuationRange_ExplicitOffset(t *testing.T) {
	r, err := resolveContinuationRange(ByteRange{Present: true, Length: 100, Offset: 50, HasOffset: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(50), r.Start)
	assert.Equal(t, int64(150), r.End)
}

func TestResolveContinuationRange_ContinuesFromLastEnd(t *testing.T) {
	lastEnd := int64(150)
	r, err := resolveContinuationRange(ByteRange{Present: true, Length: 100, HasOffset: false}, &lastEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(150), r.Start)
	assert.Equal(t, int64(250), r.End)
}

func TestResolveContinuationRange_NoPriorRangeDefaultsToZero(t *testing.T) {
	r, err := resolveContinuationRange(ByteRange{Present: true, Length: 100, HasOffset: false}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.Start)
	assert.Equal(t, int64(100), r.End)
}

func TestResolveContinuationRange_ZeroLengthIsInvalid(t *testing.T) {
	_, err := resolveContinuationRange(ByteRange{Present: true, Length: 0, HasOffset: true, Offset: 10}, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
