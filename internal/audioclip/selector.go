package audioclip

import "time"

// MaxSegments bounds how many segments a single clip build will select,
// protecting against pathologically long playlists.
const MaxSegments = 128

// SelectSegments walks playlist in order, tracking cumulative time, and
// returns every segment with seg_end >= start and seg_start <= end; the
// endpoints are inclusive, so a segment ending exactly at start or beginning
// exactly at end is selected too. When the first selected segment isn't the
// playlist's first segment, the immediately preceding segment is prepended too, since
// decoders often need the prior segment's trailing frames to prime MDCT
// overlap and to recover a PTS anchor.
func SelectSegments(playlist Playlist, start, end time.Duration) ([]SegmentSelection, error) {
	var selections []SegmentSelection
	var timeCursor time.Duration
	var lastMap *ResolvedInitMap
	var lastByteRangeEnd *int64
	var previous *SegmentSelection

	for _, seg := range playlist.Segments {
		if seg.Map != nil {
			mapURL, err := resolveURL(playlist.BaseURL, seg.Map.URI)
			if err != nil {
				return nil, err
			}
			var mapRange *ResolvedByteRange
			if seg.Map.Range.Present {
				mapRange = &ResolvedByteRange{Start: seg.Map.Range.Offset, End: seg.Map.Range.Offset + seg.Map.Range.Length}
			}
			lastMap = &ResolvedInitMap{URL: mapURL, ByteRange: mapRange}
		}

		segStart := timeCursor
		segEnd := segStart + seg.Duration

		var byteRange *ResolvedByteRange
		if seg.ByteRange.Present {
			resolved, err := resolveContinuationRange(seg.ByteRange, lastByteRangeEnd)
			if err != nil {
				return nil, err
			}
			byteRange = resolved
			end := resolved.End
			lastByteRangeEnd = &end
		} else {
			lastByteRangeEnd = nil
		}

		segURL, err := resolveURL(playlist.BaseURL, seg.URI)
		if err != nil {
			return nil, err
		}

		selection := SegmentSelection{
			URL:       segURL,
			ByteRange: byteRange,
			StartTime: segStart,
			Map:       lastMap,
			Encrypted: len(seg.Keys) > 0,
		}

		if segEnd >= start && segStart <= end {
			if len(selections) == 0 && previous != nil {
				selections = append(selections, *previous)
			}
			selections = append(selections, selection)
			if len(selections) >= MaxSegments {
				break
			}
		}

		previous = &selection

		timeCursor = segEnd
		if timeCursor > end {
			break
		}
	}

	return selections, nil
}

// resolveContinuationRange resolves an EXT-X-BYTERANGE whose start, when
// omitted, continues from the previous range's end; it resets whenever a
// segment omits a byte range entirely.
func resolveContinuationRange(br ByteRange, lastEnd *int64) (*ResolvedByteRange, error) {
	start := int64(0)
	if br.HasOffset {
		start = br.Offset
	} else if lastEnd != nil {
		start = *lastEnd
	}
	end := start + br.Length
	if end <= start {
		return nil, ErrInvalidRange
	}
	return &ResolvedByteRange{Start: start, End: end}, nil
}
