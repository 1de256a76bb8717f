package audioclip

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/mangatan-tools/mediacore/internal/config"
)

// MaxClipDuration caps how much of a clip a single request can produce,
// matching the upstream player's own clip-sharing limit.
const MaxClipDuration = 30 * time.Second

// ClipRequest names the episode video and the [Start, End) window, in
// seconds, to extract audio from.
type ClipRequest struct {
	AnimeID      int64
	EpisodeIndex int64
	VideoIndex   int64
	Start        float64
	End          float64
}

// Service builds WAV audio clips from an upstream HLS playlist.
type Service struct {
	upstream config.UpstreamConfig
	audio    config.AudioConfig
	decoder  *Decoder
}

// NewService builds a Service bound to the upstream Suwayomi server and the
// audio-clip core's tunables.
func NewService(upstream config.UpstreamConfig, audio config.AudioConfig) *Service {
	return &Service{
		upstream: upstream,
		audio:    audio,
		decoder:  NewDecoder(audio.FFmpegPath, audio.FFprobePath),
	}
}

// NormalizeWindow clamps a raw [start, end) request to the service's
// invariants: both bounds non-negative, duration capped at MaxClipDuration,
// and a non-positive resulting duration reported as invalid input.
func NormalizeWindow(start, end float64) (time.Duration, time.Duration, error) {
	if !math.IsFinite(start) || !math.IsFinite(end) {
		return 0, 0, ErrInvalidInput
	}
	safeStart := math.Max(start, 0)
	safeEnd := math.Max(end, 0)
	duration := math.Min(safeEnd-safeStart, MaxClipDuration.Seconds())
	if duration <= 0 {
		return 0, 0, ErrInvalidInput
	}
	startDur := time.Duration(safeStart * float64(time.Second))
	return startDur, startDur + time.Duration(duration*float64(time.Second)), nil
}

// BuildClip fetches the episode's playlist, selects the segments overlapping
// [start, end), decodes each one's overlapping samples, and concatenates them
// into a single WAV clip.
func (s *Service) BuildClip(ctx context.Context, req ClipRequest, inbound http.Header) ([]byte, error) {
	if req.AnimeID < 0 || req.EpisodeIndex < 0 || req.VideoIndex < 0 {
		return nil, ErrInvalidInput
	}
	start, end, err := NormalizeWindow(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	playlistURL := fmt.Sprintf("%s/api/v1/anime/%d/episode/%d/video/%d/playlist",
		strings.TrimRight(s.upstream.BaseURL, "/"), req.AnimeID, req.EpisodeIndex, req.VideoIndex)

	fetcher := NewFetcher(s.upstream, inbound)

	playlist, err := FetchPlaylist(ctx, fetcher, playlistURL)
	if err != nil {
		return nil, err
	}

	segments, err := SelectSegments(playlist, start, end)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrSegmentSelectionEmpty
	}

	var outputSamples []int16
	var outputRate int
	var outputChannels int
	haveFormat := false

	for _, seg := range segments {
		if seg.Encrypted {
			return nil, NewSegmentError(seg.URL, ErrEncrypted)
		}

		segBytes, err := fetcher.FetchSegmentBytes(ctx, seg)
		if err != nil {
			return nil, NewSegmentError(seg.URL, err)
		}

		prepared := prepareSegmentAudio(segBytes, hintExtensionFromURL(seg.URL))

		decoded, err := s.decoder.DecodeSegmentWindow(ctx, prepared, seg.StartTime, start, end)
		if err != nil {
			return nil, NewSegmentError(seg.URL, err)
		}
		if decoded == nil {
			continue
		}

		if !haveFormat {
			outputRate = decoded.SampleRate
			outputChannels = decoded.ChannelCount
			haveFormat = true
		} else if outputRate != decoded.SampleRate || outputChannels != decoded.ChannelCount {
			return nil, NewSegmentError(seg.URL, ErrFormatMismatch)
		}

		outputSamples = append(outputSamples, decoded.Samples...)
	}

	if !haveFormat || len(outputSamples) == 0 {
		return nil, ErrNoAudioDecoded
	}

	return EncodeWAV(outputSamples, outputRate, outputChannels)
}

// prepareSegmentAudio demuxes MPEG-TS-wrapped segment bytes down to a raw
// ADTS elementary stream when the bytes look like MPEG-TS, falling back to
// passing the bytes through untouched (letting the decoder's own container
// probe take over) otherwise.
func prepareSegmentAudio(data []byte, hintExtension string) PreparedAudio {
	if packetSize := tsPacketSize(data); packetSize != 0 {
		extraction := extractADTSFromTS(data, packetSize)
		if len(extraction.data) > 0 {
			return PreparedAudio{
				Data: extraction.data,
				Hint: "aac",
				Samples: &SegmentTiming{
					FirstPTS:          extraction.firstPTS,
					ForceSegmentStart: extraction.forceSegmentStart,
				},
			}
		}
	}
	return PreparedAudio{Data: data, Hint: hintExtension}
}

// hintExtensionFromURL derives an ffmpeg/ffprobe container hint from the
// segment URL's file extension, normalizing fragmented-MP4 variants (m4s,
// m4a) to "mp4".
func hintExtensionFromURL(rawURL string) string {
	path := rawURL
	if idx := strings.IndexAny(path, "?#"); idx != -1 {
		path = path[:idx]
	}
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		path = path[idx+1:]
	}
	idx := strings.LastIndex(path, ".")
	if idx == -1 || idx == len(path)-1 {
		return ""
	}
	ext := strings.ToLower(path[idx+1:])
	switch ext {
	case "m4s", "m4a", "mp4":
		return "mp4"
	default:
		return ext
	}
}
