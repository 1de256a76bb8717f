package audioclip

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"
)

// Decoder shells out to ffprobe and ffmpeg to turn a single segment's
// container bytes into a window of signed 16-bit PCM samples.
type Decoder struct {
	ffmpegPath  string
	ffprobePath string
}

// NewDecoder builds a Decoder bound to the configured ffmpeg/ffprobe
// binaries.
func NewDecoder(ffmpegPath, ffprobePath string) *Decoder {
	return &Decoder{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

type probeFormat struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// probe identifies the segment's container/codec and the audio track's
// declared sample rate and channel count, failing with ErrUnsupportedContainer
// or ErrUnsupportedCodec when ffprobe can't find a decodable audio stream.
func (d *Decoder) probe(ctx context.Context, data []byte, hint string) (sampleRate int, channels int, err error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
	}
	if hint != "" {
		args = append(args, "-f", hint)
	}
	args = append(args, "-i", "pipe:0")

	cmd := exec.CommandContext(ctx, d.ffprobePath, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0, 0, fmt.Errorf("%w: ffprobe: %v", ErrUnsupportedContainer, err)
	}

	var result probeFormat
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return 0, 0, fmt.Errorf("%w: parsing ffprobe output: %v", ErrUnsupportedContainer, err)
	}

	for _, s := range result.Streams {
		if s.CodecType != "audio" {
			continue
		}
		rate, err := strconv.Atoi(s.SampleRate)
		if err != nil || rate <= 0 {
			continue
		}
		ch := s.Channels
		if ch <= 0 {
			ch = 1
		}
		return rate, ch, nil
	}
	return 0, 0, fmt.Errorf("%w: no audio stream in segment", ErrUnsupportedCodec)
}

// decodePCM runs ffmpeg to fully decode data into interleaved signed
// 16-bit little-endian samples at the container's native rate and channel
// layout.
func (d *Decoder) decodePCM(ctx context.Context, data []byte, hint string, sampleRate, channels int) ([]int16, error) {
	args := []string{"-v", "error"}
	if hint != "" {
		args = append(args, "-f", hint)
	}
	args = append(args,
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", ErrUnsupportedCodec, err, stderr.String())
	}

	raw := stdout.Bytes()
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return samples, nil
}

// DecodeSegmentWindow decodes a single segment's prepared audio and returns
// only the portion of its samples whose playback time overlaps
// [targetStart, targetEnd). segmentStart anchors the segment in timeline
// time when the segment carries no recovered PTS or ForceSegmentStart is
// set; otherwise the demuxed PES PTS anchors it instead.
//
// Returns a nil DecodedSamples (not an error) when the segment's audio
// doesn't overlap the target window at all, matching the source system's
// per-segment skip-without-failing behavior.
func (d *Decoder) DecodeSegmentWindow(
	ctx context.Context,
	prepared PreparedAudio,
	segmentStart, targetStart, targetEnd time.Duration,
) (*DecodedSamples, error) {
	baseTime := segmentStart
	if prepared.Samples != nil && !prepared.Samples.ForceSegmentStart && prepared.Samples.FirstPTS != nil {
		baseTime = *prepared.Samples.FirstPTS
	}

	var sampleRate, channels int
	var err error
	if prepared.Hint == "aac" {
		sampleRate, channels, err = adtsAudioConfig(prepared.Data)
	}
	if prepared.Hint != "aac" || err != nil {
		sampleRate, channels, err = d.probe(ctx, prepared.Data, prepared.Hint)
	}
	if err != nil {
		return nil, err
	}

	pcm, err := d.decodePCM(ctx, prepared.Data, prepared.Hint, sampleRate, channels)
	if err != nil {
		return nil, err
	}
	frameCount := len(pcm) / channels
	if frameCount == 0 {
		return nil, nil
	}

	rate := float64(sampleRate)
	bufferStart := baseTime.Seconds()
	bufferEnd := bufferStart + float64(frameCount)/rate
	overlapStart := math.Max(targetStart.Seconds(), bufferStart)
	overlapEnd := math.Min(targetEnd.Seconds(), bufferEnd)
	if overlapEnd <= overlapStart {
		return nil, nil
	}

	startFrame := int(math.Max(math.Floor((overlapStart-bufferStart)*rate), 0))
	endFrame := int(math.Max(math.Ceil((overlapEnd-bufferStart)*rate), 0))
	startIndex := startFrame * channels
	endIndex := min(endFrame*channels, frameCount*channels)
	if endIndex <= startIndex {
		return nil, nil
	}

	out := append([]int16(nil), pcm[startIndex:endIndex]...)
	return &DecodedSamples{Samples: out, SampleRate: sampleRate, ChannelCount: channels}, nil
}
