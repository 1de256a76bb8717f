package audioclip

import (
	"fmt"
	"time"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"
)

// tsPacketSize detects the MPEG-TS packet stride: 188 bytes for a bare
// transport stream, or 192 when a 4-byte timecode prefixes every packet.
// Returns 0 when data doesn't look like TS at all.
func tsPacketSize(data []byte) int {
	if len(data) >= 188 && len(data)%188 == 0 {
		allSynced := true
		for i := 0; i < len(data); i += 188 {
			if data[i] != 0x47 {
				allSynced = false
				break
			}
		}
		if allSynced {
			return 188
		}
	}
	if len(data) >= 192 && len(data)%192 == 0 {
		allSynced := true
		for i := 0; i < len(data); i += 192 {
			if data[i+4] != 0x47 {
				allSynced = false
				break
			}
		}
		if allSynced {
			return 192
		}
	}
	return 0
}

// adtsExtraction is the TS demuxer's result: an ADTS elementary stream plus
// whatever PTS information could be recovered from the PES layer.
type adtsExtraction struct {
	data              []byte
	firstPTS          *time.Duration
	forceSegmentStart bool
}

type pesPayload struct {
	pts  *uint64
	data []byte
}

// extractADTSFromTS runs the two-pass PAT/PMT/PES walk described by the
// demuxer: pass one locates the audio PID via PAT then PMT, pass two
// reassembles PES packets on that PID and scans the result for ADTS frames.
func extractADTSFromTS(data []byte, packetSize int) adtsExtraction {
	syncOffset := 0
	if packetSize == 192 {
		syncOffset = 4
	}

	var pmtPID, audioPID *uint16

	for start := 0; start+packetSize <= len(data); start += packetSize {
		packet := data[start : start+packetSize]
		if len(packet) < syncOffset+188 {
			continue
		}
		if packet[syncOffset] != 0x47 {
			continue
		}
		b1 := packet[syncOffset+1]
		pusi := b1&0x40 != 0
		pid := uint16(b1&0x1f)<<8 | uint16(packet[syncOffset+2])
		b3 := packet[syncOffset+3]
		adaptation := (b3 & 0x30) >> 4
		if adaptation == 0 || adaptation == 2 {
			continue
		}
		payloadStart := syncOffset + 4
		if adaptation == 3 {
			if payloadStart >= len(packet) {
				continue
			}
			adaptLen := int(packet[payloadStart])
			payloadStart += 1 + adaptLen
		}
		if payloadStart >= syncOffset+188 {
			continue
		}
		payload := packet[payloadStart : syncOffset+188]

		if pid == 0 {
			parsePAT(payload, pusi, &pmtPID)
		} else if pmtPID != nil && pid == *pmtPID {
			parsePMT(payload, pusi, &audioPID)
		}
	}

	var pesPayloads []pesPayload
	var currentPES *pesPayload
	forceSegmentStart := false

	for start := 0; start+packetSize <= len(data); start += packetSize {
		packet := data[start : start+packetSize]
		if len(packet) < syncOffset+188 {
			continue
		}
		if packet[syncOffset] != 0x47 {
			continue
		}
		b1 := packet[syncOffset+1]
		pusi := b1&0x40 != 0
		pid := uint16(b1&0x1f)<<8 | uint16(packet[syncOffset+2])
		b3 := packet[syncOffset+3]
		adaptation := (b3 & 0x30) >> 4
		if adaptation == 0 || adaptation == 2 {
			continue
		}
		payloadStart := syncOffset + 4
		if adaptation == 3 {
			if payloadStart >= len(packet) {
				continue
			}
			adaptLen := int(packet[payloadStart])
			payloadStart += 1 + adaptLen
		}
		if payloadStart >= syncOffset+188 {
			continue
		}
		payload := packet[payloadStart : syncOffset+188]

		if audioPID == nil || pid != *audioPID {
			continue
		}

		switch {
		case pusi:
			if currentPES != nil {
				pesPayloads = append(pesPayloads, *currentPES)
			}
			if pts, dataStart, ok := parsePESHeader(payload); ok {
				var buf []byte
				if dataStart < len(payload) {
					buf = append(buf, payload[dataStart:]...)
				}
				currentPES = &pesPayload{pts: pts, data: buf}
			} else {
				currentPES = &pesPayload{data: append([]byte(nil), payload...)}
			}
		case currentPES != nil:
			currentPES.data = append(currentPES.data, payload...)
		default:
			forceSegmentStart = true
			currentPES = &pesPayload{data: append([]byte(nil), payload...)}
		}
	}
	if currentPES != nil {
		pesPayloads = append(pesPayloads, *currentPES)
	}

	var firstPTSRaw *uint64
	var payloads []byte
	for _, pes := range pesPayloads {
		if firstPTSRaw == nil && !forceSegmentStart {
			firstPTSRaw = pes.pts
		}
		payloads = append(payloads, pes.data...)
	}

	adtsStream := extractADTSFrames(payloads)
	if len(adtsStream) == 0 {
		adtsStream = extractADTSFrames(data)
	}

	var firstPTS *time.Duration
	if firstPTSRaw != nil {
		seconds := float64(*firstPTSRaw) / 90000.0
		d := time.Duration(seconds * float64(time.Second))
		firstPTS = &d
	}

	return adtsExtraction{data: adtsStream, firstPTS: firstPTS, forceSegmentStart: forceSegmentStart}
}

// parsePAT scans a PAT section for the first non-zero program number and
// records its PMT PID.
func parsePAT(payload []byte, pusi bool, pmtPID **uint16) {
	idx := 0
	if pusi {
		if len(payload) == 0 {
			return
		}
		pointer := int(payload[0])
		idx = 1 + pointer
		if idx >= len(payload) {
			return
		}
	}
	if len(payload) < idx+8 || payload[idx] != 0x00 {
		return
	}
	sectionLength := int(payload[idx+1]&0x0f)<<8 | int(payload[idx+2])
	sectionEnd := idx + 3 + sectionLength
	if sectionEnd > len(payload) {
		return
	}
	i := idx + 8
	for i+4 <= sectionEnd-4 {
		programNumber := uint16(payload[i])<<8 | uint16(payload[i+1])
		pid := uint16(payload[i+2]&0x1f)<<8 | uint16(payload[i+3])
		if programNumber != 0 {
			v := pid
			*pmtPID = &v
			return
		}
		i += 4
	}
}

// parsePMT walks PMT elementary-stream descriptors for the first ADTS
// (0x0f) or LATM (0x11) audio PID.
func parsePMT(payload []byte, pusi bool, audioPID **uint16) {
	idx := 0
	if pusi {
		if len(payload) == 0 {
			return
		}
		pointer := int(payload[0])
		idx = 1 + pointer
		if idx >= len(payload) {
			return
		}
	}
	if len(payload) < idx+12 || payload[idx] != 0x02 {
		return
	}
	sectionLength := int(payload[idx+1]&0x0f)<<8 | int(payload[idx+2])
	sectionEnd := idx + 3 + sectionLength
	if sectionEnd > len(payload) {
		return
	}
	programInfoLength := int(payload[idx+10]&0x0f)<<8 | int(payload[idx+11])
	i := idx + 12 + programInfoLength
	for i+5 <= sectionEnd-4 {
		streamType := payload[i]
		pid := uint16(payload[i+1]&0x1f)<<8 | uint16(payload[i+2])
		esInfoLength := int(payload[i+3]&0x0f)<<8 | int(payload[i+4])
		if streamType == 0x0f || streamType == 0x11 {
			v := pid
			*audioPID = &v
			return
		}
		i += 5 + esInfoLength
	}
}

// parsePESHeader validates the PES start code, decodes a 33-bit PTS when
// present, and returns the offset where payload data begins.
func parsePESHeader(payload []byte) (pts *uint64, dataStart int, ok bool) {
	if len(payload) < 9 {
		return nil, 0, false
	}
	if payload[0] != 0x00 || payload[1] != 0x00 || payload[2] != 0x01 {
		return nil, 0, false
	}
	flags := payload[7]
	ptsDTS := (flags >> 6) & 0x03
	headerLen := int(payload[8])
	dataStart = 9 + headerLen
	if len(payload) < dataStart {
		return nil, 0, false
	}

	if ptsDTS != 0 && len(payload) >= 9+5 {
		b0, b1, b2, b3, b4 := payload[9], payload[10], payload[11], payload[12], payload[13]
		if b0&0x01 != 0 && b2&0x01 != 0 && b4&0x01 != 0 {
			v := uint64(b0&0x0e)<<29 | uint64(b1)<<22 | uint64(b2&0xfe)<<14 | uint64(b3)<<7 | uint64(b4&0xfe)>>1
			pts = &v
		}
	}

	return pts, dataStart, true
}

// extractADTSFrames scans data for self-framing ADTS access units and
// returns their concatenation, stopping at the first frame whose declared
// length would run past the end of data.
func extractADTSFrames(data []byte) []byte {
	var frames []byte
	i := 0
	for i+7 <= len(data) {
		if isADTSHeader(data, i) {
			frameLen := adtsFrameLength(data, i)
			if frameLen < 7 {
				i++
				continue
			}
			if i+frameLen <= len(data) {
				frames = append(frames, data[i:i+frameLen]...)
				i += frameLen
				continue
			}
			break
		}
		i++
	}
	return frames
}

// isADTSHeader reports whether data[index:] begins with a valid ADTS
// syncword, layer, and sampling-frequency-index.
func isADTSHeader(data []byte, index int) bool {
	if index+5 >= len(data) {
		return false
	}
	if data[index] != 0xff || data[index+1]&0xf0 != 0xf0 {
		return false
	}
	layer := (data[index+1] >> 1) & 0x03
	if layer != 0 {
		return false
	}
	samplingIndex := (data[index+2] >> 2) & 0x0f
	return samplingIndex != 0x0f
}

// adtsFrameLength decodes the 13-bit frame_length field spanning bytes 3-5
// of an ADTS header.
func adtsFrameLength(data []byte, index int) int {
	return int(data[index+3]&0x03)<<11 | int(data[index+4])<<3 | int(data[index+5]&0xe0)>>5
}

// adtsAudioConfig decodes the sample rate and channel count declared by the
// first ADTS frame's header, by repacking its profile/sampling-frequency/
// channel-configuration bits into an MPEG-4 AudioSpecificConfig and letting
// mpeg4audio decode that against its own sampling-frequency table, rather
// than re-deriving the table by hand.
func adtsAudioConfig(adts []byte) (sampleRate int, channels int, err error) {
	if !isADTSHeader(adts, 0) {
		return 0, 0, fmt.Errorf("%w: not an ADTS frame", ErrUnsupportedCodec)
	}
	profile := (adts[2] >> 6) & 0x03
	samplingFreqIndex := (adts[2] >> 2) & 0x0f
	channelConfig := (adts[2]&0x01)<<2 | (adts[3]>>6)&0x03
	audioObjectType := profile + 1

	asc := []byte{
		audioObjectType<<3 | samplingFreqIndex>>1,
		samplingFreqIndex<<7 | channelConfig<<3,
	}

	var config mpeg4audio.AudioSpecificConfig
	if err := config.Unmarshal(asc); err != nil {
		return 0, 0, fmt.Errorf("%w: decoding AAC audio config: %v", ErrUnsupportedCodec, err)
	}
	return config.SampleRate, config.ChannelCount, nil
}
