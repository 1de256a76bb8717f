package audioclip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTSPacketSize(t *testing.T) {
	packet188 := make([]byte, 188*3)
	for i := 0; i < 3; i++ {
		packet188[i*188] = 0x47
	}
	assert.Equal(t, 188, tsPacketSize(packet188))

	packet192 := make([]byte, 192*3)
	for i := 0; i < 3; i++ {
		packet192[i*192+4] = 0x47
	}
	assert.Equal(t, 192, tsPacketSize(packet192))

	assert.Equal(t, 0, tsPacketSize([]byte{0x00, 0x01, 0x02}))
}

func buildTSPacket(pid uint16, pusi bool, payload []byte) []byte {
	packet := make([]byte, 188)
	packet[0] = 0x47
	b1 := byte(pid >> 8 & 0x1f)
	if pusi {
		b1 |= 0x40
	}
	packet[1] = b1
	packet[2] = byte(pid & 0xff)
	packet[3] = 0x10 // adaptation field control = payload only, continuity 0
	n := copy(packet[4:], payload)
	_ = n
	return packet
}

// buildPATPacket builds a minimal single-program PAT pointing at pmtPID.
func buildPATPacket(pmtPID uint16) []byte {
	section := []byte{
		0x00,       // table_id
		0xb0, 0x0d, // section_syntax_indicator=1, section_length=13
		0x00, 0x01, // transport_stream_id
		0xc1,       // version/current_next
		0x00,       // section_number
		0x00,       // last_section_number
		0x00, 0x01, // program_number = 1
		byte(0xe0 | pmtPID>>8), byte(pmtPID), // reserved bits + pmt_pid
		0x00, 0x00, 0x00, 0x00, // CRC32 (not validated)
	}
	payload := append([]byte{0x00}, section...) // pointer_field = 0
	return buildTSPacket(0x0000, true, payload)
}

// buildPMTPacket builds a minimal PMT, carried on PID 0x0100, with one ADTS
// audio stream on audioPID.
func buildPMTPacket(audioPID uint16) []byte {
	section := []byte{
		0x02,       // table_id
		0xb0, 0x12, // section_length
		0x00, 0x01, // program_number
		0xc1, 0x00, 0x00,
		0xe0, 0x00, // PCR PID (unused)
		0xf0, 0x00, // program_info_length = 0
		0x0f, byte(0xe0 | audioPID>>8), byte(audioPID), 0xf0, 0x00, // stream_type=0x0f ADTS
		0x00, 0x00, 0x00, 0x00, // CRC32
	}
	payload := append([]byte{0x00}, section...)
	return buildTSPacket(0x0100, true, payload)
}

func adtsFrame(aacPayloadLen int) []byte {
	frameLen := 7 + aacPayloadLen
	header := []byte{
		0xff, 0xf1, // syncword + MPEG-4, layer 0, no CRC
		0x50, // profile=01 (LC), sampling_freq_index=0100 (44100), private=0, channel config high bit
		0x80 | byte(frameLen>>11), byte(frameLen >> 3), byte(frameLen<<5) | 0x1f,
	}
	out := append(header, make([]byte, aacPayloadLen)...)
	return out
}

func TestExtractADTSFromTS_FindsAudioPID(t *testing.T) {
	const pmtPID, audioPID = 0x0100, 0x1001

	frame := adtsFrame(10)
	pesPayload := append([]byte{0x00, 0x00, 0x01, 0xc0, 0x00, 0x00, 0x80, 0x00, 0x00}, frame...)

	var data []byte
	data = append(data, buildPATPacket(pmtPID)...)
	data = append(data, buildPMTPacket(audioPID)...)
	data = append(data, buildTSPacket(audioPID, true, pesPayload)...)

	extraction := extractADTSFromTS(data, 188)
	require.NotEmpty(t, extraction.data)
	assert.True(t, isADTSHeader(extraction.data, 0))
}

func TestIsADTSHeader(t *testing.T) {
	frame := adtsFrame(10)
	assert.True(t, isADTSHeader(frame, 0))
	assert.False(t, isADTSHeader([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, 0))
}

func TestADTSAudioConfig_DecodesSampleRateAndChannels(t *testing.T) {
	frame := adtsFrame(10)
	sampleRate, channels, err := adtsAudioConfig(frame)
	require.NoError(t, err)
	assert.Equal(t, 44100, sampleRate)
	assert.Equal(t, 2, channels)
}

func TestADTSFrameLength(t *testing.T) {
	frame := adtsFrame(100)
	assert.Equal(t, 107, adtsFrameLength(frame, 0))
}

func TestParsePESHeader_DecodesPTS(t *testing.T) {
	// PTS-only flags (0x80), header_data_length = 5
	payload := []byte{
		0x00, 0x00, 0x01, 0xc0, // start code + stream id
		0x00, 0x00, // PES packet length
		0x80,       // '10' marker bits, no scrambling
		0x80, 0x05, // pts_dts_flags=10, header_data_length=5
		0x21, 0x00, 0x01, 0x00, 0x01, // PTS = 0 with marker bits set
		0xaa, 0xbb, // payload
	}
	pts, dataStart, ok := parsePESHeader(payload)
	require.True(t, ok)
	require.NotNil(t, pts)
	assert.Equal(t, uint64(0), *pts)
	assert.Equal(t, 14, dataStart)
}
