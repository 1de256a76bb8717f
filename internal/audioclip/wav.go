package audioclip

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeWAV wraps interleaved signed 16-bit PCM samples in a canonical
// 44-byte RIFF/WAVE header.
func EncodeWAV(samples []int16, sampleRate int, channels int) ([]byte, error) {
	dataLen := len(samples) * 2
	if dataLen > math.MaxUint32 {
		return nil, ErrClipTooLarge
	}

	byteRate := uint32(sampleRate) * uint32(channels) * 2
	blockAlign := uint16(channels) * 2
	riffSize := uint32(36 + dataLen)

	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, riffSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, byteRate)
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, uint16(16)) // bits per sample
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))

	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}

	if buf.Len() != 44+dataLen {
		return nil, fmt.Errorf("internal error: wav buffer size %d, want %d", buf.Len(), 44+dataLen)
	}
	return buf.Bytes(), nil
}
