package audioclip

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAV_Header(t *testing.T) {
	samples := []int16{1, -2, 3, -4}
	out, err := EncodeWAV(samples, 44100, 2)
	require.NoError(t, err)

	require.Len(t, out, 44+len(samples)*2)
	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, uint32(36+len(samples)*2), binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))
	assert.Equal(t, "fmt ", string(out[12:16]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(out[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[20:22]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(out[22:24]))
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(out[24:28]))
	assert.Equal(t, uint32(44100*2*2), binary.LittleEndian.Uint32(out[28:32]))
	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(out[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(out[34:36]))
	assert.Equal(t, "data", string(out[36:40]))
	assert.Equal(t, uint32(len(samples)*2), binary.LittleEndian.Uint32(out[40:44]))

	assert.Equal(t, int16(1), int16(binary.LittleEndian.Uint16(out[44:46])))
	assert.Equal(t, int16(-2), int16(binary.LittleEndian.Uint16(out[46:48])))
}

func TestEncodeWAV_Empty(t *testing.T) {
	out, err := EncodeWAV(nil, 8000, 1)
	require.NoError(t, err)
	assert.Len(t, out, 44)
}
