package audioclip

import (
	"testing"

	"github.com/mogiioin/hls-m3u8/m3u8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const masterPlaylistWithDefaultAudio = `#EXTM3U
#EXT-X-VERSION:6
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aac",NAME="English",DEFAULT=YES,URI="audio-en.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aac",NAME="Japanese",DEFAULT=NO,URI="audio-ja.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=128000,AUDIO="aac"
video.m3u8
`

const masterPlaylistNoDefault = `#EXTM3U
#EXT-X-VERSION:6
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aac",NAME="Japanese",DEFAULT=NO,URI="audio-ja.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=128000,AUDIO="aac"
video.m3u8
`

const masterPlaylistNoAudioRenditions = `#EXTM3U
#EXT-X-VERSION:6
#EXT-X-STREAM-INF:BANDWIDTH=256000
high.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=64000
low.m3u8
`

func decodeMaster(t *testing.T, text string) *m3u8.MasterPlaylist {
	t.Helper()
	master, ok := decodeMasterPlaylist(text)
	require.True(t, ok)
	return master
}

func TestSelectMasterVariant_PrefersDefaultAudioRendition(t *testing.T) {
	master := decodeMaster(t, masterPlaylistWithDefaultAudio)
	url, err := selectMasterVariant(master, "https://cdn.example/master.m3u8")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/audio-en.m3u8", url)
}

func TestSelectMasterVariant_FallsBackToFirstAudioRendition(t *testing.T) {
	master := decodeMaster(t, masterPlaylistNoDefault)
	url, err := selectMasterVariant(master, "https://cdn.example/master.m3u8")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/audio-ja.m3u8", url)
}

func TestSelectMasterVariant_FallsBackToLowestBandwidthVariant(t *testing.T) {
	master := decodeMaster(t, masterPlaylistNoAudioRenditions)
	url, err := selectMasterVariant(master, "https://cdn.example/master.m3u8")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/low.m3u8", url)
}

func TestResolveURL_RelativeAgainstBase(t *testing.T) {
	url, err := resolveURL("https://cdn.example/shows/1/master.m3u8", "segment-01.ts")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/shows/1/segment-01.ts", url)
}
