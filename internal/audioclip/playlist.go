package audioclip

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mogiioin/hls-m3u8/m3u8"
)

// FetchPlaylist downloads playlistURL, parses it as a media playlist, and
// falls back to resolving a variant from a master playlist when the text
// isn't a media playlist directly. It returns the resolved media playlist
// together with the URL it was ultimately fetched from (the base for
// resolving segment and init-map URIs).
func FetchPlaylist(ctx context.Context, f *Fetcher, playlistURL string) (Playlist, error) {
	text, err := f.FetchText(ctx, playlistURL)
	if err != nil {
		return Playlist{}, err
	}

	if pl, ok := decodeMediaPlaylist(text); ok {
		return toPlaylist(playlistURL, pl)
	}

	master, ok := decodeMasterPlaylist(text)
	if !ok {
		return Playlist{}, fmt.Errorf("%w: neither media nor master playlist", ErrPlaylistUnresolvable)
	}

	variantURL, err := selectMasterVariant(master, playlistURL)
	if err != nil {
		return Playlist{}, err
	}

	variantText, err := f.FetchText(ctx, variantURL)
	if err != nil {
		return Playlist{}, err
	}

	pl, ok := decodeMediaPlaylist(variantText)
	if !ok {
		return Playlist{}, fmt.Errorf("%w: selected variant is not a media playlist", ErrPlaylistUnresolvable)
	}
	return toPlaylist(variantURL, pl)
}

func decodeMediaPlaylist(text string) (*m3u8.MediaPlaylist, bool) {
	pl, listType, err := m3u8.Decode(*bytes.NewBufferString(text), false)
	if err != nil || listType != m3u8.MEDIA {
		return nil, false
	}
	media, ok := pl.(*m3u8.MediaPlaylist)
	return media, ok
}

func decodeMasterPlaylist(text string) (*m3u8.MasterPlaylist, bool) {
	pl, listType, err := m3u8.Decode(*bytes.NewBufferString(text), false)
	if err != nil || listType != m3u8.MASTER {
		return nil, false
	}
	master, ok := pl.(*m3u8.MasterPlaylist)
	return master, ok
}

// selectMasterVariant picks the variant URL from a master playlist, in the
// order: a default-flagged audio rendition, any audio rendition with a URI,
// or else the lowest-bandwidth non-iframe variant.
func selectMasterVariant(master *m3u8.MasterPlaylist, baseURL string) (string, error) {
	var firstAudio *m3u8.Alternative
	for _, variant := range master.Variants {
		for _, alt := range variant.Alternatives {
			if alt == nil || alt.Type != "AUDIO" || alt.URI == "" {
				continue
			}
			if alt.Default {
				return resolveURL(baseURL, alt.URI)
			}
			if firstAudio == nil {
				firstAudio = alt
			}
		}
	}
	if firstAudio != nil {
		return resolveURL(baseURL, firstAudio.URI)
	}

	var bestURI string
	var bestBandwidth uint32
	found := false
	for _, variant := range master.Variants {
		if variant.Iframe || variant.URI == "" {
			continue
		}
		if !found || variant.Bandwidth < bestBandwidth {
			bestURI = variant.URI
			bestBandwidth = variant.Bandwidth
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("%w: no media playlists found in master playlist", ErrPlaylistUnresolvable)
	}
	return resolveURL(baseURL, bestURI)
}

func toPlaylist(baseURL string, pl *m3u8.MediaPlaylist) (Playlist, error) {
	out := Playlist{BaseURL: baseURL}
	for _, seg := range pl.Segments {
		if seg == nil {
			continue
		}

		var initMap *InitMap
		if seg.Map != nil {
			initMap = &InitMap{
				URI: seg.Map.URI,
				Range: ByteRange{
					Present:   seg.Map.Limit > 0,
					Length:    seg.Map.Limit,
					Offset:    seg.Map.Offset,
					HasOffset: seg.Map.Offset != 0,
				},
			}
		}

		var keys []Key
		if seg.Key != nil && seg.Key.Method != "" && seg.Key.Method != "NONE" {
			keys = append(keys, Key{Method: seg.Key.Method, URI: seg.Key.URI})
		}

		out.Segments = append(out.Segments, Segment{
			URI:      seg.URI,
			Duration: time.Duration(seg.Duration * float64(time.Second)),
			ByteRange: ByteRange{
				Present:   seg.Limit > 0,
				Length:    seg.Limit,
				Offset:    seg.Offset,
				HasOffset: seg.Offset != 0,
			},
			Map:  initMap,
			Keys: keys,
		})
	}
	return out, nil
}

// resolveURL resolves target against base, the way an HLS player resolves
// relative segment and map URIs against the playlist that named them.
func resolveURL(base, target string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	targetURL, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	return baseURL.ResolveReference(targetURL).String(), nil
}
