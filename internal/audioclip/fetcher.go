package audioclip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/mangatan-tools/mediacore/internal/config"
)

// ForwardedHeaders are the inbound request headers forwarded verbatim to the
// upstream playlist/segment server.
var ForwardedHeaders = []string{"Cookie", "Authorization"}

// Fetcher issues the plain and ranged GET requests a clip build needs,
// forwarding a fixed allow-list of credential headers and never retrying —
// a failed fetch aborts the whole clip build, per the resource model's
// no-retry rule.
type Fetcher struct {
	client   *http.Client
	headers  http.Header
	mapCache map[string][]byte
}

// NewFetcher creates a Fetcher bound to the inbound request's forwarded
// headers (a subset of cfg.ForwardHeaders actually present on inbound).
func NewFetcher(cfg config.UpstreamConfig, inbound http.Header) *Fetcher {
	forwarded := make(http.Header)
	for _, name := range cfg.ForwardHeaders {
		if v := inbound.Get(name); v != "" {
			forwarded.Set(name, v)
		}
	}
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		headers:  forwarded,
		mapCache: make(map[string][]byte),
	}
}

// FetchText performs an unranged GET and returns the response body as text.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	body, err := f.fetch(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchSegmentBytes fetches the init-map bytes (cached across the clip
// build) followed by the segment bytes, concatenated into one buffer ready
// for demuxing.
func (f *Fetcher) FetchSegmentBytes(ctx context.Context, seg SegmentSelection) ([]byte, error) {
	var data []byte

	if seg.Map != nil {
		key := mapCacheKey(seg.Map.URL, seg.Map.ByteRange)
		cached, ok := f.mapCache[key]
		if !ok {
			bytes, err := f.fetch(ctx, seg.Map.URL, seg.Map.ByteRange)
			if err != nil {
				return nil, err
			}
			f.mapCache[key] = bytes
			cached = bytes
		}
		data = append(data, cached...)
	}

	segBytes, err := f.fetch(ctx, seg.URL, seg.ByteRange)
	if err != nil {
		return nil, err
	}
	data = append(data, segBytes...)
	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string, byteRange *ResolvedByteRange) ([]byte, error) {
	if byteRange != nil && byteRange.End <= byteRange.Start {
		return nil, ErrInvalidRange
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrFetchFailed, err)
	}
	for name, values := range f.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if byteRange != nil {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(byteRange.Start, 10)+"-"+strconv.FormatInt(byteRange.End-1, 10))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d from %s", ErrFetchFailed, resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}
	return data, nil
}

// mapCacheKey scopes init-map caching to a single clip build by (url, range).
func mapCacheKey(url string, r *ResolvedByteRange) string {
	if r == nil {
		return url
	}
	return fmt.Sprintf("%s#%d:%d", url, r.Start, r.End)
}
