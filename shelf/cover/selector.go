package cover

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/nfnt/resize"
	"github.com/sony/gobreaker"

	"github.com/musicshelf/musicshelf/shelf"
	"github.com/musicshelf/musicshelf/shelf/ratelimit"
)

// Selector picks the best thumbnail for a video and fetches its bytes.
// Cover art is always optional: every failure path logs a warning and
// yields nil bytes instead of an error, so a missing cover can never
// abort a download. Repeated fetch failures open a circuit breaker and
// later fetches short-circuit to "no cover art" until it recovers.
type Selector struct {
	client   *retryablehttp.Client
	limiter  *ratelimit.Limiter
	breaker  *gobreaker.CircuitBreaker
	logger   shelf.Logger
	maxBytes int64
	maxEdge  int
}

// Options configures a Selector.
type Options struct {
	Timeout time.Duration
	// RetryMax is the transport-level retry count. It defaults to zero:
	// a failed thumbnail fetch is simply skipped.
	RetryMax int
	// MaxBytes caps the downloaded cover size.
	MaxBytes int64
	// MaxEdge downscales covers whose longest edge exceeds it. Zero keeps
	// the original bytes.
	MaxEdge int
}

// NewSelector creates a Selector sharing the process-wide rate limiter.
func NewSelector(limiter *ratelimit.Limiter, logger shelf.Logger, opts Options) *Selector {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	settings := gobreaker.Settings{
		Name:        "cover-art",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}

	return &Selector{
		client:   client,
		limiter:  limiter,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		logger:   logger,
		maxBytes: maxBytes,
		maxEdge:  opts.MaxEdge,
	}
}

// Select returns cover art bytes for the video, or nil when no usable
// thumbnail exists or the fetch fails.
func (s *Selector) Select(info *shelf.VideoInfo) []byte {
	if info == nil {
		return nil
	}

	best := BestThumbnail(info.Thumbnails)
	if best == nil || best.URL == "" {
		return nil
	}

	data, err := s.fetch(best.URL)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("could not download cover art", "url", best.URL, "error", err)
		}
		return nil
	}

	return s.shrink(data)
}

// BestThumbnail returns the candidate with maximum width*height. Ties
// keep the first one seen; an empty list yields nil.
func BestThumbnail(thumbnails []shelf.Thumbnail) *shelf.Thumbnail {
	var best *shelf.Thumbnail
	maxResolution := 0

	for i := range thumbnails {
		resolution := thumbnails[i].Width * thumbnails[i].Height
		if resolution > maxResolution {
			maxResolution = resolution
			best = &thumbnails[i]
		}
	}

	return best
}

func (s *Selector) fetch(url string) ([]byte, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		if s.limiter != nil {
			s.limiter.Acquire()
		}

		resp, err := s.client.Get(url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cover fetch failed with status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > s.maxBytes {
			return nil, fmt.Errorf("cover image too large: exceeds %d bytes", s.maxBytes)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// shrink downscales the cover when its longest edge exceeds maxEdge,
// re-encoding as JPEG. Bytes that do not decode as JPEG or PNG are kept
// as-is.
func (s *Selector) shrink(data []byte) []byte {
	if s.maxEdge <= 0 {
		return data
	}

	img, err := decodeJPEGOrPNG(data)
	if err != nil {
		return data
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width <= s.maxEdge && height <= s.maxEdge {
		return data
	}

	var scaled image.Image
	if width >= height {
		scaled = resize.Resize(uint(s.maxEdge), 0, img, resize.Lanczos3)
	} else {
		scaled = resize.Resize(0, uint(s.maxEdge), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 85}); err != nil {
		if s.logger != nil {
			s.logger.Warn("cover re-encode failed, keeping original", "error", err)
		}
		return data
	}
	return buf.Bytes()
}

func decodeJPEGOrPNG(data []byte) (image.Image, error) {
	if img, err := jpeg.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := png.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image decode error")
}
