package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/musicshelf/musicshelf/shelf"
	"github.com/musicshelf/musicshelf/shelf/ratelimit"
)

// Provider fetches video and playlist metadata through the yt-dlp
// executable. Every invocation acquires the shared rate limiter first so
// metadata lookups draw from the same call budget as downloads.
type Provider struct {
	binPath string
	timeout time.Duration
	limiter *ratelimit.Limiter
	logger  shelf.Logger
}

// NewProvider creates a Provider using the yt-dlp binary at binPath.
func NewProvider(binPath string, timeout time.Duration, limiter *ratelimit.Limiter, logger shelf.Logger) *Provider {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Provider{binPath: binPath, timeout: timeout, limiter: limiter, logger: logger}
}

// FetchInfo retrieves full metadata for one video without downloading
// media.
func (p *Provider) FetchInfo(ctx context.Context, url string) (*shelf.VideoInfo, error) {
	output, err := p.run(ctx, "-J", "--no-warnings", "--no-playlist", url)
	if err != nil {
		return nil, fmt.Errorf("fetch info: %w", err)
	}
	return parseVideoInfo(output)
}

// FetchPlaylist enumerates a playlist without resolving individual
// videos.
func (p *Provider) FetchPlaylist(ctx context.Context, url string) (*shelf.PlaylistInfo, error) {
	output, err := p.run(ctx, "-J", "--no-warnings", "--flat-playlist", url)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}
	return parsePlaylist(output)
}

func (p *Provider) run(ctx context.Context, args ...string) ([]byte, error) {
	if p.limiter != nil {
		p.limiter.Acquire()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.logger != nil {
		p.logger.Debug("running yt-dlp", "args", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, p.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message != "" {
			return nil, fmt.Errorf("yt-dlp: %s: %w", firstLine(message), err)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
