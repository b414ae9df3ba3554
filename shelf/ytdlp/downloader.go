package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/musicshelf/musicshelf/shelf"
	"github.com/musicshelf/musicshelf/shelf/ratelimit"
)

// Downloader extracts audio from a video URL through yt-dlp, transcoding
// to the configured format. The output template follows yt-dlp syntax;
// only the %(ext)s placeholder is expected.
type Downloader struct {
	binPath     string
	audioFormat string
	quality     string
	timeout     time.Duration
	limiter     *ratelimit.Limiter
	logger      shelf.Logger
	progressLog rate.Sometimes
}

// NewDownloader creates a Downloader producing audioFormat files.
func NewDownloader(binPath, audioFormat, quality string, timeout time.Duration, limiter *ratelimit.Limiter, logger shelf.Logger) *Downloader {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	if audioFormat == "" {
		audioFormat = "mp3"
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Downloader{
		binPath:     binPath,
		audioFormat: audioFormat,
		quality:     quality,
		timeout:     timeout,
		limiter:     limiter,
		logger:      logger,
		progressLog: rate.Sometimes{Interval: time.Second},
	}
}

// Download runs yt-dlp and returns the path of the produced audio file.
func (d *Downloader) Download(ctx context.Context, url, outputTemplate string) (string, error) {
	if d.limiter != nil {
		d.limiter.Acquire()
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", d.audioFormat,
		"--no-playlist",
		"-o", outputTemplate,
	}
	if d.quality != "" {
		args = append(args, "--audio-quality", d.quality)
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, d.binPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start yt-dlp: %w", err)
	}

	// yt-dlp prints a progress line per chunk; log a sample instead of
	// flooding the output.
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lastLine string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lastLine = line
		if d.logger != nil {
			d.progressLog.Do(func() {
				d.logger.Debug("yt-dlp", "output", line)
			})
		}
	}

	if err := cmd.Wait(); err != nil {
		if lastLine != "" {
			return "", fmt.Errorf("yt-dlp: %s: %w", lastLine, err)
		}
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	path := resolveOutputPath(outputTemplate, d.audioFormat)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("audio file not found after download: %w", err)
	}
	return path, nil
}

// resolveOutputPath substitutes the extension placeholder with the final
// audio format.
func resolveOutputPath(template, audioFormat string) string {
	return strings.Replace(template, "%(ext)s", audioFormat, 1)
}
