package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/musicshelf/musicshelf/shelf"
	"github.com/musicshelf/musicshelf/shelf/metadata"
	"github.com/musicshelf/musicshelf/shelf/organize"
)

// CoverSelector yields optional cover art bytes for a video.
type CoverSelector interface {
	Select(info *shelf.VideoInfo) []byte
}

// Pipeline drives the per-video flow: fetch info, resolve metadata, pick
// cover art, create the album directory, download audio, embed tags.
// Videos are processed strictly one at a time; failures are contained at
// per-video granularity so playlist and batch runs always finish.
type Pipeline struct {
	provider   shelf.VideoInfoProvider
	downloader shelf.MediaDownloader
	tagWriter  shelf.TagWriter
	resolver   *metadata.Resolver
	organizer  *organize.Organizer
	covers     CoverSelector
	logger     shelf.Logger
}

// New creates a Pipeline.
func New(
	provider shelf.VideoInfoProvider,
	downloader shelf.MediaDownloader,
	tagWriter shelf.TagWriter,
	resolver *metadata.Resolver,
	organizer *organize.Organizer,
	covers CoverSelector,
	logger shelf.Logger,
) *Pipeline {
	return &Pipeline{
		provider:   provider,
		downloader: downloader,
		tagWriter:  tagWriter,
		resolver:   resolver,
		organizer:  organizer,
		covers:     covers,
		logger:     logger,
	}
}

// Organizer exposes the file organizer, e.g. for base directory changes.
func (p *Pipeline) Organizer() *organize.Organizer {
	return p.organizer
}

// DownloadVideo processes one video end to end. A tagging failure is
// logged and does not roll back the downloaded file; every other failure
// aborts this video only.
func (p *Pipeline) DownloadVideo(ctx context.Context, url string, interactive bool) error {
	info, err := p.provider.FetchInfo(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch video info: %w", err)
	}

	meta := p.resolver.Resolve(info, interactive)

	var cover []byte
	if p.covers != nil {
		cover = p.covers.Select(info)
	}

	albumDir, err := p.organizer.AlbumDir(meta)
	if err != nil {
		return err
	}

	template := filepath.Join(albumDir, p.organizer.FileName(meta, ".%(ext)s"))
	if p.logger != nil {
		p.logger.Info("downloading", "artist", meta.Artist, "song", meta.Song)
	}

	audioPath, err := p.downloader.Download(ctx, url, template)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	if err := p.tagWriter.WriteTags(audioPath, meta, cover); err != nil {
		if p.logger != nil {
			p.logger.Warn("failed to embed tags", "path", audioPath, "error", err)
		}
	} else if p.logger != nil {
		p.logger.Info("downloaded and organized", "path", audioPath)
	}

	return nil
}

// DownloadPlaylist enumerates a playlist and processes every entry
// non-interactively. One entry failing never aborts the run; the
// aggregate success count is returned alongside the total.
func (p *Pipeline) DownloadPlaylist(ctx context.Context, url string) (succeeded, total int, err error) {
	playlist, err := p.provider.FetchPlaylist(ctx, url)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch playlist: %w", err)
	}

	total = len(playlist.Entries)
	if p.logger != nil {
		p.logger.Info("found playlist", "title", playlist.Title, "entries", total)
	}

	for i, entry := range playlist.Entries {
		if p.logger != nil {
			p.logger.Info("processing playlist entry", "index", i+1, "total", total, "title", entry.Title)
		}
		if err := p.DownloadVideo(ctx, entry.URL, false); err != nil {
			if p.logger != nil {
				p.logger.Error("playlist entry failed", "url", entry.URL, "error", err)
			}
			continue
		}
		succeeded++
	}

	return succeeded, total, nil
}

// DownloadBatch processes urls non-interactively, returning the number
// that succeeded.
func (p *Pipeline) DownloadBatch(ctx context.Context, urls []string) (succeeded int) {
	for i, url := range urls {
		if p.logger != nil {
			p.logger.Info("processing batch entry", "index", i+1, "total", len(urls), "url", url)
		}
		if err := p.DownloadVideo(ctx, url, false); err != nil {
			if p.logger != nil {
				p.logger.Error("batch entry failed", "url", url, "error", err)
			}
			continue
		}
		succeeded++
	}
	return succeeded
}

// FetchPlaylist exposes playlist enumeration for callers that confirm
// before downloading.
func (p *Pipeline) FetchPlaylist(ctx context.Context, url string) (*shelf.PlaylistInfo, error) {
	return p.provider.FetchPlaylist(ctx, url)
}

// DownloadEntries processes already-enumerated playlist entries.
func (p *Pipeline) DownloadEntries(ctx context.Context, entries []shelf.PlaylistEntry) (succeeded int) {
	for i, entry := range entries {
		if p.logger != nil {
			p.logger.Info("processing playlist entry", "index", i+1, "total", len(entries), "title", entry.Title)
		}
		if err := p.DownloadVideo(ctx, entry.URL, false); err != nil {
			if p.logger != nil {
				p.logger.Error("playlist entry failed", "url", entry.URL, "error", err)
			}
			continue
		}
		succeeded++
	}
	return succeeded
}
