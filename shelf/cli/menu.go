package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/musicshelf/musicshelf/shelf"
	"github.com/musicshelf/musicshelf/shelf/pipeline"
)

// Menu is the interactive entry point. It loops over a numbered menu
// until the user exits or the context is cancelled.
type Menu struct {
	pipeline *pipeline.Pipeline
	prompter shelf.Prompter
	logger   shelf.Logger
	out      io.Writer
}

// New creates a Menu writing to out.
func New(p *pipeline.Pipeline, prompter shelf.Prompter, logger shelf.Logger, out io.Writer) *Menu {
	return &Menu{pipeline: p, prompter: prompter, logger: logger, out: out}
}

// Run shows the menu until exit is chosen or ctx is done. Invalid
// choices reprint the menu.
func (m *Menu) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		m.printMenu()
		choice := strings.TrimSpace(m.prompter.Ask("Choose an option", ""))

		switch choice {
		case "1":
			m.downloadSingle(ctx)
		case "2":
			m.downloadPlaylist(ctx)
		case "3":
			m.downloadBatch(ctx)
		case "4":
			m.changeBaseDir()
		case "5":
			fmt.Fprintln(m.out, "Bye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option, try again.")
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintf(m.out, `
musicshelf - download and organize music

  1. Download a single track
  2. Download a playlist
  3. Download a batch file of URLs
  4. Change music directory (current: %s)
  5. Exit

`, m.pipeline.Organizer().BaseDir())
}

func (m *Menu) downloadSingle(ctx context.Context) {
	url := strings.TrimSpace(m.prompter.Ask("Video URL", ""))
	if url == "" {
		fmt.Fprintln(m.out, "No URL given.")
		return
	}
	if err := m.pipeline.DownloadVideo(ctx, url, true); err != nil {
		m.logger.Error("download failed", "url", url, "error", err)
		fmt.Fprintf(m.out, "Download failed: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Done.")
}

func (m *Menu) downloadPlaylist(ctx context.Context) {
	url := strings.TrimSpace(m.prompter.Ask("Playlist URL", ""))
	if url == "" {
		fmt.Fprintln(m.out, "No URL given.")
		return
	}

	playlist, err := m.pipeline.FetchPlaylist(ctx, url)
	if err != nil {
		m.logger.Error("playlist fetch failed", "url", url, "error", err)
		fmt.Fprintf(m.out, "Could not read playlist: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "Playlist %q with %d entries.\n", playlist.Title, len(playlist.Entries))
	answer := strings.ToLower(m.prompter.Ask("Download all", "y"))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(m.out, "Cancelled.")
		return
	}

	succeeded := m.pipeline.DownloadEntries(ctx, playlist.Entries)
	fmt.Fprintf(m.out, "Downloaded %d of %d tracks.\n", succeeded, len(playlist.Entries))
}

func (m *Menu) downloadBatch(ctx context.Context) {
	path := strings.TrimSpace(m.prompter.Ask("Batch file path", ""))
	if path == "" {
		fmt.Fprintln(m.out, "No file given.")
		return
	}

	urls, err := readBatchFile(path)
	if err != nil {
		fmt.Fprintf(m.out, "Could not read batch file: %v\n", err)
		return
	}
	if len(urls) == 0 {
		fmt.Fprintln(m.out, "Batch file contains no URLs.")
		return
	}

	succeeded := m.pipeline.DownloadBatch(ctx, urls)
	fmt.Fprintf(m.out, "Downloaded %d of %d tracks.\n", succeeded, len(urls))
}

func (m *Menu) changeBaseDir() {
	organizer := m.pipeline.Organizer()
	dir := strings.TrimSpace(m.prompter.Ask("Music directory", organizer.BaseDir()))
	if dir == "" {
		return
	}
	organizer.SetBaseDir(dir)
	fmt.Fprintf(m.out, "Music directory set to %s\n", dir)
}

// readBatchFile returns the non-empty, non-comment lines of path.
func readBatchFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
