package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/musicshelf/musicshelf/shelf"
	"github.com/musicshelf/musicshelf/shelf/metadata"
	"github.com/musicshelf/musicshelf/shelf/organize"
	"github.com/musicshelf/musicshelf/shelf/pipeline"
)

type scriptedPrompter struct {
	answers []string
	pos     int
}

func (s *scriptedPrompter) Ask(_, defaultValue string) string {
	if s.pos >= len(s.answers) {
		return defaultValue
	}
	answer := s.answers[s.pos]
	s.pos++
	if answer == "" {
		return defaultValue
	}
	return answer
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)     {}
func (nopLogger) Info(string, ...any)      {}
func (nopLogger) Warn(string, ...any)      {}
func (nopLogger) Error(string, ...any)     {}
func (nopLogger) With(...any) shelf.Logger { return nopLogger{} }

type fakeProvider struct {
	infos    map[string]*shelf.VideoInfo
	playlist *shelf.PlaylistInfo
}

func (f *fakeProvider) FetchInfo(_ context.Context, url string) (*shelf.VideoInfo, error) {
	if info, ok := f.infos[url]; ok {
		return info, nil
	}
	return nil, errors.New("unknown url")
}

func (f *fakeProvider) FetchPlaylist(_ context.Context, _ string) (*shelf.PlaylistInfo, error) {
	if f.playlist == nil {
		return nil, errors.New("no playlist")
	}
	return f.playlist, nil
}

type fakeDownloader struct {
	count int
}

func (f *fakeDownloader) Download(_ context.Context, _, outputTemplate string) (string, error) {
	f.count++
	return strings.Replace(outputTemplate, "%(ext)s", "mp3", 1), nil
}

type fakeTagWriter struct{}

func (fakeTagWriter) WriteTags(string, shelf.MetadataRecord, []byte) error { return nil }

type noCovers struct{}

func (noCovers) Select(*shelf.VideoInfo) []byte { return nil }

func newTestMenu(t *testing.T, provider *fakeProvider, downloader *fakeDownloader, answers []string) (*Menu, *bytes.Buffer) {
	t.Helper()
	prompter := &scriptedPrompter{answers: answers}
	resolver := metadata.NewResolver(metadata.NewExtractor(), metadata.NewSequencer(), prompter)
	p := pipeline.New(provider, downloader, fakeTagWriter{}, resolver, organize.New(t.TempDir()), noCovers{}, nil)
	var out bytes.Buffer
	return New(p, prompter, nopLogger{}, &out), &out
}

func TestRunExitsOnFive(t *testing.T) {
	menu, out := newTestMenu(t, &fakeProvider{}, &fakeDownloader{}, []string{"5"})

	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Bye!") {
		t.Error("missing exit message")
	}
}

func TestRunReprintsOnInvalidChoice(t *testing.T) {
	menu, out := newTestMenu(t, &fakeProvider{}, &fakeDownloader{}, []string{"9", "5"})

	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid option") {
		t.Error("missing invalid-option message")
	}
	if strings.Count(out.String(), "1. Download a single track") != 2 {
		t.Error("menu should be printed twice")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	menu, _ := newTestMenu(t, &fakeProvider{}, &fakeDownloader{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := menu.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func TestDownloadSingleFlow(t *testing.T) {
	provider := &fakeProvider{infos: map[string]*shelf.VideoInfo{
		"https://example.com/v/1": {Title: "Sia - Chandelier"},
	}}
	downloader := &fakeDownloader{}
	// choice, URL, then the five metadata confirmations, then exit.
	menu, out := newTestMenu(t, provider, downloader,
		[]string{"1", "https://example.com/v/1", "", "", "", "", "", "5"})

	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if downloader.count != 1 {
		t.Errorf("downloads = %d, want 1", downloader.count)
	}
	if !strings.Contains(out.String(), "Done.") {
		t.Error("missing completion message")
	}
}

func TestDownloadPlaylistFlowWithConfirmation(t *testing.T) {
	provider := &fakeProvider{
		infos: map[string]*shelf.VideoInfo{
			"a": {Title: "X - 1"},
			"b": {Title: "X - 2"},
		},
		playlist: &shelf.PlaylistInfo{
			Title: "Mix",
			Entries: []shelf.PlaylistEntry{
				{ID: "1", URL: "a"},
				{ID: "2", URL: "b"},
			},
		},
	}
	downloader := &fakeDownloader{}
	menu, out := newTestMenu(t, provider, downloader, []string{"2", "url", "y", "5"})

	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if downloader.count != 2 {
		t.Errorf("downloads = %d, want 2", downloader.count)
	}
	if !strings.Contains(out.String(), "Downloaded 2 of 2 tracks.") {
		t.Errorf("missing summary, got %q", out.String())
	}
}

func TestDownloadPlaylistDeclined(t *testing.T) {
	provider := &fakeProvider{playlist: &shelf.PlaylistInfo{
		Title:   "Mix",
		Entries: []shelf.PlaylistEntry{{ID: "1", URL: "a"}},
	}}
	downloader := &fakeDownloader{}
	menu, out := newTestMenu(t, provider, downloader, []string{"2", "url", "n", "5"})

	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if downloader.count != 0 {
		t.Errorf("downloads = %d, want 0", downloader.count)
	}
	if !strings.Contains(out.String(), "Cancelled.") {
		t.Error("missing cancel message")
	}
}

func TestDownloadBatchReportsMissingFile(t *testing.T) {
	menu, out := newTestMenu(t, &fakeProvider{}, &fakeDownloader{},
		[]string{"3", "/does/not/exist.txt", "5"})

	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Could not read batch file") {
		t.Error("missing batch file error")
	}
}

func TestDownloadBatchFlow(t *testing.T) {
	batchFile := filepath.Join(t.TempDir(), "urls.txt")
	content := "# favorites\na\n\nb\n"
	if err := os.WriteFile(batchFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	provider := &fakeProvider{infos: map[string]*shelf.VideoInfo{
		"a": {Title: "X - 1"},
		"b": {Title: "X - 2"},
	}}
	downloader := &fakeDownloader{}
	menu, out := newTestMenu(t, provider, downloader, []string{"3", batchFile, "5"})

	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if downloader.count != 2 {
		t.Errorf("downloads = %d, want 2", downloader.count)
	}
	if !strings.Contains(out.String(), "Downloaded 2 of 2 tracks.") {
		t.Errorf("missing summary, got %q", out.String())
	}
}

func TestChangeBaseDir(t *testing.T) {
	menu, out := newTestMenu(t, &fakeProvider{}, &fakeDownloader{},
		[]string{"4", "/music/new", "5"})

	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Music directory set to /music/new") {
		t.Error("missing confirmation message")
	}
	if !strings.Contains(out.String(), "current: /music/new") {
		t.Error("menu should show the new directory")
	}
}
