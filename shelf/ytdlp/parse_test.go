package ytdlp

import "testing"

func TestParseVideoInfo(t *testing.T) {
	data := []byte(`{
		"title": "Daft Punk - One More Time",
		"uploader": "Daft Punk",
		"description": "Album • Discovery • 2001",
		"upload_date": "20010312",
		"album": "Discovery",
		"release_year": 2001,
		"thumbnails": [
			{"url": "https://i.ytimg.com/small.jpg", "width": 120, "height": 90},
			{"url": "https://i.ytimg.com/large.jpg", "width": 1280, "height": 720}
		]
	}`)

	info, err := parseVideoInfo(data)
	if err != nil {
		t.Fatalf("parseVideoInfo: %v", err)
	}

	if info.Title != "Daft Punk - One More Time" {
		t.Errorf("title = %q", info.Title)
	}
	if info.Uploader != "Daft Punk" {
		t.Errorf("uploader = %q", info.Uploader)
	}
	if info.UploadDate != "20010312" {
		t.Errorf("upload_date = %q", info.UploadDate)
	}
	if len(info.Thumbnails) != 2 {
		t.Fatalf("thumbnails = %d", len(info.Thumbnails))
	}
	if info.Thumbnails[1].Width != 1280 || info.Thumbnails[1].Height != 720 {
		t.Errorf("thumbnail dims = %+v", info.Thumbnails[1])
	}
	if got := info.FieldString("album"); got != "Discovery" {
		t.Errorf("album field = %q", got)
	}
	if _, ok := info.Field("release_year"); !ok {
		t.Error("release_year field missing from raw map")
	}
}

func TestParseVideoInfoToleratesMissingKeys(t *testing.T) {
	info, err := parseVideoInfo([]byte(`{}`))
	if err != nil {
		t.Fatalf("parseVideoInfo: %v", err)
	}
	if info.Title != "" || info.Uploader != "" || len(info.Thumbnails) != 0 {
		t.Fatalf("expected zero values, got %+v", info)
	}
}

func TestParseVideoInfoRejectsGarbage(t *testing.T) {
	if _, err := parseVideoInfo([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestParsePlaylist(t *testing.T) {
	data := []byte(`{
		"title": "Road Trip Mix",
		"entries": [
			{"id": "abc123", "title": "First", "url": "https://example.com/v/abc123"},
			{"id": "def456", "title": "Second"},
			{"title": "no id, skipped"}
		]
	}`)

	playlist, err := parsePlaylist(data)
	if err != nil {
		t.Fatalf("parsePlaylist: %v", err)
	}

	if playlist.Title != "Road Trip Mix" {
		t.Errorf("title = %q", playlist.Title)
	}
	if len(playlist.Entries) != 2 {
		t.Fatalf("entries = %d", len(playlist.Entries))
	}
	if playlist.Entries[0].URL != "https://example.com/v/abc123" {
		t.Errorf("entry url = %q", playlist.Entries[0].URL)
	}
	if playlist.Entries[1].URL != "https://www.youtube.com/watch?v=def456" {
		t.Errorf("canonical url = %q", playlist.Entries[1].URL)
	}
}

func TestParsePlaylistDefaultsTitle(t *testing.T) {
	playlist, err := parsePlaylist([]byte(`{"entries": []}`))
	if err != nil {
		t.Fatalf("parsePlaylist: %v", err)
	}
	if playlist.Title != "Unknown Playlist" {
		t.Errorf("title = %q", playlist.Title)
	}
}

func TestResolveOutputPath(t *testing.T) {
	got := resolveOutputPath("Music/Artist/Album/03. Song.%(ext)s", "mp3")
	want := "Music/Artist/Album/03. Song.mp3"
	if got != want {
		t.Errorf("resolveOutputPath = %q, want %q", got, want)
	}
}
