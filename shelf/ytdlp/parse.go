package ytdlp

import (
	"encoding/json"
	"fmt"

	"github.com/musicshelf/musicshelf/shelf"
)

// parseVideoInfo converts a `yt-dlp -J` JSON document into a VideoInfo.
// Unknown keys stay available through the Fields map so metadata
// heuristics can scan provider tags by name.
func parseVideoInfo(data []byte) (*shelf.VideoInfo, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse video info: %w", err)
	}

	info := &shelf.VideoInfo{
		Title:       stringField(raw, "title"),
		Uploader:    stringField(raw, "uploader"),
		Description: stringField(raw, "description"),
		UploadDate:  stringField(raw, "upload_date"),
		Fields:      raw,
	}

	if thumbs, ok := raw["thumbnails"].([]any); ok {
		for _, item := range thumbs {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			info.Thumbnails = append(info.Thumbnails, shelf.Thumbnail{
				URL:    stringField(entry, "url"),
				Width:  intField(entry, "width"),
				Height: intField(entry, "height"),
			})
		}
	}

	return info, nil
}

// parsePlaylist converts a `yt-dlp -J --flat-playlist` document into a
// PlaylistInfo. Entries without an id are skipped; entries without a url
// get the canonical watch URL built from their id.
func parsePlaylist(data []byte) (*shelf.PlaylistInfo, error) {
	var raw struct {
		Title   string `json:"title"`
		Entries []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}

	playlist := &shelf.PlaylistInfo{Title: raw.Title}
	if playlist.Title == "" {
		playlist.Title = "Unknown Playlist"
	}

	for _, entry := range raw.Entries {
		if entry.ID == "" && entry.URL == "" {
			continue
		}
		url := entry.URL
		if url == "" {
			url = fmt.Sprintf("https://www.youtube.com/watch?v=%s", entry.ID)
		}
		playlist.Entries = append(playlist.Entries, shelf.PlaylistEntry{
			ID:    entry.ID,
			Title: entry.Title,
			URL:   url,
		})
	}

	return playlist, nil
}

func stringField(m map[string]any, key string) string {
	if value, ok := m[key].(string); ok {
		return value
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch value := m[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	default:
		return 0
	}
}
