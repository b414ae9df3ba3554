package shelf

import "strings"

// Thumbnail describes one cover art candidate reported by the provider.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// VideoInfo is the structured description of one media item as returned by
// the video platform. Every field is optional; consumers must tolerate the
// zero value. Fields keeps the raw provider tag map so heuristics can scan
// loosely-typed keys (album, release_year, ...) by name.
type VideoInfo struct {
	Title       string
	Uploader    string
	Description string
	UploadDate  string
	Thumbnails  []Thumbnail
	Fields      map[string]any
}

// Field returns the raw provider value for a tag key.
func (v *VideoInfo) Field(name string) (any, bool) {
	if v == nil || v.Fields == nil {
		return nil, false
	}
	value, ok := v.Fields[name]
	return value, ok
}

// FieldString returns the trimmed string form of a provider tag value, or
// empty if the key is absent or not a string.
func (v *VideoInfo) FieldString(name string) string {
	value, ok := v.Field(name)
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}

// MetadataRecord is the resolved artist/song/album/track/year tuple used
// for filing and tagging. Track and Year stay strings to preserve
// caller-supplied formatting such as zero padding.
type MetadataRecord struct {
	Artist string
	Song   string
	Album  string
	Track  string
	Year   string
}

// PlaylistEntry is one item of an enumerated playlist.
type PlaylistEntry struct {
	ID    string
	Title string
	URL   string
}

// PlaylistInfo is the result of a flat playlist enumeration. No media is
// downloaded at enumeration time.
type PlaylistInfo struct {
	Title   string
	Entries []PlaylistEntry
}
