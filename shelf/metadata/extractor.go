package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/musicshelf/musicshelf/shelf"
)

// UnknownArtist is the artist fallback when neither the title nor the
// uploader yields a name.
const UnknownArtist = "Unknown Artist"

// Provider tag keys scanned for an album name, in precedence order.
var albumFields = []string{"album", "album_title", "music_album", "music_album_title"}

// Provider tag keys scanned for a release year, in precedence order.
var yearFields = []string{
	"release_year", "release_date", "original_year", "year",
	"music_release_year", "music_release_date",
}

var (
	yearRe = regexp.MustCompile(`\b(\d{4})\b`)

	// "Album • Name • 1999" and the year-only short form, as rendered in
	// auto-generated music video descriptions.
	albumYearRe  = regexp.MustCompile(`Album\s*•\s*(.+?)\s*•\s*(\d{4})`)
	albumShortRe = regexp.MustCompile(`Album\s*•\s*(\d{4})`)

	edgePunctRe = regexp.MustCompile(`^\W+|\W+$`)
)

// Free-text album mentions, tried in order; the first capture passing the
// length guard wins.
var albumPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)(?:album|from|off)\s*[:\-]\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?im)(?:álbum|album):\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?im)from\s+the\s+album\s+["'](.+?)["']`),
	regexp.MustCompile(`(?im)off\s+the\s+album\s+["'](.+?)["']`),
}

// titleRule splits a video title into artist and song. Rules whose
// separator is the word "by" carry swapped capture roles: the first group
// is the song and the second the artist.
type titleRule struct {
	re      *regexp.Regexp
	swapped bool
}

var titleRules = []titleRule{
	{re: regexp.MustCompile(`(?i)^(.+?)\s*-\s*(.+)$`)},                // Artist - Song
	{re: regexp.MustCompile(`(?i)^(.+?)\s*:\s*(.+)$`)},                // Artist: Song
	{re: regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+)$`), swapped: true}, // Song by Artist
	{re: regexp.MustCompile(`(?i)^(.+?)\s*\|\s*(.+)$`)},               // Artist | Song
}

// Extractor derives a best-guess metadata record from a video title and
// optional provider info. It holds no state; Extract is a pure function
// and safe to call repeatedly with the same inputs.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract applies the ordered heuristics: provider tags, then structured
// description markers, then free-text description patterns, then upload
// metadata, then title parsing. Missing input degrades to empty fields;
// Song and Artist always end up non-empty.
func (e *Extractor) Extract(title string, info *shelf.VideoInfo) shelf.MetadataRecord {
	var meta shelf.MetadataRecord

	var description, uploader string
	if info != nil {
		description = info.Description
		uploader = info.Uploader
	}

	meta.Album = albumFromTags(info)
	meta.Year = yearFromTags(info)

	if meta.Album == "" || meta.Year == "" {
		fillFromDescription(&meta, description)
	}

	if meta.Year == "" && info != nil {
		if len(info.UploadDate) >= 4 {
			meta.Year = info.UploadDate[:4]
		}
	}

	meta.Artist, meta.Song = splitTitle(title)

	if meta.Song == "" {
		meta.Song = title
	}
	if meta.Artist == "" {
		if uploader != "" {
			meta.Artist = uploader
		} else {
			meta.Artist = UnknownArtist
		}
	}

	return meta
}

// albumFromTags takes the first non-blank string among the album tag keys.
func albumFromTags(info *shelf.VideoInfo) string {
	for _, field := range albumFields {
		value, ok := info.Field(field)
		if !ok {
			continue
		}
		str, isString := value.(string)
		if !isString {
			continue
		}
		if trimmed := strings.TrimSpace(str); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// yearFromTags takes the first 4-digit run found in any year tag key. Tag
// values may be numbers or full dates, so each value is searched in its
// string form.
func yearFromTags(info *shelf.VideoInfo) string {
	for _, field := range yearFields {
		value, ok := info.Field(field)
		if !ok || value == nil {
			continue
		}
		text := fmt.Sprint(value)
		if text == "" {
			continue
		}
		if match := yearRe.FindStringSubmatch(text); match != nil {
			return match[1]
		}
	}
	return ""
}

// fillFromDescription fills whichever of album/year is still empty from
// the description. The full "Album • Name • Year" marker wins outright;
// otherwise the year-only marker and the free-text album patterns are
// tried.
func fillFromDescription(meta *shelf.MetadataRecord, description string) {
	if match := albumYearRe.FindStringSubmatch(description); match != nil {
		if meta.Album == "" {
			meta.Album = strings.TrimSpace(match[1])
		}
		if meta.Year == "" {
			meta.Year = match[2]
		}
		return
	}

	if match := albumShortRe.FindStringSubmatch(description); match != nil && meta.Year == "" {
		meta.Year = match[1]
	}

	for _, pattern := range albumPatterns {
		match := pattern.FindStringSubmatch(description)
		if match == nil {
			continue
		}
		candidate := strings.TrimSpace(match[1])
		candidate = edgePunctRe.ReplaceAllString(candidate, "")
		if length := utf8.RuneCountInString(candidate); length > 2 && length < 100 {
			if meta.Album == "" {
				meta.Album = candidate
			}
			break
		}
	}
}

// splitTitle applies the title rules in order; the first match wins and
// splits on the first separator occurrence.
func splitTitle(title string) (artist, song string) {
	for _, rule := range titleRules {
		match := rule.re.FindStringSubmatch(title)
		if match == nil {
			continue
		}
		if rule.swapped {
			return strings.TrimSpace(match[2]), strings.TrimSpace(match[1])
		}
		return strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
	}
	return "", ""
}
