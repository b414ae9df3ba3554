package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/musicshelf/musicshelf/shelf"
)

// Characters that are invalid in file names on at least one supported
// filesystem. They are removed, not replaced.
const invalidPathChars = `<>:"/\|?*`

// Sanitize strips invalid path characters and surrounding whitespace.
// It is applied to path segments only, never to the metadata record used
// for tagging.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(invalidPathChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Organizer maps metadata records onto the Artist/Album/NN. Song layout
// under a base directory.
type Organizer struct {
	baseDir string
}

// New creates an Organizer rooted at baseDir.
func New(baseDir string) *Organizer {
	return &Organizer{baseDir: baseDir}
}

// BaseDir returns the current base directory.
func (o *Organizer) BaseDir() string {
	return o.baseDir
}

// SetBaseDir changes the base directory for subsequent downloads.
func (o *Organizer) SetBaseDir(dir string) {
	o.baseDir = dir
}

// AlbumDir returns the sanitized Artist/Album directory for a record and
// creates it if absent. Creation is idempotent.
func (o *Organizer) AlbumDir(meta shelf.MetadataRecord) (string, error) {
	dir := filepath.Join(o.baseDir, Sanitize(meta.Artist), Sanitize(meta.Album))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create album dir: %w", err)
	}
	return dir, nil
}

// FileName returns the "NN. Song" stem plus extension for a record. The
// track number is zero-padded to width 2; longer values are rendered in
// full.
func (o *Organizer) FileName(meta shelf.MetadataRecord, ext string) string {
	return fmt.Sprintf("%s. %s%s", PadTrack(meta.Track), Sanitize(meta.Song), ext)
}

// BuildPath returns the full target path for a record without touching
// the filesystem.
func (o *Organizer) BuildPath(meta shelf.MetadataRecord, ext string) string {
	return filepath.Join(o.baseDir, Sanitize(meta.Artist), Sanitize(meta.Album), o.FileName(meta, ext))
}

// PadTrack left-pads a track number with zeros to width 2. Values of
// three or more digits are returned unchanged.
func PadTrack(track string) string {
	if track == "" {
		track = "1"
	}
	for len(track) < 2 {
		track = "0" + track
	}
	return track
}
