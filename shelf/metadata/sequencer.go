package metadata

import (
	"strconv"
	"strings"
)

// Sequencer assigns track numbers within an album. Counters live for the
// process lifetime and are keyed by artist and album; two records with
// equal trimmed artist and album strings share one counter. Not safe for
// concurrent mutation; the pipeline processes one video at a time.
type Sequencer struct {
	counters map[string]int
}

// NewSequencer creates an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{counters: make(map[string]int)}
}

// NextTrack returns the next track number for the album as an unpadded
// decimal string, starting at "1" for a key's first request.
func (s *Sequencer) NextTrack(artist, album string) string {
	key := albumKey(artist, album)
	s.counters[key]++
	return strconv.Itoa(s.counters[key])
}

// albumKey joins trimmed artist and album with an underscore. The
// delimiter is not expected to collide with legitimate names in practice.
func albumKey(artist, album string) string {
	return strings.TrimSpace(artist) + "_" + strings.TrimSpace(album)
}
