package metadata

import (
	"github.com/musicshelf/musicshelf/shelf"
)

// DefaultAlbum is used when no album could be inferred or entered.
const DefaultAlbum = "Single"

// Resolver combines extractor output with either human-entered overrides
// or bulk-mode defaults to produce the final metadata record used for
// filing and tagging.
type Resolver struct {
	extractor *Extractor
	sequencer *Sequencer
	prompter  shelf.Prompter
}

// NewResolver creates a Resolver. prompter may be nil when only bulk mode
// is used.
func NewResolver(extractor *Extractor, sequencer *Sequencer, prompter shelf.Prompter) *Resolver {
	return &Resolver{extractor: extractor, sequencer: sequencer, prompter: prompter}
}

// Resolve produces the final record for one video. In interactive mode
// every field is confirmed with the user, with extractor output as the
// suggestion; otherwise extractor output plus defaults is used directly.
func (r *Resolver) Resolve(info *shelf.VideoInfo, interactive bool) shelf.MetadataRecord {
	var title string
	if info != nil {
		title = info.Title
	}
	auto := r.extractor.Extract(title, info)

	if interactive && r.prompter != nil {
		return r.resolveInteractive(info, auto)
	}
	return r.resolveBulk(info, auto)
}

func (r *Resolver) resolveInteractive(info *shelf.VideoInfo, auto shelf.MetadataRecord) shelf.MetadataRecord {
	var meta shelf.MetadataRecord

	meta.Artist = r.prompter.Ask("Artist", auto.Artist)
	meta.Song = r.prompter.Ask("Song", auto.Song)

	albumSuggestion := auto.Album
	if albumSuggestion == "" {
		albumSuggestion = DefaultAlbum
	}
	meta.Album = r.prompter.Ask("Album", albumSuggestion)

	// The counter advances on the confirmed artist/album pair even when
	// the user overrides the suggested number.
	suggestedTrack := r.sequencer.NextTrack(meta.Artist, meta.Album)
	meta.Track = r.prompter.Ask("Track number", suggestedTrack)

	yearSuggestion := auto.Year
	if yearSuggestion == "" && info != nil && len(info.UploadDate) >= 4 {
		yearSuggestion = info.UploadDate[:4]
	}
	meta.Year = r.prompter.Ask("Year", yearSuggestion)

	return meta
}

func (r *Resolver) resolveBulk(info *shelf.VideoInfo, auto shelf.MetadataRecord) shelf.MetadataRecord {
	meta := auto

	if meta.Album == "" {
		meta.Album = DefaultAlbum
	}
	meta.Track = r.sequencer.NextTrack(meta.Artist, meta.Album)

	if meta.Year == "" && info != nil && len(info.UploadDate) >= 4 {
		meta.Year = info.UploadDate[:4]
	}

	return meta
}
