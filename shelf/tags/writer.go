package tags

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"

	"github.com/musicshelf/musicshelf/shelf"
)

// Writer embeds metadata records into audio files. MP3 gets ID3v2 frames,
// FLAC gets vorbis comments plus a picture block, and every other format
// goes through taglib without cover support.
type Writer struct {
	logger shelf.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger shelf.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteTags embeds the record and optional cover art into the file at
// path, dispatching on the file extension.
func (w *Writer) WriteTags(path string, meta shelf.MetadataRecord, cover []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return w.writeMp3Tags(path, meta, cover)
	case ".flac":
		return w.writeFlacTags(path, meta, cover)
	default:
		return w.writeGenericTags(path, meta, cover)
	}
}

func (w *Writer) writeMp3Tags(path string, meta shelf.MetadataRecord, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open mp3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if meta.Song != "" {
		tag.SetTitle(meta.Song)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Album != "" {
		tag.SetAlbum(meta.Album)
	}
	if meta.Track != "" {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, meta.Track)
	}
	if meta.Year != "" {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, meta.Year)
	}

	if len(cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingISO,
			MimeType:    detectMime(cover),
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     cover,
		})
	}

	return tag.Save()
}

func (w *Writer) writeFlacTags(path string, meta shelf.MetadataRecord, cover []byte) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// ParseMetadata leaves the reader positioned at the first audio
	// frame, so the remainder of file is the frame data to carry over.
	parsed, err := flac.ParseMetadata(file)
	if err != nil {
		return fmt.Errorf("parse flac metadata: %w", err)
	}

	if len(cover) > 0 {
		picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", cover, detectMime(cover))
		if err == nil {
			block := picture.Marshal()
			parsed.Meta = append(parsed.Meta, &block)
		} else if w.logger != nil {
			w.logger.Warn("failed to create flac picture", "error", err)
		}
	}

	vorbis := flacvorbis.New()
	if meta.Song != "" {
		_ = vorbis.Add(flacvorbis.FIELD_TITLE, meta.Song)
	}
	if meta.Artist != "" {
		_ = vorbis.Add(flacvorbis.FIELD_ARTIST, meta.Artist)
	}
	if meta.Album != "" {
		_ = vorbis.Add(flacvorbis.FIELD_ALBUM, meta.Album)
	}
	if meta.Track != "" {
		_ = vorbis.Add("TRACKNUMBER", meta.Track)
	}
	if meta.Year != "" {
		_ = vorbis.Add("DATE", meta.Year)
	}
	setVorbisComment(parsed, vorbis)

	return saveFlacWithMeta(path, parsed, file)
}

// writeGenericTags handles m4a, ogg, opus and friends through taglib.
// Cover embedding is not supported on this path.
func (w *Writer) writeGenericTags(path string, meta shelf.MetadataRecord, cover []byte) error {
	values := map[string][]string{}
	if meta.Song != "" {
		values[taglib.Title] = []string{meta.Song}
	}
	if meta.Artist != "" {
		values[taglib.Artist] = []string{meta.Artist}
	}
	if meta.Album != "" {
		values[taglib.Album] = []string{meta.Album}
	}
	if meta.Track != "" {
		values[taglib.TrackNumber] = []string{meta.Track}
	}
	if meta.Year != "" {
		values[taglib.Date] = []string{meta.Year}
	}

	if len(cover) > 0 && w.logger != nil {
		w.logger.Debug("cover embedding unsupported for format, skipping", "path", path)
	}

	if err := taglib.WriteTags(path, values, 0); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}

func setVorbisComment(parsed *flac.File, vorbis *flacvorbis.MetaDataBlockVorbisComment) {
	block := vorbis.Marshal()
	idx := -1
	for i, m := range parsed.Meta {
		if m.Type == flac.VorbisComment {
			idx = i
			break
		}
	}
	if idx >= 0 {
		parsed.Meta[idx] = &block
	} else {
		parsed.Meta = append(parsed.Meta, &block)
	}
}

func saveFlacWithMeta(path string, file *flac.File, frames io.Reader) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmpPath := path + ".tagged"
	out, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, stat.Mode())
	if err != nil {
		return err
	}

	if _, err := out.Write([]byte("fLaC")); err != nil {
		_ = out.Close()
		return err
	}
	for i, meta := range file.Meta {
		last := i == len(file.Meta)-1
		if _, err := out.Write(meta.Marshal(last)); err != nil {
			_ = out.Close()
			return err
		}
	}

	if _, err := io.Copy(out, frames); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

func detectMime(data []byte) string {
	limit := len(data)
	if limit > 32 {
		limit = 32
	}
	return http.DetectContentType(data[:limit])
}
