package shelf

import "context"

// Logger is the minimal logging abstraction used across modules.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config provides typed access to configuration values.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetBool(key string) bool
}

// VideoInfoProvider retrieves raw video and playlist metadata from the
// source platform. Implementations must not download media.
type VideoInfoProvider interface {
	FetchInfo(ctx context.Context, url string) (*VideoInfo, error)
	FetchPlaylist(ctx context.Context, url string) (*PlaylistInfo, error)
}

// MediaDownloader produces an audio file for a video URL. outputTemplate
// uses the provider's template syntax (the extension placeholder is
// resolved by the transcoder); the returned path is the final audio file.
type MediaDownloader interface {
	Download(ctx context.Context, url, outputTemplate string) (string, error)
}

// TagWriter embeds a metadata record and optional cover art into an audio
// file. Failures are reported to the caller, which decides whether to
// continue; they never roll back the downloaded file.
type TagWriter interface {
	WriteTags(path string, meta MetadataRecord, cover []byte) error
}

// Prompter asks the user for one value, returning defaultValue when the
// user submits an empty line.
type Prompter interface {
	Ask(label, defaultValue string) string
}
