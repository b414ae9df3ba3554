package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/musicshelf/musicshelf/shelf/cli"
	"github.com/musicshelf/musicshelf/shelf/config"
	"github.com/musicshelf/musicshelf/shelf/cover"
	logpkg "github.com/musicshelf/musicshelf/shelf/logger"
	"github.com/musicshelf/musicshelf/shelf/metadata"
	"github.com/musicshelf/musicshelf/shelf/organize"
	"github.com/musicshelf/musicshelf/shelf/pipeline"
	"github.com/musicshelf/musicshelf/shelf/prompt"
	"github.com/musicshelf/musicshelf/shelf/ratelimit"
	"github.com/musicshelf/musicshelf/shelf/tags"
	"github.com/musicshelf/musicshelf/shelf/ytdlp"
)

// App wires all application dependencies.
type App struct {
	Config   *config.Config
	Logger   *logpkg.Logger
	Pipeline *pipeline.Pipeline
	Menu     *cli.Menu
	Build    BuildInfo
}

// BuildInfo provides build-time metadata.
type BuildInfo struct {
	RuntimeVer string
	BinVersion string
	CommitSHA  string
	BuildTime  string
	BuildArch  string
}

// New builds the application container. A missing config file is not an
// error; defaults and environment variables are used instead.
func New(configPath string, build BuildInfo) (*App, error) {
	var conf *config.Config
	if _, err := os.Stat(configPath); err == nil {
		conf, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		conf = config.Default()
	}

	log, err := logpkg.New(conf.GetString("LogLevel"), conf.GetString("LogFormat"), conf.GetBool("LogSource"))
	if err != nil {
		return nil, err
	}

	limiter, err := ratelimit.New(conf.GetInt("RateLimitCalls"), time.Duration(conf.GetInt("RateLimitWindowSec"))*time.Second)
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}

	prompter := prompt.New(os.Stdin, os.Stdout)

	resolver := metadata.NewResolver(metadata.NewExtractor(), metadata.NewSequencer(), prompter)
	organizer := organize.New(conf.GetString("BaseDir"))

	covers := cover.NewSelector(limiter, log, cover.Options{
		Timeout:  time.Duration(conf.GetInt("HTTPTimeoutSec")) * time.Second,
		RetryMax: conf.GetInt("CoverRetryMax"),
		MaxBytes: conf.GetInt64("CoverMaxBytes"),
		MaxEdge:  conf.GetInt("CoverMaxEdge"),
	})

	provider := ytdlp.NewProvider(
		conf.GetString("YtdlpPath"),
		time.Duration(conf.GetInt("InfoTimeoutSec"))*time.Second,
		limiter,
		log,
	)
	downloader := ytdlp.NewDownloader(
		conf.GetString("YtdlpPath"),
		conf.GetString("AudioFormat"),
		conf.GetString("AudioQuality"),
		time.Duration(conf.GetInt("DownloadTimeoutSec"))*time.Second,
		limiter,
		log,
	)

	tagWriter := tags.NewWriter(log)

	pipe := pipeline.New(provider, downloader, tagWriter, resolver, organizer, covers, log)
	menu := cli.New(pipe, prompter, log, os.Stdout)

	return &App{
		Config:   conf,
		Logger:   log,
		Pipeline: pipe,
		Menu:     menu,
		Build:    build,
	}, nil
}

// Run drives the interactive menu until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("musicshelf started",
		"version", a.Build.BinVersion,
		"runtime", a.Build.RuntimeVer,
		"base_dir", a.Pipeline.Organizer().BaseDir(),
	)
	return a.Menu.Run(ctx)
}

// Shutdown releases resources.
func (a *App) Shutdown() error {
	if a.Logger != nil {
		return a.Logger.Close()
	}
	return nil
}
