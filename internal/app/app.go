package app

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/podcastr/internal/config"
	"github.com/five82/podcastr/internal/episodes"
	"github.com/five82/podcastr/internal/logging"
	"github.com/five82/podcastr/internal/media"
	"github.com/five82/podcastr/internal/player"
	"github.com/five82/podcastr/internal/prefs"
	"github.com/five82/podcastr/internal/state"
	"github.com/five82/podcastr/internal/ui"
)

// Options configure the podcastr application. Non-zero values override
// config.toml.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/podcastr/prefs.toml
	RefreshEvery int    // seconds; zero uses config
	APIURL       string
	NoAudio      bool
}

// Run boots the podcastr TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOptions(&cfg, opts)

	logCloser, err := logging.Setup(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logrus.WithError(err).Warn("prefs unreadable, using defaults")
	}

	client, err := episodes.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init episode client: %w", err)
	}

	store := &state.Store{}
	refresher := &Refresher{
		Source:      client,
		Store:       store,
		Query:       episodes.HomeQuery(cfg.EpisodeLimit),
		LatestCount: cfg.LatestCount,
	}

	// The home page is never shown half-built.
	if err := refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("build catalog from %s: %w", cfg.APIURL, err)
	}
	refreshNow := StartPoller(ctx, refresher, cfg.RefreshInterval)

	element := newElement(cfg)
	defer func() {
		if err := element.Close(); err != nil {
			logrus.WithError(err).Warn("close media element")
		}
	}()

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Player:    player.New(),
		Media:     element,
		Refresh:   refreshNow,
		PollTick:  time.Second,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

func applyOptions(cfg *config.Config, opts Options) {
	if apiURL := strings.TrimSpace(opts.APIURL); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.RefreshEvery) * time.Second
	}
	if opts.NoAudio {
		cfg.Audio = false
	}
}

// newElement picks mpv when audio is enabled and the binary is available.
func newElement(cfg config.Config) media.Element {
	if !cfg.Audio {
		logrus.Info("audio disabled, using silent media element")
		return media.Nop{}
	}
	path, err := exec.LookPath(cfg.PlayerPath)
	if err != nil {
		logrus.WithError(err).WithField("player", cfg.PlayerPath).Warn("mpv not found, using silent media element")
		return media.Nop{}
	}
	return media.NewMPV(path)
}
