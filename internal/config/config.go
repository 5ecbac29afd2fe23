package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything podcastr reads from config.toml.
type Config struct {
	APIURL          string
	EpisodeLimit    int
	LatestCount     int
	RefreshInterval time.Duration
	LogFile         string
	LogLevel        string
	LogJSON         bool
	PlayerPath      string
	Audio           bool
}

const (
	defaultConfigPath      = "~/.config/podcastr/config.toml"
	defaultAPIURL          = "http://localhost:3333"
	defaultEpisodeLimit    = 12
	defaultLatestCount     = 2
	defaultRefreshInterval = 8 * time.Hour
	defaultLogFile         = "~/.local/state/podcastr/podcastr.log"
	defaultLogLevel        = "info"
	defaultPlayerPath      = "mpv"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		EpisodeLimit:    defaultEpisodeLimit,
		LatestCount:     defaultLatestCount,
		RefreshInterval: defaultRefreshInterval,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
		PlayerPath:      defaultPlayerPath,
		Audio:           true,
	}
}

// Load locates and parses config.toml, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL          string `toml:"api_url"`
		EpisodeLimit    int    `toml:"episode_limit"`
		LatestCount     *int   `toml:"latest_count"`
		RefreshInterval int    `toml:"refresh_interval"` // seconds
		LogFile         string `toml:"log_file"`
		LogLevel        string `toml:"log_level"`
		LogJSON         bool   `toml:"log_json"`
		Player          string `toml:"player"`
		Audio           *bool  `toml:"audio"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if apiURL := strings.TrimSpace(raw.APIURL); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if raw.EpisodeLimit > 0 {
		cfg.EpisodeLimit = raw.EpisodeLimit
	}
	if raw.LatestCount != nil && *raw.LatestCount >= 0 {
		cfg.LatestCount = *raw.LatestCount
	}
	if raw.RefreshInterval > 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshInterval) * time.Second
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	cfg.LogJSON = raw.LogJSON
	if player := strings.TrimSpace(raw.Player); player != "" {
		// Bare names are looked up on PATH by exec.
		if strings.HasPrefix(player, "~") || strings.ContainsRune(player, filepath.Separator) {
			player = mustExpand(player)
		}
		cfg.PlayerPath = player
	}
	if raw.Audio != nil {
		cfg.Audio = *raw.Audio
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
