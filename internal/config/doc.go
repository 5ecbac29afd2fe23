// Package config loads podcastr's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/podcastr/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing, blank or out of range, use defaults
//
// # TOML Format
//
//	api_url = "http://localhost:3333"   # episodes API root
//	episode_limit = 12                  # episodes per home screen build
//	latest_count = 2                    # shown as latest releases
//	refresh_interval = 28800            # revalidation, seconds
//	log_file = "~/.local/state/podcastr/podcastr.log"
//	log_level = "info"
//	log_json = false
//	player = "mpv"                      # media element binary
//	audio = true                        # false runs without a media element
//
// Tilde expansion is applied to log_file and to player when it is a path.
// A bare player name is resolved on PATH when the media element starts.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files and
// TOML parse errors ("parse config: ..."). A missing file is not an error.
package config
