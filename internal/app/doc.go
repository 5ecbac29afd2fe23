// Package app provides the orchestration layer for podcastr.
//
// # Overview
//
// This package is the composition root. It loads configuration, sets up
// logging, builds the first catalog, starts revalidation and hands the
// player, store and media element to the UI.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config.toml
//	       ├─────> logging.Setup()        Point logrus at the log file
//	       ├─────> episodes.NewClient()   HTTP client for the episode API
//	       ├─────> Refresher.Refresh()    First catalog, fatal on error
//	       ├─────> StartPoller()          Revalidate in the background
//	       ├─────> newElement()           mpv or silent element
//	       └─────> ui.Run()               Start TUI (blocks)
//
// # Revalidation
//
// The catalog is rebuilt every eight hours by default. A failed rebuild
// keeps the previous catalog in the store, records the error and retries
// after 2s, 4s, 8s and so on up to 30s. The UI can ask for an immediate
// rebuild through the function StartPoller returns.
//
// # Error Handling
//
// Fatal (returned from Run): invalid config, bad API URL, and any failure
// building the first catalog, including a single malformed episode.
// Recoverable (logged): revalidation failures, unreadable prefs, and a
// missing mpv binary, which falls back to a silent media element.
package app
