// Package ui provides the terminal user interface for podcastr.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns the Player, reads catalog
// snapshots from state.Store on a one second tick and drives a
// media.Element. Media element notifications arrive as messages on the same
// update loop, so the Player is only ever touched from one goroutine.
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages and Run
//   - home.go: latest releases pane, episode table, selection
//   - playerbar.go: the "Tocando agora" box
//   - playback.go: player actions and media element sync
//   - detail.go: scrollable episode description
//   - header.go: status and command bars
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Home Screen
//
// The home playlist is the latest releases followed by the remaining
// episodes. The cursor indexes that playlist directly, so pressing enter on
// row i calls Player.PlayList(playlist, i) whichever pane the row is in.
//
// # Key Bindings
//
//   - j/k, g/G, ctrl+d/ctrl+u: Move through episodes
//   - enter: Play from the selected episode
//   - Space: Play/pause
//   - n, b/p: Next and previous episode
//   - s, l: Toggle shuffle and loop
//   - x: Clear the player
//   - d: Episode details
//   - r: Reload episodes now
//   - T: Cycle theme
//   - h/?: Help
//   - e or Ctrl+C: Exit
//
// # Media Element
//
// Whenever the current episode changes the file is loaded into the element;
// otherwise only the paused state is forwarded. Loop is passed through as
// the element's own repeat. When a file ends the next episode plays if
// there is one, otherwise the player is cleared.
package ui
