// Package player is the single source of truth for what is selected and
// playing.
//
// # Overview
//
// A Player holds a flat playlist of episodes, the current position inside
// it and three mode flags: playing, shuffling and looping. The UI creates
// exactly one Player when it starts and mutates it only through the methods
// below; nothing is persisted between runs.
//
// # Operations
//
//   - Play: single-episode playlist at index 0, playing.
//   - PlayList: replace the playlist, jump to an index, playing. Rejects an
//     index outside the list with ErrIndexOutOfRange.
//   - TogglePlay, SetPlayingState: flip or set the playing flag.
//   - ToggleShuffle, ToggleLoop: independent mode flags.
//   - Clear: empty the playlist and reset the index; flags are kept.
//   - PlayNext, PlayPrevious: navigation, never wrapping around.
//   - HasNext, HasPrevious: derived from the current fields on every call.
//
// # Navigation Rules
//
//	HasNext     = shuffling || index+1 < len(list)
//	HasPrevious = index > 0
//
//	PlayNext:
//	  if shuffling { index = rand(len) }
//	  if old index+1 < len { index = old index+1 }
//
// The sequential step in PlayNext is computed from the index held before the
// shuffle pick and overrides the pick whenever it stays in range, so shuffle
// only takes visible effect on the last episode. Looping never changes
// navigation; the UI forwards it to the media element, which repeats the
// current file.
//
// # Concurrency
//
// Player has no locks. All calls happen on the Bubble Tea update loop,
// which processes one message at a time. Media element callbacks reach it
// as messages on that loop.
package player
