package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the members column
	// is hidden and hints are shortened.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the threshold for side-by-side latest and all panes.
	LayoutWideWidth = 140
)

// Pane sizes in terminal rows, borders included.
const (
	// PlayerBarHeight is the height of the player box.
	PlayerBarHeight = 5

	// LatestRowHeight is the number of lines each latest release takes.
	LatestRowHeight = 2

	// chromeHeight covers the header and command bar.
	chromeHeight = 2
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
