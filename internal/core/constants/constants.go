package constants

import "time"

const (
	// Filter window defaults
	FilterLookbackYears = 5
	DateLayout          = "2006-01-02"

	// Refresh behaviour for the live view
	DefaultUIRefreshRate  = 4.0
	MinUIRefreshRate      = 0.1
	MaxUIRefreshRate      = 20.0
	FeedDebounceInterval  = 150 * time.Millisecond
	ServerShutdownTimeout = 5 * time.Second
)
