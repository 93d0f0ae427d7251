package editor

import (
	"io"
	"log"
)

const (
	defaultTabStop          = 4
	minTabStop              = 1
	maxTabStop              = 255
	minPrintHeight          = 0.1
	maxPrintHeight          = 0.9
	outputChannelCapacity   = 500
	longLineHeuristicFactor = 4
	minSizeX, minSizeY      = 4, 8
)

// Config holds the constructor inputs for New. The zero
// value is not usable directly; use Validate (called automatically by
// New) to fill in defaults and clamp out-of-range fields.
type Config struct {
	// Content is the initial buffer text, split on "\n".
	Content string
	// SplitPrompt is embedded in the separator bar.
	SplitPrompt string
	// PrintHeight is the initial fraction of rows given to the print
	// pane, clamped to [0.1, 0.9].
	PrintHeight float64
	// TabStop is the tab width in cells. Values below 1 are replaced by
	// the default of 4; values above 255 are clamped to 255.
	TabStop int
	// SizeX, SizeY are the initial terminal dimensions in cells.
	SizeX, SizeY int
	// Logger receives rare internal diagnostics (render contention,
	// sink writes after close). Defaults to a discard logger.
	Logger *log.Logger
}

// Validate clamps out-of-range fields and fills in defaults.
func (c *Config) Validate() {
	if c.TabStop < minTabStop {
		c.TabStop = defaultTabStop
	}
	if c.TabStop > maxTabStop {
		c.TabStop = maxTabStop
	}
	if c.PrintHeight < minPrintHeight {
		c.PrintHeight = minPrintHeight
	}
	if c.PrintHeight > maxPrintHeight {
		c.PrintHeight = maxPrintHeight
	}
	if c.SizeX < minSizeX {
		c.SizeX = minSizeX
	}
	if c.SizeY < minSizeY {
		c.SizeY = minSizeY
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
}
