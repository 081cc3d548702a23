package core

// Color is a foreground color tag for a screen cell. The platform layer
// maps tags to concrete terminal colors; the drawing code never deals
// with escape sequences.
type Color uint8

// Predefined colors for road, vehicle and signal elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)
