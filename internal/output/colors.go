package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Bucket    *color.Color
	Count     *color.Color
	Total     *color.Color
	Label     *color.Color
	Value     *color.Color
	Warning   *color.Color
	Separator *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Bucket:    color.New(color.FgCyan),
		Count:     color.New(color.FgWhite, color.Bold),
		Total:     color.New(color.FgGreen, color.Bold),
		Label:     color.New(color.FgYellow),
		Value:     color.New(color.FgWhite),
		Warning:   color.New(color.FgRed, color.Bold),
		Separator: color.New(color.FgHiBlack),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Bucket.DisableColor()
	scheme.Count.DisableColor()
	scheme.Total.DisableColor()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Warning.DisableColor()
	scheme.Separator.DisableColor()

	return scheme
}

// WarningIcon returns a warning symbol with appropriate color
func WarningIcon(noColor bool) string {
	if noColor {
		return "⚠"
	}
	return color.New(color.FgYellow).Sprint("⚠")
}
