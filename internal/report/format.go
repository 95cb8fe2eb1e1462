package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/pagelog/internal/model"
)

// FormatElapsed renders elapsed seconds to two decimals, zero-padded to a
// minimum width of five characters: 0.04 -> "00.04", 12.5 -> "12.50".
// Values of 100s and above widen naturally.
func FormatElapsed(seconds float64) string {
	return fmt.Sprintf("%05.2f", seconds)
}

// Line renders one record in the report's literal single-line format:
// timestamp, level, an optional tab-separated location, and the text.
func Line(rec model.LogRecord) string {
	if rec.Location != "" {
		return fmt.Sprintf("%s %s:\t%s\t%s", rec.SequenceTime, rec.Level, rec.Location, rec.Text)
	}
	return fmt.Sprintf("%s %s:\t%s", rec.SequenceTime, rec.Level, rec.Text)
}

// StreamLine renders the live-emission form of a record: a level glyph, the
// bracketed timestamp, the level name, an optional location, and the text.
func StreamLine(rec model.LogRecord) string {
	if rec.Location != "" {
		return fmt.Sprintf("%s [%s] %s\t%s\t%s", Glyph(rec.Level), rec.SequenceTime, rec.Level, rec.Location, rec.Text)
	}
	return fmt.Sprintf("%s [%s] %s\t%s", Glyph(rec.Level), rec.SequenceTime, rec.Level, rec.Text)
}

var (
	errorGlyph = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✖")
	warnGlyph  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render("▲")
	infoGlyph  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render("●")
)

// Glyph returns the styled marker for a level. lipgloss degrades to plain
// runes when the output profile has no color support.
func Glyph(level model.Level) string {
	switch level {
	case model.LevelError:
		return errorGlyph
	case model.LevelWarn:
		return warnGlyph
	default:
		return infoGlyph
	}
}
