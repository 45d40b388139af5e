package outwriter

import (
	"os"

	"golang.org/x/term"
)

// GetMaxValueWidth calculates how much room table cells have for long
// values (product names, URLs, queries) given the terminal width.
// widthOverride > 0 skips detection; 0 auto-detects.
func GetMaxValueWidth(widthOverride int) int {
	termWidth := widthOverride

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns (counts, timestamps, label) plus
	// borders and padding.
	available := termWidth - 55
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

// TruncateValue truncates a cell value to maxWidth with an ellipsis
// prefix. Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateValue(value string, maxWidth int) string {
	runes := []rune(value)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return value
}
