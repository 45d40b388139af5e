package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Staleness label constants.
const (
	FreshValue   = "Fresh"
	AgingValue   = "Aging"
	StaleValue   = "Stale"
	ExpiredValue = "Expired"
)

// Color variables for console output.
var (
	FreshColor   = color.New(color.FgGreen)               // within half the TTL/max-age window
	AgingColor   = color.New(color.FgYellow)              // past half the window, still served
	StaleColor   = color.New(color.FgMagenta, color.Bold) // past the window, eviction candidate
	ExpiredColor = color.New(color.FgRed, color.Bold)     // past twice the window
)

// GetPlainLabel returns a plain text staleness label for an entry whose age
// is the given fraction of its eviction window. Used for JSON output and as
// the base for colored table cells.
func GetPlainLabel(ageFraction float64) string {
	switch {
	case ageFraction >= 2:
		return ExpiredValue
	case ageFraction >= 1:
		return StaleValue
	case ageFraction >= 0.5:
		return AgingValue
	default:
		return FreshValue
	}
}

// GetColorLabel returns a colored staleness label for console output.
func GetColorLabel(ageFraction float64) string {
	text := GetPlainLabel(ageFraction)

	switch text {
	case ExpiredValue:
		return ExpiredColor.Sprint(text)
	case StaleValue:
		return StaleColor.Sprint(text)
	case AgingValue:
		return AgingColor.Sprint(text)
	default: // "Fresh"
		return FreshColor.Sprint(text)
	}
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the local
// store.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".shopcache.db"
	}
	return filepath.Join(homeDir, ".shopcache.db")
}

// SelectOutputFile returns the file handle for output, falling back to
// os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}
