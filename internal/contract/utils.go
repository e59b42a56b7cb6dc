package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/greenscore/schema"
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // HighColor represents standard danger.
	MediumColor = color.New(color.FgYellow)          // MediumColor represents standard caution, not bold.
	LowColor    = color.New(color.FgCyan)            // LowColor represents informational / low-priority signal.
	GoodColor   = color.New(color.FgGreen, color.Bold)
)

// GetSeverityLabel returns a colored severity label for console output (table).
func GetSeverityLabel(severity schema.Severity) string {
	text := strings.ToUpper(string(severity))
	switch severity {
	case schema.SeverityHigh:
		return HighColor.Sprint(text)
	case schema.SeverityMedium:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetColorLabel returns a colored green score label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := schema.GetPlainLabel(score)

	switch text {
	case "Excellent":
		return GoodColor.Sprint(text)
	case "Good":
		return LowColor.Sprint(text)
	case "Fair":
		return MediumColor.Sprint(text)
	default: // "Poor"
		return HighColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().WithError(err).Error(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().WithError(err).Warn(msg)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for analysis history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".greenscore_history.db"
	}
	return filepath.Join(homeDir, ".greenscore_history.db")
}

// GetModelDBFilePath returns the path to the SQLite DB file for trained models.
func GetModelDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".greenscore_models.db"
	}
	return filepath.Join(homeDir, ".greenscore_models.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
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
