package outwriter

import (
	"os"

	"github.com/huangsam/greenscore/internal/contract"
	"golang.org/x/term"
)

// GetMaxTablePathWidth calculates the maximum width for input paths in table output
// based on terminal width and the fixed analysis columns.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Language + Score + Label + Energy + CO2 + Big-O + Findings with borders/padding
	baseWidth := 85

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 10

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}
