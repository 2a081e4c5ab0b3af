package outwriter

import (
	"os"

	"github.com/scangrade/scangrade/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth derives the column width available for image and
// metric names from the terminal width, honoring the --width override.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	width := cfg.Width
	if width <= 0 {
		if detected, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && detected > 0 {
			width = detected
		} else {
			width = 80 // piped output and CI have no measurable terminal
		}
	}

	// Reserve space for the score, tier, gate and level columns plus
	// table borders, then give the rest to the name column.
	nameWidth := width - 45
	if cfg.Detail {
		nameWidth -= 20
	}

	// Clamp so names stay readable on narrow terminals and bounded on
	// wide ones.
	if nameWidth < 15 {
		nameWidth = 15
	}
	if nameWidth > 70 {
		nameWidth = 70
	}
	return nameWidth
}
