package outwriter

import (
	"fmt"
	"path/filepath"

	"github.com/scangrade/scangrade/internal/contract"
)

// LogGradeHeader prints a concise, 2-line header for a grading run.
func LogGradeHeader(cfg *contract.Config) {
	imageName := filepath.Base(cfg.InputPath)
	if imageName == "" || imageName == "." {
		imageName = "current"
	}

	slaSource := cfg.SlaPath
	if slaSource == "" {
		slaSource = "built-in"
	}

	// Line 1: The grading summary (input document and catalog size)
	fmt.Printf("%sImage: %s (%d metric profiles)\n", emojiPrefix(cfg, "🔎"), imageName, len(cfg.Catalog.Names()))

	// Line 2: The compliance contract being graded against
	fmt.Printf("%sSLA: %s (floor: %.2f, max failed: %d)\n", emojiPrefix(cfg, "📋"), slaSource, cfg.Sla.MinOverallScore, cfg.Sla.MaxFailedCategories)
}

// LogBatchHeader prints a concise, 2-line header for a batch run.
func LogBatchHeader(cfg *contract.Config) {
	dirName := filepath.Base(cfg.InputPath)
	if dirName == "" || dirName == "." {
		dirName = "current"
	}

	fmt.Printf("%sBatch: %s (pattern: %s)\n", emojiPrefix(cfg, "🔎"), dirName, cfg.Pattern)
	fmt.Printf("%sGrading with %d workers against SLA floor %.2f\n", emojiPrefix(cfg, "📋"), cfg.Workers, cfg.Sla.MinOverallScore)
}
