package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/scangrade/scangrade/schema"
)

// Color definitions for status labels.
var (
	GreenLabelColor  = color.New(color.FgGreen, color.Bold)
	YellowLabelColor = color.New(color.FgYellow)
	RedLabelColor    = color.New(color.FgRed, color.Bold)
	InfoLabelColor   = color.New(color.FgCyan)
)

// GetTierLabel returns the tier text, colorized by its color class when
// colors are enabled. Coloring keys off the typed enum, never off the text.
func GetTierLabel(tier schema.QualityTier, useColors bool) string {
	text := string(tier)
	if !useColors {
		return text
	}
	switch schema.TierColor(tier) {
	case schema.GreenColor:
		return GreenLabelColor.Sprint(text)
	case schema.YellowColor:
		return YellowLabelColor.Sprint(text)
	default:
		return RedLabelColor.Sprint(text)
	}
}

// GetGateLabel returns the gate text, colorized when enabled.
func GetGateLabel(gate schema.GateStatus, useColors bool) string {
	text := string(gate)
	if !useColors {
		return text
	}
	switch gate {
	case schema.PassGate:
		return GreenLabelColor.Sprint(text)
	case schema.WarnGate:
		return YellowLabelColor.Sprint(text)
	default:
		return RedLabelColor.Sprint(text)
	}
}

// GetLevelLabel returns the compliance level text, colorized when enabled.
func GetLevelLabel(level schema.ComplianceLevel, useColors bool) string {
	text := string(level)
	if !useColors {
		return text
	}
	switch level {
	case schema.ExcellentLevel, schema.CompliantLevel:
		return GreenLabelColor.Sprint(text)
	case schema.WarningLevel:
		return YellowLabelColor.Sprint(text)
	default:
		return RedLabelColor.Sprint(text)
	}
}

// GetPriorityLabel returns the priority text, colorized when enabled.
func GetPriorityLabel(p schema.Priority, useColors bool) string {
	text := string(p)
	if !useColors {
		return text
	}
	switch p {
	case schema.CriticalPriority:
		return RedLabelColor.Sprint(text)
	case schema.WarningPriority:
		return YellowLabelColor.Sprint(text)
	default:
		return InfoLabelColor.Sprint(text)
	}
}

// SelectOutputFile returns stdout for an empty path, otherwise creates
// the file for writing.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot create output file %s: %w", filePath, err)
	}
	return file, nil
}

// LogFatal prints an error message to stderr and exits with status 1.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn prints a warning message to stderr and continues.
func LogWarn(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the default SQLite file path for the grade cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scangrade_cache.db"
	}
	return filepath.Join(homeDir, ".scangrade_cache.db")
}

// GetRunsDBFilePath returns the default SQLite file path for run tracking.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scangrade_runs.db"
	}
	return filepath.Join(homeDir, ".scangrade_runs.db")
}

// TruncateDetail shortens a detail string to maxWidth with a trailing
// ellipsis. Widths of 3 or less return the string unchanged.
func TruncateDetail(text string, maxWidth int) string {
	if maxWidth <= 3 || len(text) <= maxWidth {
		return text
	}
	return text[:maxWidth-3] + "..."
}

// ParseBoolString converts a yes/no style string to a bool.
func ParseBoolString(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", value)
	}
}
