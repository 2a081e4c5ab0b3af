// Package outwriter renders grade reports, batch rankings, SLA verdicts
// and the metric catalog to the terminal or to JSON, CSV, Parquet and
// Excel files.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// writeToTarget resolves the output destination, runs the supplied write
// function against it and announces where the result landed. Stdout is
// never closed and gets no announcement.
func writeToTarget(outputFile string, write func(io.Writer) error, successMsg string) error {
	out, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	toFile := out != os.Stdout
	if toFile {
		defer func() { _ = out.Close() }()
	}

	if err := write(out); err != nil {
		return err
	}

	if toFile {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// outputErr tags a write failure with the format that failed. A nil err
// passes through so dispatchers can return it directly.
func outputErr(format string, err error) error {
	if err != nil {
		return fmt.Errorf("cannot write %s output: %w", format, err)
	}
	return nil
}

// writeJSON renders any payload as two-space indented JSON.
func writeJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("cannot encode JSON output: %w", err)
	}
	return nil
}

// writeCSV emits a header row and delegates the data rows, flushing the
// writer on the way out.
func writeCSV(w io.Writer, header []string, rows func(*csv.Writer) error) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	return rows(cw)
}

// scoreFormatter returns a closure rendering scores at the configured
// decimal precision.
func scoreFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// formatNative renders a native measurement at full fidelity, since SLA
// performance targets compare against the exact supplied value.
func formatNative(v float64) string {
	return fmt.Sprintf("%g", v)
}

// formatStars renders a 1-4 star rating.
func formatStars(rating int, useEmojis bool) string {
	if useEmojis {
		return strings.Repeat("⭐", rating)
	}
	return fmt.Sprintf("%d/4", rating)
}

// emojiPrefix returns the emoji with a trailing space when emojis are
// enabled, otherwise an empty string.
func emojiPrefix(cfg *contract.Config, emoji string) string {
	if cfg.UseEmojis {
		return emoji + " "
	}
	return ""
}

// formatViolation renders one SLA violation on a single line.
func formatViolation(v schema.SlaViolation) string {
	line := fmt.Sprintf("%s: expected %s, got %s", v.Requirement, v.Expected, v.Actual)
	if len(v.Metrics) > 0 {
		line += fmt.Sprintf(" (%s)", strings.Join(v.Metrics, ", "))
	}
	return line
}
