// Package main times the scangrade CLI against synthesized metrics corpora
// of increasing size. Every command is measured in two phases: an uncached
// phase with the grade cache disabled, then a cached phase against sqlite
// where the first run is reported as the cold time and the remaining runs
// are averaged as the warm time. Timings land in a timestamped CSV under
// the system temp directory.
//
// The scangrade binary must be on PATH. Corpora are generated under the
// given base directory on first use and reused on later invocations.
//
// Usage: go run benchmark/main.go <corpus-base-dir>
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	runTimeout   = 5 * time.Minute
	gradeWorkers = 8
	uncachedRuns = 3
	cachedRuns   = 4
)

// corpusSpec names one synthesized corpus and how many documents it holds.
type corpusSpec struct {
	name string
	docs int
}

var corpora = []corpusSpec{
	{"small", 100},
	{"medium", 1000},
	{"large", 10000},
	{"huge", 50000},
}

// benchCommand describes one scangrade invocation to time.
type benchCommand struct {
	name  string
	label string
	args  []string
}

var benchCommands = []benchCommand{
	{"batch", "batch grading", nil},
	{"analyze", "single-document grading", []string{"scan_000001.json"}},
	{"sla", "compliance evaluation", []string{"scan_000001.json"}},
}

// benchMetrics are the quality dimensions written into synthesized documents.
var benchMetrics = []string{
	"sharpness", "exposure", "contrast", "geometry", "noise",
	"color", "resolution", "border_background", "completeness",
}

// timingRow is one CSV row of phase timings for a corpus and command pair.
type timingRow struct {
	corpus   string
	command  string
	uncached string
	cold     string
	warm     string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <corpus-base-dir>\n", os.Args[0])
		os.Exit(1)
	}
	base := os.Args[1]

	if _, err := exec.LookPath("scangrade"); err != nil {
		fmt.Fprintln(os.Stderr, "scangrade binary not found in PATH")
		os.Exit(1)
	}
	if err := ensureCorpora(base); err != nil {
		fmt.Fprintf(os.Stderr, "corpus generation failed: %v\n", err)
		os.Exit(1)
	}
	resetCache()

	fmt.Printf("Timing %d corpora x %d commands (%v timeout, %d workers)\n",
		len(corpora), len(benchCommands), runTimeout, gradeWorkers)

	var rows []timingRow
	for _, corpus := range corpora {
		fmt.Printf("== %s (%d documents)\n", corpus.name, corpus.docs)
		dir := filepath.Join(base, corpus.name)
		for _, bc := range benchCommands {
			rows = append(rows, timeCommand(dir, corpus.name, bc))
		}
	}

	path, err := writeResultCSV(rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not write results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to %s\n", path)
	printDigest(rows)
}

// resetCache clears the grade cache so the cold phase starts empty.
func resetCache() {
	out, err := exec.Command("scangrade", "cache", "clear").CombinedOutput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cache clear failed, continuing anyway: %v\n%s", err, out)
	}
}

// ensureCorpora synthesizes any corpus whose directory is missing or holds
// the wrong number of documents. Generation is seeded per corpus so reruns
// grade identical inputs.
func ensureCorpora(base string) error {
	for _, corpus := range corpora {
		dir := filepath.Join(base, corpus.name)
		if entries, err := os.ReadDir(dir); err == nil && len(entries) == corpus.docs {
			continue
		}
		fmt.Printf("Synthesizing corpus %s with %d documents\n", corpus.name, corpus.docs)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		rng := rand.New(rand.NewSource(int64(corpus.docs)))
		for n := 1; n <= corpus.docs; n++ {
			if err := writeDoc(dir, n, rng); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDoc writes one synthesized metrics document. Document 1 always
// carries fixed passing scores: the analyze and sla timings target it, and
// the --fail-on gate would turn a randomly poor document into a failed run.
func writeDoc(dir string, n int, rng *rand.Rand) error {
	scores := make(map[string]float64, len(benchMetrics))
	if n == 1 {
		for _, name := range benchMetrics {
			scores[name] = 0.90
		}
	} else {
		count := 5 + rng.Intn(len(benchMetrics)-4)
		for _, name := range benchMetrics[:count] {
			scores[name] = 0.30 + rng.Float64()*0.70
		}
	}

	doc := map[string]any{
		"image":   fmt.Sprintf("scan_%06d.png", n),
		"metrics": scores,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fmt.Sprintf("scan_%06d.json", n)), data, 0o644)
}

// timeCommand measures one command against one corpus in both phases.
func timeCommand(dir, corpusName string, bc benchCommand) timingRow {
	fmt.Printf("-- %s\n", bc.label)

	uncached := timedRuns(dir, bc, "none", uncachedRuns)
	cached := timedRuns(dir, bc, "sqlite", cachedRuns)

	row := timingRow{
		corpus:   corpusName,
		command:  bc.name,
		uncached: meanSeconds(uncached),
		cold:     "TIMEOUT",
		warm:     "TIMEOUT",
	}
	if len(cached) > 0 {
		row.cold = fmt.Sprintf("%.3fs", cached[0].Seconds())
		row.warm = meanSeconds(cached[1:])
	}
	fmt.Printf("   uncached %s / cold %s / warm %s\n", row.uncached, row.cold, row.warm)
	return row
}

// timedRuns executes the command n times against one cache backend and
// returns the durations of the runs that finished cleanly inside the
// timeout.
func timedRuns(dir string, bc benchCommand, cacheBackend string, n int) []time.Duration {
	args := []string{bc.name, "--cache-backend", cacheBackend, "--workers", fmt.Sprint(gradeWorkers)}
	args = append(args, bc.args...)

	var durations []time.Duration
	for i := 0; i < n; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		started := time.Now()
		cmd := exec.CommandContext(ctx, "scangrade", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		cancel()

		if err == nil && finishedCleanly(bc.name, out) {
			durations = append(durations, time.Since(started))
		}
	}
	return durations
}

// finishedCleanly reports whether the output carries the footer line the
// renderer prints after a successful run.
func finishedCleanly(command string, output []byte) bool {
	text := string(output)
	switch command {
	case "batch":
		return strings.Contains(text, "Analysis completed in") && strings.Contains(text, "workers")
	case "sla":
		return strings.Contains(text, "Evaluation completed in")
	default:
		return strings.Contains(text, "metrics in")
	}
}

// meanSeconds formats the average of the given durations, or TIMEOUT when
// no run in the phase finished.
func meanSeconds(durations []time.Duration) string {
	if len(durations) == 0 {
		return "TIMEOUT"
	}
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return fmt.Sprintf("%.3fs", (total / time.Duration(len(durations))).Seconds())
}

// writeResultCSV writes all timing rows to a timestamped CSV and returns
// its path.
func writeResultCSV(rows []timingRow) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("scangrade_bench_%s.csv", time.Now().Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	records := [][]string{{"corpus", "command", "uncached_avg", "cold", "warm_avg"}}
	for _, row := range rows {
		records = append(records, []string{row.corpus, row.command, row.uncached, row.cold, row.warm})
	}

	w := csv.NewWriter(file)
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}

// printDigest prints the timing table grouped by command.
func printDigest(rows []timingRow) {
	for _, bc := range benchCommands {
		fmt.Printf("\n%s\n", bc.label)
		for _, row := range rows {
			if row.command != bc.name {
				continue
			}
			fmt.Printf("  %-8s uncached %s / cold %s / warm %s\n", row.corpus, row.uncached, row.cold, row.warm)
		}
	}
}
