package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/internal/outwriter"
	"github.com/scangrade/scangrade/schema"
)

// runGradeCore performs the common Load, Grade and Tracking steps for a
// single metrics document.
func runGradeCore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.ReportModel, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogGradeHeader(cfg)
	}

	// Add store manager to context for use by caching and tracking
	ctx = contextWithStoreManager(ctx, mgr)

	// --- 0. Begin Run Tracking (if configured) ---
	ctx, runID, runStore := beginRunTracking(ctx, cfg, mgr, 1)

	// --- 1. Grade Phase (with caching) ---
	model, err := CachedGradeReport(ctx, cfg, cfg.InputPath)
	if err != nil {
		return nil, err
	}

	// --- 2. Record Image Report ---
	if runID > 0 {
		recordImageReport(ctx, runID, model)
	}

	// --- 3. End Run Tracking ---
	endRunTracking(runStore, runID, 1)

	return model, nil
}

// runBatchCore grades every document under the input path and aggregates
// the outcomes into a batch report.
func runBatchCore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.BatchReport, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogBatchHeader(cfg)
	}

	// Add store manager to context for use in worker goroutines
	ctx = contextWithStoreManager(ctx, mgr)

	// --- 1. Document List Building ---
	files, err := listMetricsFiles(cfg.InputPath, cfg.Pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no metrics documents found")
	}

	// --- 0. Begin Run Tracking (if configured) ---
	ctx, runID, runStore := beginRunTracking(ctx, cfg, mgr, len(files))

	// --- 2. Core Grading ---
	outcomes := gradeAllImages(ctx, cfg, files)

	// --- 3. Aggregation and Ranking ---
	// The summary covers every outcome; the result limit only trims the
	// ranked listing.
	summary := AggregateBatch(outcomes)
	ranked := rankOutcomes(outcomes, cfg.ResultLimit)

	// --- 4. End Run Tracking ---
	endRunTracking(runStore, runID, summary.TotalImages)

	return &schema.BatchReport{Outcomes: ranked, Summary: summary}, nil
}

// beginRunTracking opens a run record when a run store is configured. The
// returned context carries the run ID for worker goroutines. Tracking
// failures degrade to warnings and never block grading.
func beginRunTracking(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, documentCount int) (context.Context, int64, contract.RunStore) {
	if mgr == nil {
		return ctx, 0, nil
	}
	runStore := mgr.GetRunStore()
	if runStore == nil {
		return ctx, 0, nil
	}

	startTime := time.Now()
	configParams := map[string]any{
		"input_path":     cfg.InputPath,
		"pattern":        cfg.Pattern,
		"sla_path":       cfg.SlaPath,
		"workers":        cfg.Workers,
		"result_limit":   cfg.ResultLimit,
		"document_count": documentCount,
	}
	runID, err := runStore.BeginRun(startTime, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx, 0, runStore
	}
	if runID > 0 {
		// Add run ID to context for use in per-image grading
		ctx = withRunID(ctx, runID)
	}
	return ctx, runID, runStore
}

// endRunTracking finalizes an open run record.
func endRunTracking(runStore contract.RunStore, runID int64, totalImages int) {
	if runStore == nil || runID <= 0 {
		return
	}
	if err := runStore.EndRun(runID, time.Now(), totalImages); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// gradeAllImages grades all documents in parallel using a worker pool.
// It spawns cfg.Workers goroutines and gathers their outcomes into a
// single slice. A document that fails to grade produces an errored
// outcome instead of aborting the batch.
func gradeAllImages(ctx context.Context, cfg *contract.Config, files []string) []schema.ImageOutcome {
	// Initialize channels based on the final number of documents to grade.
	fileCh := make(chan string, len(files))
	outcomeCh := make(chan schema.ImageOutcome, len(files))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for f := range fileCh {
				outcomeCh <- gradeImageCommon(ctx, cfg, f)
			}
		})
	}

	// Send documents to worker channel
	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)

	// Wait for all workers to finish grading
	wg.Wait()
	close(outcomeCh)

	outcomes := make([]schema.ImageOutcome, 0, len(files))
	for o := range outcomeCh {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// gradeImageCommon grades a single metrics document and condenses the
// report into a batch outcome. Grading failures are captured on the
// outcome so one malformed document never aborts the batch.
func gradeImageCommon(ctx context.Context, cfg *contract.Config, path string) schema.ImageOutcome {
	model, err := CachedGradeReport(ctx, cfg, path)
	if err != nil {
		return schema.ImageOutcome{Image: fallbackImageName(path), Err: err.Error()}
	}

	// Record the graded image to the run store (if tracking is enabled)
	if runID, ok := getRunID(ctx); ok && runID > 0 {
		recordImageReport(ctx, runID, model)
	}

	return outcomeFromModel(model)
}

// outcomeFromModel condenses a full report model into a batch outcome row.
func outcomeFromModel(model *schema.ReportModel) schema.ImageOutcome {
	outcome := schema.ImageOutcome{
		Image:        model.Summary.Image,
		OverallScore: model.Summary.OverallScore,
		StarRating:   model.Summary.StarRating,
		Tier:         model.Summary.Tier,
		Level:        model.Sla.Level,
		Violations:   len(model.Sla.Violations),
	}
	for _, row := range model.Metrics {
		switch row.Tier {
		case schema.ExcellentTier:
			outcome.ExcellentMetrics++
		case schema.GoodTier:
			outcome.GoodMetrics++
		case schema.FairTier:
			outcome.FairMetrics++
		case schema.PoorTier:
			outcome.PoorMetrics++
		}
	}
	return outcome
}

// recordImageReport records one graded image to the run store.
func recordImageReport(ctx context.Context, runID int64, model *schema.ReportModel) {
	// Get the store manager from context
	mgr := storeManagerFromContext(ctx)
	if mgr == nil {
		return
	}
	runStore := mgr.GetRunStore()
	if runStore == nil {
		return
	}

	outcome := outcomeFromModel(model)
	record := schema.ImageReportRecord{
		RunID:            runID,
		Image:            outcome.Image,
		GradedAt:         time.Now(),
		OverallScore:     outcome.OverallScore,
		StarRating:       int32(outcome.StarRating),
		Tier:             string(outcome.Tier),
		ComplianceLevel:  string(outcome.Level),
		ViolationCount:   int32(outcome.Violations),
		ExcellentMetrics: int32(outcome.ExcellentMetrics),
		GoodMetrics:      int32(outcome.GoodMetrics),
		FairMetrics:      int32(outcome.FairMetrics),
		PoorMetrics:      int32(outcome.PoorMetrics),
	}
	if data, err := json.Marshal(model.Recommendations); err == nil {
		recs := string(data)
		record.Recommendations = &recs
	}

	if err := runStore.RecordImageReport(record); err != nil {
		logTrackingError("RecordImageReport", outcome.Image, err)
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting grading.
func logTrackingError(operation, image string, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on %s", operation, image), err)
}

// listMetricsFiles resolves the input path into the sorted list of metrics
// documents to grade. Directories are expanded with the configured glob
// pattern; any other path is treated as a glob itself, so shell-quoted
// wildcards work too.
func listMetricsFiles(inputPath, pattern string) ([]string, error) {
	if info, err := os.Stat(inputPath); err == nil && info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(inputPath, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		return matches, nil
	}

	matches, err := filepath.Glob(inputPath)
	if err != nil {
		return nil, fmt.Errorf("invalid input path %q: %w", inputPath, err)
	}
	sort.Strings(matches)
	return matches, nil
}
