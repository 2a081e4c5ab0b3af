// Package core has core logic for normalizing, grading and aggregating
// image quality metrics.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/internal/outwriter"
	"github.com/scangrade/scangrade/schema"
)

// ExecutorFunc defines the function signature for executing different grading modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// GetGradeReportResults grades the configured metrics document and returns
// the assembled report model. It is the programmatic entry point shared by
// the CLI and the MCP server.
func GetGradeReportResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.ReportModel, time.Duration, error) {
	start := time.Now()
	model, err := runGradeCore(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}
	return model, time.Since(start), nil
}

// GetBatchReportResults grades every document under the input path and
// returns the ranked outcomes with population statistics.
func GetBatchReportResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.BatchReport, time.Duration, error) {
	start := time.Now()
	report, err := runBatchCore(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}
	return report, time.Since(start), nil
}

// ExecuteScangradeAnalyze runs the single-image analysis and prints the
// full report. It serves as the main entry point for the 'analyze' command.
func ExecuteScangradeAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	model, duration, err := GetGradeReportResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintGradeReport(model, cfg, duration)
}

// ExecuteScangradeBatch runs the multi-image analysis and prints the
// aggregate report. It serves as the main entry point for the 'batch' command.
func ExecuteScangradeBatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, duration, err := GetBatchReportResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintBatchReport(report, cfg, duration)
}

// ExecuteScangradeSla runs the single-image analysis, prints the compliance
// verdict and exits non-zero when the level reaches the --fail-on gate.
func ExecuteScangradeSla(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	model, duration, err := GetGradeReportResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := outwriter.PrintSlaVerdict(model, cfg, duration); err != nil {
		return err
	}

	// Gate for CI/CD pipelines
	if schema.LevelRank(model.Sla.Level) >= schema.LevelRank(cfg.FailOn) {
		fmt.Printf("compliance level %s reached the --fail-on gate (%s)\n", model.Sla.Level, cfg.FailOn)
		os.Exit(1)
	}
	return nil
}

// ExecuteScangradeMetrics displays the metric catalog definitions.
// This is a static display that does not require reading any input.
func ExecuteScangradeMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.PrintMetricCatalog(cfg)
}
