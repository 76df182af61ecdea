// Package main implements idt-report, the non-interactive Excel report
// generator. It runs the fetch-normalize-assemble pipeline once and writes
// the workbook, sharing every stage with the dashboard so both always agree.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookspring/impact-dashboard-tui/internal/config"
	"github.com/bookspring/impact-dashboard-tui/internal/fusioo"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/normalize"
	"github.com/bookspring/impact-dashboard-tui/internal/report"
	"github.com/bookspring/impact-dashboard-tui/internal/services"
	"github.com/bookspring/impact-dashboard-tui/internal/services/goals"
	"github.com/bookspring/impact-dashboard-tui/internal/version"
)

type reportFlags struct {
	source   string
	start    string
	end      string
	timeUnit string
	output   string
	compare  bool
}

func main() {
	flags := &reportFlags{}

	rootCmd := &cobra.Command{
		Use:     "idt-report",
		Short:   "Generate a BookSpring impact report workbook",
		Long:    "Runs the Fusioo data pipeline once and writes the impact metrics as an Excel workbook.",
		Version: version.GetVersion(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runReport(cmd.Context(), flags)
		},
	}

	rootCmd.Flags().StringVarP(&flags.source, "source", "s", "activity",
		"data source (activity | partners)")
	rootCmd.Flags().StringVarP(&flags.start, "start", "S", "",
		"start date (YYYY-MM-DD, default: 1 year ago)")
	rootCmd.Flags().StringVarP(&flags.end, "end", "E", "",
		"end date (YYYY-MM-DD, default: today)")
	rootCmd.Flags().StringVarP(&flags.timeUnit, "time-unit", "t", "month",
		"time aggregation unit (day|week|month|quarter|year|fiscal_year)")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: reports/impact_report_<YYYYMMDD>.xlsx)")
	rootCmd.Flags().BoolVar(&flags.compare, "compare", false,
		"include a comparison against the previous period of equal length")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReport(ctx context.Context, flags *reportFlags) error {
	window, err := resolveWindow(flags.start, flags.end)
	if err != nil {
		return err
	}

	unit, err := models.ParseTimeUnit(flags.timeUnit)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	clientCfg := fusioo.DefaultConfig()
	clientCfg.AccessToken = cfg.AccessToken
	clientCfg.BaseURL = cfg.APIBase
	client := fusioo.New(clientCfg)

	fmt.Printf("Loading data from Fusioo (%s)...\n", flags.source)
	input, err := collectInput(ctx, client, cfg, flags.source)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d records\n", len(input.Records))

	fmt.Printf("Generating report with %s aggregation...\n", unit)
	bundle := report.Assemble(input, report.Options{
		Window:  window,
		Unit:    unit,
		Targets: loadTargets(cfg.GoalsPath),
		Compare: flags.compare,
	})

	output := flags.output
	if output == "" {
		output = services.DefaultExportPath(time.Now())
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := report.WriteWorkbook(bundle, output); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	fmt.Printf("Report saved to: %s (%d records in window, %d schema warnings)\n",
		output, bundle.RecordCount, bundle.WarningCount)
	return nil
}

// collectInput fetches the selected record stream plus the supporting
// collections. The partners source reads the legacy engagement collection on
// its own instead of the merged activity collections.
func collectInput(ctx context.Context, client *fusioo.Client, cfg *config.Config, source string) (report.Input, error) {
	var (
		records  []models.NormalizedRecord
		warnings []models.SchemaWarning
	)

	switch source {
	case "activity":
		current, err := client.FetchAllRecords(ctx, models.SourceActivity, cfg.Apps.ActivityReports)
		if err != nil {
			return report.Input{}, fmt.Errorf("activity reports fetch: %w", err)
		}
		legacy, err := client.FetchAllRecords(ctx, models.SourceLegacy, cfg.Apps.LegacyData)
		if err != nil {
			return report.Input{}, fmt.Errorf("legacy data fetch: %w", err)
		}
		records, warnings = normalize.Merge(current, legacy, cfg.LegacyCutoff)

	case "partners":
		// The partner engagement stream lives in the legacy collection.
		// Nothing supersedes it here, so no cutoff filtering applies.
		raw, err := client.FetchAllRecords(ctx, models.SourceLegacy, cfg.Apps.LegacyData)
		if err != nil {
			return report.Input{}, fmt.Errorf("partner engagement fetch: %w", err)
		}
		records, warnings = normalize.Merge(raw, nil, cfg.LegacyCutoff)

	default:
		return report.Input{}, fmt.Errorf("unknown source %q (want activity or partners)", source)
	}

	rawViews, err := client.FetchAllRecords(ctx, models.SourceContentViews, cfg.Apps.ContentViews)
	if err != nil {
		return report.Input{}, fmt.Errorf("content views fetch: %w", err)
	}
	views, viewWarnings := normalize.ContentViews(rawViews)
	warnings = append(warnings, viewWarnings...)

	rawBooks, err := client.FetchAllRecords(ctx, models.SourceOriginalBooks, cfg.Apps.OriginalBooks)
	if err != nil {
		return report.Input{}, fmt.Errorf("original books fetch: %w", err)
	}

	var partners []models.PartnerRecord
	if rawPartners, err := client.FetchAllRecords(ctx, models.SourcePartners, cfg.Apps.PartnerSites); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: partner sites fetch failed, continuing without partner data: %v\n", err)
	} else {
		partners = normalize.Partners(rawPartners)
	}

	return report.Input{
		Records:  records,
		Views:    views,
		Books:    normalize.OriginalBooks(rawBooks),
		Partners: partners,
		Warnings: warnings,
	}, nil
}

// resolveWindow parses the start/end flags, defaulting to the trailing year
// ending today.
func resolveWindow(start, end string) (models.Window, error) {
	now := time.Now()
	window := models.TrailingYear(now)

	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return models.Window{}, fmt.Errorf("invalid --start date %q (want YYYY-MM-DD)", start)
		}
		window.Start = t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return models.Window{}, fmt.Errorf("invalid --end date %q (want YYYY-MM-DD)", end)
		}
		window.End = t
	}
	if window.End.Before(window.Start) {
		return models.Window{}, fmt.Errorf("--end %s is before --start %s",
			window.End.Format("2006-01-02"), window.Start.Format("2006-01-02"))
	}

	return models.NewWindow(window.Start, window.End), nil
}

// loadTargets reads the goal targets file, falling back to the defaults when
// the goals service cannot start.
func loadTargets(path string) models.GoalTargets {
	svc, err := goals.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load goal targets, using defaults: %v\n", err)
		return models.DefaultGoalTargets()
	}
	defer svc.Close()
	return svc.Targets()
}
