package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"blackspot/internal/logging"
	"blackspot/internal/scan"
	"blackspot/internal/services/plex"
	"blackspot/internal/suspect"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		libraryID          string
		timeDiffMinutes    float64
		blacknessThreshold float64
		forceBlackCheck    bool
		dryRun             bool
		workers            int
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a library section for black auto-generated thumbnails",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("library-id") {
				cfg.Plex.LibraryID = strings.TrimSpace(libraryID)
			}
			if cmd.Flags().Changed("time-diff-minutes") {
				cfg.Analysis.TimeDiffMinutes = timeDiffMinutes
			}
			if cmd.Flags().Changed("blackness-threshold") {
				cfg.Analysis.BlacknessThreshold = blacknessThreshold
			}
			if cmd.Flags().Changed("force-black-check") {
				cfg.Analysis.ForceBlackCheck = forceBlackCheck
			}
			if cmd.Flags().Changed("workers") {
				cfg.Analysis.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Plex.LibraryID == "" {
				return fmt.Errorf("no library section selected; set plex.library_id, export PLEX_LIBRARY_ID, or pass --library-id")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			client := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, cfg.RequestTimeout(), nil)
			thresholds := suspect.Thresholds{
				TimeDiff:  cfg.TimeDiffThreshold(),
				Blackness: cfg.Analysis.BlacknessThreshold,
			}
			evaluator := suspect.NewEvaluator(thresholds, cfg.Analysis.ForceBlackCheck, client.FetchThumbnail, logger)

			runner, err := scan.New(scan.Options{
				Source:    scan.NewPlexSource(client),
				Evaluator: evaluator,
				Executor:  client,
				Logger:    logger,
				LibraryID: cfg.Plex.LibraryID,
				Workers:   cfg.Analysis.Workers,
				DryRun:    dryRun,
				LockPath:  filepath.Join(cfg.Paths.LogDir, "blackspot.lock"),
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := runner.Run(runCtx)
			if err != nil {
				return err
			}
			if err := runCtx.Err(); err != nil {
				return context.Canceled
			}

			printScanReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&libraryID, "library-id", "", "Library section to scan (overrides configuration)")
	cmd.Flags().Float64Var(&timeDiffMinutes, "time-diff-minutes", 0, "Updated/added gap in minutes below which an item is suspicious")
	cmd.Flags().Float64Var(&blacknessThreshold, "blackness-threshold", 0, "Black-pixel fraction at or above which a thumbnail counts as black")
	cmd.Flags().BoolVar(&forceBlackCheck, "force-black-check", false, "Check every thumbnail, not just suspicious items")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report decisions without issuing analyze or refresh calls")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent item evaluations")

	return cmd
}

func printScanReport(cmd *cobra.Command, report *scan.Report) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Scan "+report.RunID, colorize) {
		fmt.Fprintln(out, line)
	}

	if report.SourceUnavailable {
		fmt.Fprintln(out, renderStatusLine("Library", statusError, "listing failed; nothing evaluated", colorize))
		return
	}

	fmt.Fprintln(out, renderStatusLine("Library", statusInfo, report.LibraryID, colorize))
	fmt.Fprintln(out, renderStatusLine("Evaluated", statusInfo, fmt.Sprintf("%d", report.Evaluated()), colorize))
	fmt.Fprintln(out, renderStatusLine("Suspicious", statusKindFor(report.Suspicious() > 0), fmt.Sprintf("%d", report.Suspicious()), colorize))
	fmt.Fprintln(out, renderStatusLine("Black", statusKindFor(report.Black() > 0), fmt.Sprintf("%d", report.Black()), colorize))
	fmt.Fprintln(out, renderStatusLine("Dry run", statusInfo, yesNo(report.DryRun), colorize))
	if failures := report.ActionFailures(); failures > 0 {
		fmt.Fprintln(out, renderStatusLine("Action failures", statusError, fmt.Sprintf("%d", failures), colorize))
	}

	rows := flaggedRows(report)
	if len(rows) == 0 {
		fmt.Fprintln(out, "No items need attention")
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]string{"Key", "Title", "Suspicious", "Black", "Reason", "Action", "Dispatched"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

func flaggedRows(report *scan.Report) [][]string {
	rows := make([][]string, 0)
	for _, res := range report.Results {
		if res.Outcome.Action == suspect.NoAction && res.ActionErr == nil {
			continue
		}
		dispatched := yesNo(res.Dispatched)
		if res.ActionErr != nil {
			dispatched = "failed"
		}
		rows = append(rows, []string{
			res.Item.Key,
			res.Item.Title,
			yesNo(res.Outcome.Suspicious),
			yesNo(res.Outcome.Black),
			blackReason(res.Outcome),
			res.Outcome.Action.String(),
			dispatched,
		})
	}
	return rows
}

func blackReason(outcome suspect.Outcome) string {
	if !outcome.Checked {
		return "not checked"
	}
	if outcome.Verdict.Reason == suspect.ReasonRatio {
		return fmt.Sprintf("ratio %.3f", outcome.Verdict.Ratio)
	}
	return outcome.Verdict.Reason.String()
}

func statusKindFor(flagged bool) statusKind {
	if flagged {
		return statusWarn
	}
	return statusOK
}
