package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tiMaxal/pairs3d/config"
	"github.com/tiMaxal/pairs3d/database"
	"github.com/tiMaxal/pairs3d/imageprocessor"
	"github.com/tiMaxal/pairs3d/logging"
	"github.com/tiMaxal/pairs3d/pairing"
	"github.com/tiMaxal/pairs3d/relocator"
	"github.com/tiMaxal/pairs3d/scanner"
	"github.com/tiMaxal/pairs3d/signalhandler"
	"github.com/tiMaxal/pairs3d/types"
)

var sortCmd = &cobra.Command{
	Use:   "sort [folder]",
	Short: "Sort a folder of images into _pairs and _singles subfolders.",
	Long: `Sort indexes the candidate images under the folder (the one given, or
the folder remembered from the last run), pairs them by timestamp proximity
and perceptual similarity, then moves pairs into _pairs and singles into
_singles next to each image. Send SIGUSR1 to pause and resume; Ctrl-C stops
the scan and reports the pairs found so far without moving anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		folder, err := resolveFolder(args)
		if err != nil {
			return err
		}
		return runSort(cfg, folder)
	},
}

func runSort(cfg *config.Config, folder string) error {
	thresholds := cfg.Thresholds()
	logging.LogInfo("thresholds: time=%s hash=%d", thresholds.TimeDiff, thresholds.HashDiff)

	scanOptions := scanner.ScanOptions{
		FolderPath:     folder,
		Recursive:      cfg.Recursive,
		IncludeSingles: cfg.IncludeSingles,
	}
	if cfg.ExifTime {
		ts, err := scanner.NewExifTimestamper()
		if err != nil {
			return err
		}
		defer ts.Close()
		scanOptions.Timestamper = ts
	}

	groups, err := scanner.CollectImages(scanOptions)
	if err != nil {
		return err
	}
	records := scanner.Flatten(groups)
	fmt.Printf("Found %d images in %d folders\n", len(records), len(groups))

	control := pairing.NewControl()
	ctx, cancel := signalhandler.SetupRunContext(context.Background(), control)
	defer cancel()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("pairing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)

	engine := pairing.Engine{
		Oracle:  imageprocessor.NewPHashOracle(),
		Control: control,
		Progress: func(u types.ProgressUpdate) {
			_ = bar.Set(u.Percent)
		},
	}

	start := time.Now()
	result, runErr := engine.Run(ctx, records, thresholds)
	_ = bar.Finish()

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			fmt.Printf("Interrupted: %d pairs found before stopping; nothing was moved.\n", len(result.Pairs))
			return nil
		}
		return runErr
	}

	executor := relocator.NewExecutor()
	stats := executor.Relocate(result)
	executor.CleanupEmptyDirs()

	elapsed := time.Since(start) - control.PausedDuration()
	fmt.Println(renderTable(
		[]string{"Result", "Count"},
		[][]string{
			{"Pairs moved", fmt.Sprintf("%d", stats.PairsMoved)},
			{"Singles moved", fmt.Sprintf("%d", stats.SinglesMoved)},
			{"Images seen", fmt.Sprintf("%d", len(records))},
			{"Elapsed", elapsed.Round(time.Second).String()},
		},
		[]columnAlignment{alignLeft, alignRight},
	))

	recordRun(cfg, folder, len(records), stats, thresholds, elapsed)
	config.SaveLastFolder(folder)
	return nil
}

// recordRun appends the run to the history ledger. Sorting never fails over
// ledger problems.
func recordRun(cfg *config.Config, folder string, imagesSeen int, stats relocator.MoveStats, thresholds types.Thresholds, elapsed time.Duration) {
	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		logging.LogWarning("cannot open run history %s: %v", cfg.Database, err)
		return
	}
	defer db.Close()

	err = database.RecordRun(db, types.RunSummary{
		Folder:       folder,
		Recursive:    cfg.Recursive,
		TimeDiff:     thresholds.TimeDiff,
		HashDiff:     thresholds.HashDiff,
		ImagesSeen:   imagesSeen,
		PairsMoved:   stats.PairsMoved,
		SinglesMoved: stats.SinglesMoved,
		Elapsed:      elapsed,
		FinishedAt:   time.Now(),
	})
	if err != nil {
		logging.LogWarning("cannot record run: %v", err)
	}
}
