package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tiMaxal/pairs3d/database"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sorting runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := database.InitDatabase(cfg.Database)
		if err != nil {
			return fmt.Errorf("cannot open run history %s: %w", cfg.Database, err)
		}
		defer db.Close()

		runs, err := database.RecentRuns(db, historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			mode := "flat"
			if run.Recursive {
				mode = "recursive"
			}
			rows = append(rows, []string{
				run.FinishedAt.Format("2006-01-02 15:04"),
				run.Folder,
				mode,
				fmt.Sprintf("%d", run.ImagesSeen),
				fmt.Sprintf("%d", run.PairsMoved),
				fmt.Sprintf("%d", run.SinglesMoved),
				run.Elapsed.Round(time.Second).String(),
			})
		}

		fmt.Println(renderTable(
			[]string{"Finished", "Folder", "Mode", "Images", "Pairs", "Singles", "Elapsed"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
		))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show.")
}
