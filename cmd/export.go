package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tiMaxal/pairs3d/relocator"
)

var exportCmd = &cobra.Command{
	Use:   "export [folder]",
	Short: "Duplicate a sorted tree keeping only the _pairs contents.",
	Long: `Export walks a previously sorted folder tree and moves the contents of
every _pairs subfolder into a sibling tree named "x2<folder>", preserving the
relative layout. _singles folders are ignored, and _pairs folders emptied by
the move are removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		folder, err := resolveFolder(args)
		if err != nil {
			return err
		}

		moved, err := relocator.ExportPairsTree(folder)
		if err != nil {
			return err
		}

		dest := filepath.Join(filepath.Dir(folder), relocator.ExportPrefix+filepath.Base(folder))
		fmt.Printf("Moved %d paired files to %s\n", moved, dest)
		return nil
	},
}
