package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiMaxal/pairs3d/config"
	"github.com/tiMaxal/pairs3d/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pairs3d",
	Short: "Sort stereo image pairs out of folders of mixed images.",
	Long: `pairs3d separates a folder of images into stereo pairs and singles.
Two images count as a pair when their timestamps are close and their
perceptual hashes are similar. Pairs move into a _pairs subfolder and
unmatched images into _singles, each alongside the originals.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	config.InitFlags(rootCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration and wires up logging for one command.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfigs(cmd.Root())
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.Logfile, cfg.Debug); err != nil {
		return nil, fmt.Errorf("cannot set up logging: %w", err)
	}
	return cfg, nil
}

// resolveFolder picks the folder to operate on: the positional argument when
// given, otherwise the folder remembered from the previous session.
func resolveFolder(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if folder := config.LoadLastFolder(); folder != "" {
		logging.LogInfo("using remembered folder: %s", folder)
		return folder, nil
	}
	return "", fmt.Errorf("no folder given and none remembered; pass a folder path")
}
