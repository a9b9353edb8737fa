package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tiMaxal/pairs3d/types"
)

// Config is the resolved configuration for one invocation, merged from
// defaults, an optional pairs3d.yaml, environment variables, and flags.
type Config struct {
	TimeDiff       float64 `mapstructure:"time_diff"`
	HashDiff       int     `mapstructure:"hash_diff"`
	Recursive      bool    `mapstructure:"recursive"`
	IncludeSingles bool    `mapstructure:"include_singles"`
	ExifTime       bool    `mapstructure:"exif_time"`
	Database       string  `mapstructure:"db"`
	Debug          bool    `mapstructure:"debug"`
	Logfile        string  `mapstructure:"logfile"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	TimeDiff: types.DefaultTimeDiffThreshold.Seconds(),
	HashDiff: types.DefaultHashDiffThreshold,
}

// Thresholds converts the configured values into pairing thresholds,
// coercing invalid input to the minimums rather than failing.
func (c *Config) Thresholds() types.Thresholds {
	return types.Thresholds{
		TimeDiff: time.Duration(c.TimeDiff * float64(time.Second)),
		HashDiff: c.HashDiff,
	}.Normalize()
}

// InitFlags registers the shared flags on the root command.
func InitFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.Float64("time-diff", DefaultConfig.TimeDiff, "Maximum timestamp difference in seconds for two images to be pairing candidates.")
	flags.Int("hash-diff", DefaultConfig.HashDiff, "Perceptual hash distance two images must stay strictly below to pair.")
	flags.BoolP("recursive", "r", false, "Process subfolders, each sorted into its own _pairs/_singles.")
	flags.Bool("include-singles", false, "Re-process images already inside _singles folders.")
	flags.Bool("exif-time", false, "Pair on EXIF capture time (DateTimeOriginal) instead of file modification time.")
	flags.String("db", "", "Path to the run-history database (default: history.db next to the executable).")
	flags.Bool("debug", false, "Enable debug logging.")
	flags.String("logfile", "", "Write logs to this file instead of the console.")
}

// LoadConfigs resolves the configuration for the current command. A missing
// config file is fine; invalid threshold values are coerced later, never
// fatal.
func LoadConfigs(rootCmd *cobra.Command) (*Config, error) {
	v := viper.New()

	v.SetDefault("time_diff", DefaultConfig.TimeDiff)
	v.SetDefault("hash_diff", DefaultConfig.HashDiff)
	v.SetDefault("recursive", false)
	v.SetDefault("include_singles", false)
	v.SetDefault("exif_time", false)
	v.SetDefault("db", "")
	v.SetDefault("debug", false)
	v.SetDefault("logfile", "")

	v.SetEnvPrefix("PAIRS3D")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("pairs3d")
	v.SetConfigType("yaml")
	if cwd, err := os.Getwd(); err == nil {
		v.AddConfigPath(cwd)
	}
	v.AddConfigPath(executableDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	flags := rootCmd.PersistentFlags()
	_ = v.BindPFlag("time_diff", flags.Lookup("time-diff"))
	_ = v.BindPFlag("hash_diff", flags.Lookup("hash-diff"))
	_ = v.BindPFlag("recursive", flags.Lookup("recursive"))
	_ = v.BindPFlag("include_singles", flags.Lookup("include-singles"))
	_ = v.BindPFlag("exif_time", flags.Lookup("exif-time"))
	_ = v.BindPFlag("db", flags.Lookup("db"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("logfile", flags.Lookup("logfile"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}

	if config.Database == "" {
		config.Database = DefaultDatabasePath()
	}
	return &config, nil
}

// DefaultDatabasePath places the run-history database next to the executable.
func DefaultDatabasePath() string {
	return filepath.Join(executableDir(), "history.db")
}

func executableDir() string {
	exePath, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exePath)
}
