package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"bjxgj-exporter/lib/configutil"
	"bjxgj-exporter/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "bjxgj-cli",
	Short: "bjxgj-cli exports 班级小管家 score sheets, student info sheets and class rosters to Excel.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

type Config struct {
	// where the cached session record lives
	CachePath string `json:"cache_path"`
	// record-list page size
	PageSize int `json:"page_size"`
	// directory exported workbooks are written to
	OutputDir string `json:"output_dir"`
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		fatal("failed to read config", err)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 20
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg
}
