package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/treediff/treediff/pkg/compare"
	"github.com/treediff/treediff/pkg/config"
	"github.com/treediff/treediff/pkg/logging"
	"github.com/treediff/treediff/pkg/models"
	"github.com/treediff/treediff/pkg/output"
	"github.com/treediff/treediff/pkg/storage"
)

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <dir-a> <dir-b>",
		Short: "Compare two directory trees by content",
		Long: `Recursively compare every file under the first directory against its
counterpart in the second directory, classifying each as changed, new or
unchanged based on content hashing. Timestamps are ignored, symbolic links
are skipped, and files only present in the second directory are not reported.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().StringSliceVarP(&compareFlags.Exclude, "exclude", "e", []string{}, "regular expressions excluding matching paths")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVarP(&compareFlags.ShowUnchanged, "show-unchanged", "u", false, "list unchanged files in the output")
	cmd.Flags().BoolVar(&compareFlags.Progress, "progress", false, "show a progress counter while comparing")
	cmd.Flags().Int64Var(&compareFlags.BandwidthLimit, "bwlimit", 0, "limit read throughput in bytes per second")
	cmd.Flags().BoolVar(&compareFlags.ExitCode, "exit-code", false, "exit with status 1 when differences are found")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rootA, rootB := args[0], args[1]
	if err := validateCompareArgs(rootA, rootB); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cfg)

	operation, err := createCompareOperation(cfg, rootA, rootB)
	if err != nil {
		return fmt.Errorf("failed to create comparison: %w", err)
	}

	source, err := storage.NewLocal(operation.RootA)
	if err != nil {
		return fmt.Errorf("failed to open first root: %w", err)
	}
	defer source.Close()

	dest, err := storage.NewLocal(operation.RootB)
	if err != nil {
		return fmt.Errorf("failed to open second root: %w", err)
	}
	defer dest.Close()

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	engine, err := compare.NewEngine(source, dest, logger, operation)
	if err != nil {
		return err
	}

	formatter := newFormatter(cfg)
	if err := formatter.Start(os.Stdout, operation); err != nil {
		return err
	}

	formatterProgress := func(path string, class models.Classification, classified int) {
		formatter.Progress(output.ProgressUpdate{
			Path:           path,
			Classification: class,
			Classified:     classified,
		})
	}
	engine.SetProgressCallback(formatterProgress)

	report, err := engine.Run(ctx)
	if err != nil {
		formatter.Error(err)
		return err
	}

	if err := formatter.Complete(report); err != nil {
		return err
	}

	if compareFlags.ExitCode && report.HasDifferences() {
		os.Exit(1)
	}

	return nil
}

func newFormatter(cfg *config.Config) output.Formatter {
	if cfg.Output.Progress {
		return output.NewProgressFormatter()
	}
	if cfg.Output.Format == "json" {
		return output.NewJSONFormatter(cfg.Compare.ShowUnchanged)
	}
	return output.NewHumanFormatter(cfg.Compare.ShowUnchanged)
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled || cfg.Logging.File == "" {
		return logging.NewNullLogger(), nil
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if globalFlags.Verbose {
		level = logging.DebugLevel
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:   cfg.Logging.File,
		Format: logging.Format(cfg.Logging.Format),
		Level:  level,
	})
}
