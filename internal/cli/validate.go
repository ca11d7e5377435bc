package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/treediff/treediff/internal/platform"
	"github.com/treediff/treediff/pkg/config"
	"github.com/treediff/treediff/pkg/models"
)

// validateCompareArgs validates the two root path arguments.
// Neither root is required to exist: a missing first root yields an empty
// report and a missing second root classifies every file as new.
func validateCompareArgs(rootA, rootB string) error {
	if err := platform.ValidatePath(rootA); err != nil {
		return err
	}
	if err := platform.ValidatePath(rootB); err != nil {
		return err
	}

	rootAAbs, err := filepath.Abs(rootA)
	if err != nil {
		return fmt.Errorf("failed to resolve first root: %w", err)
	}
	rootBAbs, err := filepath.Abs(rootB)
	if err != nil {
		return fmt.Errorf("failed to resolve second root: %w", err)
	}

	if rootAAbs == rootBAbs {
		return fmt.Errorf("the two roots cannot be the same: %s", rootAAbs)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) {
	if len(compareFlags.Exclude) > 0 {
		cfg.Exclude = compareFlags.Exclude
	}

	if compareFlags.Output != "" {
		cfg.Output.Format = compareFlags.Output
	}

	if compareFlags.ShowUnchanged {
		cfg.Compare.ShowUnchanged = true
	}

	if compareFlags.Progress {
		cfg.Output.Progress = true
	}

	if compareFlags.BandwidthLimit > 0 {
		cfg.Compare.BandwidthLimit = compareFlags.BandwidthLimit
	}

	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createCompareOperation creates a comparison operation from configuration
func createCompareOperation(cfg *config.Config, rootA, rootB string) (*models.CompareOperation, error) {
	operation := &models.CompareOperation{
		ID:              uuid.New().String(),
		RootA:           platform.NormalizePath(rootA),
		RootB:           platform.NormalizePath(rootB),
		ExcludePatterns: cfg.Exclude,
		BandwidthLimit:  cfg.Compare.BandwidthLimit,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
