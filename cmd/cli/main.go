package main

import (
	"fmt"
	"os"

	"dsemotion/domain/run"
	"dsemotion/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dsemotion",
		Short:         "Dempster-Shafer facial emotion classifier",
		Version:       run.CodeVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newClassifyCmd(),
		newKnowledgeBaseCmd(),
		newServeCmd(),
		newGenerateCmd(),
		newMigrateCmd(),
	)

	return rootCmd
}

// engineFlags are shared by every command that builds an engine; set flags override
// the environment.
type engineFlags struct {
	kbFile  string
	workers int
	mass    float64
	strict  bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kbFile, "kb", "", "knowledge base TOML file (default: built-in table, or KNOWLEDGE_BASE_FILE)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "frames fused concurrently (default: GOMAXPROCS, or WORKERS)")
	cmd.Flags().Float64Var(&f.mass, "mass", config.DefaultEvidenceMass, "mass each feature assigns to its supporting emotions (or EVIDENCE_MASS)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject batches with a constant feature (or STRICT_RANGES)")
}

// loadConfig reads the environment and applies the flags the user set.
func (f *engineFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("kb") {
		cfg.Engine.KnowledgeBaseFile = f.kbFile
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers = f.workers
	}
	if flags.Changed("mass") {
		cfg.Engine.EvidenceMass = f.mass
	}
	if flags.Changed("strict") {
		cfg.Engine.StrictRanges = f.strict
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
