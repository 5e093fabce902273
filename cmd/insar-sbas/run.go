package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
	"github.com/robert-malhotra/insar-sbas/internal/mintpy"
	"github.com/robert-malhotra/insar-sbas/internal/store"
	"github.com/robert-malhotra/insar-sbas/internal/workflow"
)

var runCmd = &cobra.Command{
	Use:   "run <workflow.yaml>",
	Short: "Run the full pipeline from a workflow definition",
	Long: `Run executes every pipeline stage from a YAML definition: catalog search,
reference and pair selection, job submission, watching, download,
clipping, and time-series setup. The first failing stage aborts the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	def, err := workflow.Load(args[0])
	if err != nil {
		return err
	}
	if cfg.HyP3.Token == "" {
		return fmt.Errorf("job submission requires an Earthdata token (INSAR_HYP3_TOKEN)")
	}

	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	catalog := asf.NewClient(cfg.ASF.BaseURL, cfg.ASF.Timeout).WithLogger(logger)
	processor := hyp3.NewClient(cfg.HyP3.BaseURL, cfg.HyP3.Token, cfg.HyP3.Timeout).WithLogger(logger)
	analysis := mintpy.NewRunner(cfg.MintPy.Executable).WithLogger(logger)

	runner := workflow.NewRunner(catalog, processor, s, analysis, cfg.HyP3.PollInterval, logger)
	result, err := runner.Run(cmd.Context(), def)
	if err != nil {
		return err
	}

	fmt.Printf("batch %s complete: %d pairs, %d products, config at %s\n",
		result.BatchID, len(result.Pairs), len(result.ProductDirs), result.ConfigPath)
	return nil
}
