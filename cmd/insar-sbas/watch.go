package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
	"github.com/robert-malhotra/insar-sbas/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch <batch-id>",
	Short: "Wait for a submitted batch to finish",
	Long: `Watch polls the processing service until every job in the batch has
succeeded or failed, updating the tracking store as statuses change.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	batch, err := s.GetBatch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading batch: %w", err)
	}

	processor := hyp3.NewClient(cfg.HyP3.BaseURL, cfg.HyP3.Token, cfg.HyP3.Timeout).WithLogger(logger)
	jobs, err := processor.Watch(cmd.Context(), batch.Name, cfg.HyP3.PollInterval)
	if err != nil {
		return err
	}

	succeeded, failed := 0, 0
	for _, job := range jobs {
		if err := s.UpdateJobStatus(cmd.Context(), job.JobID, job.Status); err != nil {
			logger.Warn("failed to record job status",
				"job_id", job.JobID, "error", err)
		}
		switch job.Status {
		case hyp3.StatusSucceeded:
			succeeded++
		case hyp3.StatusFailed:
			failed++
		}
	}

	fmt.Printf("batch %s finished: %d succeeded, %d failed\n", batch.ID, succeeded, failed)
	if failed > 0 {
		return fmt.Errorf("%d jobs failed", failed)
	}
	return nil
}
