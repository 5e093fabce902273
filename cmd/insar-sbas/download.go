package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
	"github.com/robert-malhotra/insar-sbas/internal/store"
)

var downloadCmd = &cobra.Command{
	Use:   "download <batch-id>",
	Short: "Download and unpack a finished batch's products",
	Long: `Download fetches the product archive of every succeeded job in the batch,
unpacks it, and records the product directory in the tracking store.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("dir", ".", "directory to download and unpack products into")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
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
	jobs, err := processor.Jobs(cmd.Context(), hyp3.JobQuery{
		Name:   batch.Name,
		Status: hyp3.StatusSucceeded,
	})
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("batch %s has no succeeded jobs", batch.ID)
	}

	dir, _ := cmd.Flags().GetString("dir")
	downloadDir := filepath.Join(dir, "downloads")
	productDir := filepath.Join(dir, "products")

	var productDirs []string
	for _, job := range jobs {
		paths, err := processor.DownloadFiles(cmd.Context(), job, downloadDir)
		if err != nil {
			return err
		}
		for _, path := range paths {
			if filepath.Ext(path) != ".zip" {
				continue
			}
			unpacked, err := hyp3.ExtractZip(path, productDir)
			if err != nil {
				return err
			}
			productDirs = append(productDirs, unpacked)
			if err := s.SetJobProduct(cmd.Context(), job.JobID, unpacked); err != nil {
				logger.Warn("failed to record product path",
					"job_id", job.JobID, "error", err)
			}
		}
	}

	fmt.Printf("downloaded %d products into %s\n", len(productDirs), productDir)
	return nil
}
