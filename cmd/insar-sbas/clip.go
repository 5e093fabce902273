package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/raster"
)

var clipCmd = &cobra.Command{
	Use:   "clip <product-dir>...",
	Short: "Clip product rasters to their common overlap",
	Long: `Clip computes the extent shared by every product's unwrapped phase raster
and windows each raster to it, writing *_clipped.tif files alongside the
originals. Time-series analysis requires all inputs on one grid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClip,
}

func init() {
	rootCmd.AddCommand(clipCmd)
}

func runClip(cmd *cobra.Command, args []string) error {
	_, logger, err := loadConfig()
	if err != nil {
		return err
	}

	clipped, err := raster.ClipProducts(cmd.Context(), args, logger)
	if err != nil {
		return err
	}

	fmt.Printf("clipped %d rasters across %d products\n", len(clipped), len(args))
	return nil
}
