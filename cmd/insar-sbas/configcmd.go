package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/mintpy"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the time-series analysis configuration",
	Long: `Config renders the smallbaselineApp configuration pointing at the clipped
rasters under the product directory. Without --out the configuration is
written to stdout.`,
	RunE: runConfigCmd,
}

func init() {
	configCmd.Flags().String("product-dir", "", "directory holding the unpacked, clipped products (required)")
	configCmd.Flags().String("out", "", "output path (default stdout)")
	configCmd.Flags().String("tropospheric-delay", "", "tropospheric correction method (default off)")
	configCmd.Flags().StringToString("set", nil, "extra key=value entries to include")
	configCmd.MarkFlagRequired("product-dir")

	rootCmd.AddCommand(configCmd)
}

func runConfigCmd(cmd *cobra.Command, args []string) error {
	productDir, _ := cmd.Flags().GetString("product-dir")
	tropo, _ := cmd.Flags().GetString("tropospheric-delay")
	extra, _ := cmd.Flags().GetStringToString("set")

	opts := mintpy.ConfigOptions{
		ProductDir:        productDir,
		TroposphericDelay: tropo,
		Extra:             extra,
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		content, err := mintpy.BuildConfig(opts)
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	}

	if err := mintpy.WriteConfig(out, opts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}
