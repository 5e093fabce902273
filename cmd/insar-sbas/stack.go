package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
	"github.com/robert-malhotra/insar-sbas/internal/sbas"
	"github.com/robert-malhotra/insar-sbas/internal/stac"
)

var stackCmd = &cobra.Command{
	Use:   "stack <reference-scene>",
	Short: "Show the baseline stack for a reference scene",
	Long: `Stack queries the catalog's baseline endpoint for every scene sharing the
reference's geometry and prints each scene's temporal and perpendicular
baselines relative to the reference.`,
	Args: cobra.ExactArgs(1),
	RunE: runStack,
}

func init() {
	stackCmd.Flags().Bool("stac", false, "write the stack as a STAC ItemCollection")

	rootCmd.AddCommand(stackCmd)
}

func runStack(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	reference := args[0]

	client := asf.NewClient(cfg.ASF.BaseURL, cfg.ASF.Timeout).WithLogger(logger)
	fc, err := client.BaselineStack(cmd.Context(), reference)
	if err != nil {
		return err
	}

	if asSTAC, _ := cmd.Flags().GetBool("stac"); asSTAC {
		return stac.WriteStack(os.Stdout, fc.Features, "baseline-stack")
	}

	stack, err := sbas.NewStack(reference, fc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tTEMPORAL (days)\tPERPENDICULAR (m)")
	for _, scene := range stack.Scenes {
		fmt.Fprintf(w, "%s\t%d\t%.1f\n",
			scene.Name, scene.TemporalBaseline, scene.PerpendicularBaseline)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d scenes spanning %d days\n", stack.Len(), stack.Span())
	return nil
}
