package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
	"github.com/robert-malhotra/insar-sbas/internal/sbas"
)

var pairsCmd = &cobra.Command{
	Use:   "pairs <reference-scene>",
	Short: "Select short-baseline interferogram pairs",
	Long: `Pairs builds the baseline stack for the reference scene and selects every
scene pair whose temporal separation is positive and within the limit,
optionally bounded by perpendicular baseline as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runPairs,
}

func init() {
	pairsCmd.Flags().Int("max-temporal-days", 24, "maximum temporal baseline between pair scenes in days")
	pairsCmd.Flags().Float64("max-perpendicular", 0, "maximum perpendicular baseline in meters (0 = no limit)")

	rootCmd.AddCommand(pairsCmd)
}

func runPairs(cmd *cobra.Command, args []string) error {
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
	stack, err := sbas.NewStack(reference, fc)
	if err != nil {
		return err
	}

	maxDays, _ := cmd.Flags().GetInt("max-temporal-days")
	maxPerp, _ := cmd.Flags().GetFloat64("max-perpendicular")
	pairs, err := stack.SelectPairs(sbas.PairOptions{
		MaxTemporalDays:  maxDays,
		MaxPerpendicular: maxPerp,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REFERENCE\tSECONDARY")
	for _, pair := range pairs {
		fmt.Fprintf(w, "%s\t%s\n", pair.Reference, pair.Secondary)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d pairs from %d scenes\n", len(pairs), stack.Len())
	return nil
}
