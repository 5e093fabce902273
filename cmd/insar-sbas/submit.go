package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
	"github.com/robert-malhotra/insar-sbas/internal/sbas"
	"github.com/robert-malhotra/insar-sbas/internal/store"
)

var submitCmd = &cobra.Command{
	Use:   "submit <reference-scene>",
	Short: "Submit interferogram jobs for the selected pairs",
	Long: `Submit selects short-baseline pairs for the reference scene and submits
one interferogram job per pair to the on-demand processing service. The
batch and its jobs are recorded in the tracking store.`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().String("name", "", "batch name used to group the jobs (required)")
	submitCmd.Flags().String("project", "", "project the batch belongs to")
	submitCmd.Flags().Int("max-temporal-days", 24, "maximum temporal baseline between pair scenes in days")
	submitCmd.Flags().Float64("max-perpendicular", 0, "maximum perpendicular baseline in meters (0 = no limit)")
	submitCmd.Flags().String("job-type", string(hyp3.JobTypeInsarGamma), "processing job type")
	submitCmd.Flags().String("looks", "", "multilooking setting, e.g. 20x4")
	submitCmd.Flags().Bool("include-dem", true, "include the DEM in the product")
	submitCmd.Flags().Bool("include-inc-map", false, "include the incidence angle map")
	submitCmd.Flags().Bool("include-look-vectors", false, "include the look vectors")
	submitCmd.Flags().Bool("include-wrapped-phase", false, "include the wrapped phase")
	submitCmd.Flags().Bool("apply-water-mask", false, "mask water before unwrapping")
	submitCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	reference := args[0]

	if cfg.HyP3.Token == "" {
		return fmt.Errorf("job submission requires an Earthdata token (INSAR_HYP3_TOKEN)")
	}

	name, _ := cmd.Flags().GetString("name")
	jobType := hyp3.JobType(mustString(cmd, "job-type"))
	switch jobType {
	case hyp3.JobTypeInsarGamma, hyp3.JobTypeInsarIsceBurst:
	default:
		return fmt.Errorf("unknown job type %q", jobType)
	}

	catalog := asf.NewClient(cfg.ASF.BaseURL, cfg.ASF.Timeout).WithLogger(logger)
	fc, err := catalog.BaselineStack(cmd.Context(), reference)
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
	if len(pairs) == 0 {
		return fmt.Errorf("no pairs within %d days", maxDays)
	}

	options := hyp3.InsarOptions{
		Looks:               mustString(cmd, "looks"),
		IncludeDEM:          mustBool(cmd, "include-dem"),
		IncludeIncMap:       mustBool(cmd, "include-inc-map"),
		IncludeLookVectors:  mustBool(cmd, "include-look-vectors"),
		IncludeWrappedPhase: mustBool(cmd, "include-wrapped-phase"),
		ApplyWaterMask:      mustBool(cmd, "apply-water-mask"),
	}
	specs := make([]hyp3.JobSpec, 0, len(pairs))
	for _, pair := range pairs {
		specs = append(specs, hyp3.JobSpec{
			JobType: jobType,
			Name:    name,
			Parameters: hyp3.JobParameters{
				Granules:     []string{pair.Reference, pair.Secondary},
				InsarOptions: options,
			},
		})
	}

	processor := hyp3.NewClient(cfg.HyP3.BaseURL, cfg.HyP3.Token, cfg.HyP3.Timeout).WithLogger(logger)
	jobs, err := processor.SubmitJobs(cmd.Context(), specs)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	project, _ := cmd.Flags().GetString("project")
	batch := &store.Batch{
		Name:            name,
		Project:         project,
		JobType:         jobType,
		Reference:       reference,
		MaxTemporalDays: maxDays,
	}
	if err := s.CreateBatch(cmd.Context(), batch); err != nil {
		return err
	}
	if err := s.InsertJobs(cmd.Context(), batch.ID, jobs); err != nil {
		return err
	}

	fmt.Printf("submitted %d jobs as batch %s\n", len(jobs), batch.ID)
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
