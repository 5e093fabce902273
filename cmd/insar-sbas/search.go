package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
	"github.com/robert-malhotra/insar-sbas/internal/stac"
	"github.com/robert-malhotra/insar-sbas/pkg/geojson"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog for scenes over an area of interest",
	Long: `Search queries the satellite catalog for scenes intersecting an area of
interest (WKT), optionally narrowed by platform, beam mode, orbit
direction, relative orbit, and acquisition dates.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("aoi", "", "area of interest as WKT (POINT or POLYGON)")
	searchCmd.Flags().Float64Slice("bbox", nil, "area of interest as west,south,east,north")
	searchCmd.Flags().String("platform", "SENTINEL-1", "platform filter")
	searchCmd.Flags().String("beam-mode", "", "beam mode filter (IW, EW, SM, WV)")
	searchCmd.Flags().String("flight-direction", "", "orbit direction (ASCENDING or DESCENDING)")
	searchCmd.Flags().Int("relative-orbit", 0, "relative orbit (path) number")
	searchCmd.Flags().String("processing-level", "SLC", "processing level filter")
	searchCmd.Flags().String("start", "", "start date (YYYY-MM-DD)")
	searchCmd.Flags().String("end", "", "end date (YYYY-MM-DD)")
	searchCmd.Flags().Int("max-results", 250, "maximum number of results")
	searchCmd.Flags().Bool("stac", false, "write results as a STAC ItemCollection")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	aoi, _ := cmd.Flags().GetString("aoi")
	if aoi == "" {
		bbox, _ := cmd.Flags().GetFloat64Slice("bbox")
		if len(bbox) == 0 {
			return fmt.Errorf("an --aoi WKT or --bbox is required")
		}
		geom, err := geojson.NewPolygonFromBBox(bbox)
		if err != nil {
			return err
		}
		if aoi, err = geojson.ToWKT(geom); err != nil {
			return err
		}
	}

	params := asf.SearchParams{
		IntersectsWith: aoi,
	}
	if v, _ := cmd.Flags().GetString("platform"); v != "" {
		params.Platform = []asf.Platform{asf.Platform(v)}
	}
	if v, _ := cmd.Flags().GetString("beam-mode"); v != "" {
		params.BeamMode = []asf.BeamMode{asf.BeamMode(v)}
	}
	if v, _ := cmd.Flags().GetString("flight-direction"); v != "" {
		params.FlightDirection = asf.FlightDirection(v)
	}
	if v, _ := cmd.Flags().GetInt("relative-orbit"); v != 0 {
		params.RelativeOrbit = []int{v}
	}
	if v, _ := cmd.Flags().GetString("processing-level"); v != "" {
		params.ProcessingLevel = []asf.ProcessingLevel{asf.ProcessingLevel(v)}
	}
	params.MaxResults, _ = cmd.Flags().GetInt("max-results")

	for _, bound := range []struct {
		flag string
		dst  **time.Time
	}{
		{"start", &params.Start},
		{"end", &params.End},
	} {
		v, _ := cmd.Flags().GetString(bound.flag)
		if v == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid --%s date %q, want YYYY-MM-DD", bound.flag, v)
		}
		*bound.dst = &t
	}

	client := asf.NewClient(cfg.ASF.BaseURL, cfg.ASF.Timeout).WithLogger(logger)
	fc, err := client.Search(cmd.Context(), params)
	if err != nil {
		return err
	}

	if asSTAC, _ := cmd.Flags().GetBool("stac"); asSTAC {
		return stac.WriteStack(os.Stdout, fc.Features, "scenes")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tPLATFORM\tMODE\tDIRECTION\tSTART")
	for _, feature := range fc.Features {
		p := feature.Properties
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.SceneName, p.Platform, p.BeamModeType, p.FlightDirection, p.StartTime)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d scenes\n", len(fc.Features))
	return nil
}
