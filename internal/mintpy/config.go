// Package mintpy writes time-series analysis configurations and drives
// the smallbaselineApp workflow over clipped interferogram stacks.
package mintpy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigOptions parameterizes a small-baseline analysis run.
type ConfigOptions struct {
	// ProductDir holds the clipped interferogram product directories.
	ProductDir string

	// Processor identifies the interferogram source format.
	Processor string

	// TroposphericDelay selects the tropospheric correction method.
	// Empty disables the correction.
	TroposphericDelay string

	// Extra entries override or extend the generated configuration.
	Extra map[string]string
}

// defaultProcessor matches the product layout produced by the on-demand
// processing service.
const defaultProcessor = "hyp3"

// BuildConfig renders a smallbaselineApp configuration as "key = value"
// lines pointing at the clipped rasters under opts.ProductDir.
func BuildConfig(opts ConfigOptions) (string, error) {
	if opts.ProductDir == "" {
		return "", fmt.Errorf("product directory is required")
	}
	processor := opts.Processor
	if processor == "" {
		processor = defaultProcessor
	}
	tropo := opts.TroposphericDelay
	if tropo == "" {
		tropo = "no"
	}

	glob := func(suffix string) string {
		return filepath.Join(opts.ProductDir, "*", "*"+suffix)
	}

	entries := map[string]string{
		"mintpy.load.processor":           processor,
		"mintpy.load.unwFile":             glob("_unw_phase_clipped.tif"),
		"mintpy.load.corFile":             glob("_corr_clipped.tif"),
		"mintpy.load.demFile":             glob("_dem_clipped.tif"),
		"mintpy.load.incAngleFile":        glob("_lv_theta_clipped.tif"),
		"mintpy.load.waterMaskFile":       glob("_water_mask_clipped.tif"),
		"mintpy.troposphericDelay.method": tropo,
	}
	for key, value := range opts.Extra {
		entries[key] = value
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&builder, "%s = %s\n", key, entries[key])
	}
	return builder.String(), nil
}

// WriteConfig renders and writes the configuration to path.
func WriteConfig(path string, opts ConfigOptions) error {
	content, err := BuildConfig(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
