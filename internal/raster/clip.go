package raster

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"
)

// productSuffixes are the per-product rasters that make up a time series
// input. Every matching file is clipped.
var productSuffixes = []string{
	"_unw_phase.tif",
	"_corr.tif",
	"_dem.tif",
	"_lv_theta.tif",
	"_water_mask.tif",
}

const clippedSuffix = "_clipped.tif"

var registerOnce sync.Once

func registerDrivers() {
	registerOnce.Do(godal.RegisterAll)
}

// FileBounds reads the georeferenced extent of a raster file.
func FileBounds(path string) (Bounds, error) {
	registerDrivers()

	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		return Bounds{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer ds.Close()

	bounds, err := ds.Bounds()
	if err != nil {
		return Bounds{}, fmt.Errorf("reading bounds of %s: %w", path, err)
	}
	return Bounds{MinX: bounds[0], MinY: bounds[1], MaxX: bounds[2], MaxY: bounds[3]}, nil
}

// Clip windows src to the given extent and writes the result to dst.
func Clip(src, dst string, extent Bounds) error {
	registerDrivers()

	if !extent.Valid() {
		return fmt.Errorf("empty clip extent")
	}

	ds, err := godal.Open(src, godal.RasterOnly())
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer ds.Close()

	// -projwin takes upper-left then lower-right corners.
	switches := []string{
		"-projwin",
		formatCoord(extent.MinX), formatCoord(extent.MaxY),
		formatCoord(extent.MaxX), formatCoord(extent.MinY),
	}
	out, err := ds.Translate(dst, switches, godal.CreationOption("COMPRESS=LZW", "TILED=YES"))
	if err != nil {
		return fmt.Errorf("clipping %s: %w", src, err)
	}
	return out.Close()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ProductFiles finds the clippable rasters under a product directory.
func ProductFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading product directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), clippedSuffix) {
			continue
		}
		for _, suffix := range productSuffixes {
			if strings.HasSuffix(entry.Name(), suffix) {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	return files, nil
}

// ClippedName returns the output path for a clipped raster.
func ClippedName(path string) string {
	return strings.TrimSuffix(path, ".tif") + clippedSuffix
}

// ClipProducts clips every raster in the given product directories to
// their common overlap and returns the clipped file paths. Unwrapped
// phase rasters alone define the overlap so that optional layers with
// differing coverage cannot shrink it.
func ClipProducts(ctx context.Context, productDirs []string, logger *slog.Logger) ([]string, error) {
	if len(productDirs) == 0 {
		return nil, fmt.Errorf("no product directories given")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var extents []Bounds
	var all []string
	for _, dir := range productDirs {
		files, err := ProductFiles(dir)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no clippable rasters in %s", dir)
		}
		for _, file := range files {
			all = append(all, file)
			if strings.HasSuffix(file, "_unw_phase.tif") {
				bounds, err := FileBounds(file)
				if err != nil {
					return nil, err
				}
				extents = append(extents, bounds)
			}
		}
	}
	if len(extents) == 0 {
		return nil, fmt.Errorf("no unwrapped phase rasters found")
	}

	overlap, err := CommonOverlap(extents)
	if err != nil {
		return nil, fmt.Errorf("computing common overlap: %w", err)
	}
	logger.InfoContext(ctx, "clipping products to common overlap",
		slog.Int("products", len(productDirs)),
		slog.Int("rasters", len(all)),
		slog.Float64("min_x", overlap.MinX),
		slog.Float64("min_y", overlap.MinY),
		slog.Float64("max_x", overlap.MaxX),
		slog.Float64("max_y", overlap.MaxY),
	)

	clipped := make([]string, 0, len(all))
	for _, file := range all {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dst := ClippedName(file)
		if err := Clip(file, dst, overlap); err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "clipped raster", slog.String("file", dst))
		clipped = append(clipped, dst)
	}
	return clipped, nil
}
