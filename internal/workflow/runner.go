package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/robert-malhotra/insar-sbas/internal/asf"
	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
	"github.com/robert-malhotra/insar-sbas/internal/mintpy"
	"github.com/robert-malhotra/insar-sbas/internal/raster"
	"github.com/robert-malhotra/insar-sbas/internal/sbas"
	"github.com/robert-malhotra/insar-sbas/internal/store"
)

// Catalog is the scene search surface the pipeline needs.
type Catalog interface {
	Search(ctx context.Context, params asf.SearchParams) (*asf.FeatureCollection, error)
	BaselineStack(ctx context.Context, reference string) (*asf.FeatureCollection, error)
}

// Processor is the on-demand processing surface the pipeline needs.
type Processor interface {
	SubmitJobs(ctx context.Context, specs []hyp3.JobSpec) ([]hyp3.Job, error)
	Watch(ctx context.Context, name string, interval time.Duration) ([]hyp3.Job, error)
	DownloadFiles(ctx context.Context, job hyp3.Job, dir string) ([]string, error)
}

// Result summarizes a completed pipeline run.
type Result struct {
	BatchID     string
	Reference   string
	Pairs       []sbas.Pair
	Jobs        []hyp3.Job
	ProductDirs []string
	ConfigPath  string
}

// Runner executes a pipeline definition end to end.
type Runner struct {
	catalog      Catalog
	processor    Processor
	store        *store.Store
	analysis     *mintpy.Runner
	pollInterval time.Duration
	logger       *slog.Logger

	// clipProducts and extractZip are swappable for tests.
	clipProducts func(ctx context.Context, dirs []string, logger *slog.Logger) ([]string, error)
	extractZip   func(archivePath, dir string) (string, error)
}

// NewRunner wires a pipeline runner from its services.
func NewRunner(catalog Catalog, processor Processor, s *store.Store, analysis *mintpy.Runner, pollInterval time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		catalog:      catalog,
		processor:    processor,
		store:        s,
		analysis:     analysis,
		pollInterval: pollInterval,
		logger:       logger,
		clipProducts: raster.ClipProducts,
		extractZip:   hyp3.ExtractZip,
	}
}

// Run executes the definition: search, pair selection, submission,
// watch, download, clip, and time-series setup. Steps run sequentially
// and the first failure aborts the run.
func (r *Runner) Run(ctx context.Context, def *Definition) (*Result, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	reference, err := r.pickReference(ctx, def)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "selected reference scene", slog.String("scene", reference))

	fc, err := r.catalog.BaselineStack(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("fetching baseline stack: %w", err)
	}
	stack, err := sbas.NewStack(reference, fc)
	if err != nil {
		return nil, fmt.Errorf("building baseline stack: %w", err)
	}

	pairs, err := stack.SelectPairs(sbas.PairOptions{
		MaxTemporalDays:  def.Pairs.MaxTemporalDays,
		MaxPerpendicular: def.Pairs.MaxPerpendicular,
	})
	if err != nil {
		return nil, fmt.Errorf("selecting pairs: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no pairs within %d days, widen the baseline limit", def.Pairs.MaxTemporalDays)
	}
	r.logger.InfoContext(ctx, "selected interferogram pairs",
		slog.Int("scenes", stack.Len()),
		slog.Int("pairs", len(pairs)),
	)

	jobs, batchID, err := r.submit(ctx, def, reference, pairs)
	if err != nil {
		return nil, err
	}

	result := &Result{
		BatchID:   batchID,
		Reference: reference,
		Pairs:     pairs,
		Jobs:      jobs,
	}

	finished, err := r.processor.Watch(ctx, def.Name, r.pollInterval)
	if err != nil {
		return nil, fmt.Errorf("watching batch: %w", err)
	}
	result.Jobs = finished

	productDirs, err := r.collect(ctx, def, finished)
	if err != nil {
		return nil, err
	}
	result.ProductDirs = productDirs

	if _, err := r.clipProducts(ctx, productDirs, r.logger); err != nil {
		return nil, fmt.Errorf("clipping products: %w", err)
	}

	configPath := filepath.Join(def.WorkDir, "smallbaselineApp.cfg")
	err = mintpy.WriteConfig(configPath, mintpy.ConfigOptions{
		ProductDir:        filepath.Join(def.WorkDir, "products"),
		TroposphericDelay: def.Analysis.TroposphericDelay,
		Extra:             def.Analysis.Extra,
	})
	if err != nil {
		return nil, fmt.Errorf("writing analysis config: %w", err)
	}
	result.ConfigPath = configPath

	if def.Analysis.Run {
		if r.analysis == nil {
			return nil, fmt.Errorf("analysis run requested but no runner configured")
		}
		if err := r.analysis.Run(ctx, def.WorkDir, configPath); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// pickReference returns the explicit reference scene, or searches the
// AOI and takes the earliest acquisition.
func (r *Runner) pickReference(ctx context.Context, def *Definition) (string, error) {
	if def.Reference != "" {
		return def.Reference, nil
	}

	params, err := def.SearchParams()
	if err != nil {
		return "", err
	}
	fc, err := r.catalog.Search(ctx, params)
	if err != nil {
		return "", fmt.Errorf("searching catalog: %w", err)
	}
	if len(fc.Features) == 0 {
		return "", fmt.Errorf("no scenes found for the area of interest")
	}

	earliest := -1
	var earliestTime time.Time
	for i := range fc.Features {
		t := fc.Features[i].Properties.StartTimeParsed()
		if t.IsZero() {
			continue
		}
		if earliest < 0 || t.Before(earliestTime) {
			earliest, earliestTime = i, t
		}
	}
	if earliest < 0 {
		return "", fmt.Errorf("no scene has a parseable start time")
	}

	props := fc.Features[earliest].Properties
	if props.SceneName != "" {
		return props.SceneName, nil
	}
	return props.FileID, nil
}

func (r *Runner) submit(ctx context.Context, def *Definition, reference string, pairs []sbas.Pair) ([]hyp3.Job, string, error) {
	options := hyp3.InsarOptions{
		Looks:               def.Jobs.Looks,
		IncludeDEM:          def.Jobs.IncludeDEM,
		IncludeIncMap:       def.Jobs.IncludeIncMap,
		IncludeLookVectors:  def.Jobs.IncludeLookVectors,
		IncludeWrappedPhase: def.Jobs.IncludeWrappedPhase,
		ApplyWaterMask:      def.Jobs.ApplyWaterMask,
	}

	specs := make([]hyp3.JobSpec, 0, len(pairs))
	for _, pair := range pairs {
		specs = append(specs, hyp3.JobSpec{
			JobType: hyp3.JobType(def.Jobs.Type),
			Name:    def.Name,
			Parameters: hyp3.JobParameters{
				Granules:     []string{pair.Reference, pair.Secondary},
				InsarOptions: options,
			},
		})
	}

	jobs, err := r.processor.SubmitJobs(ctx, specs)
	if err != nil {
		return nil, "", fmt.Errorf("submitting jobs: %w", err)
	}

	batch := &store.Batch{
		Name:            def.Name,
		Project:         def.Project,
		AOI:             def.AOI,
		JobType:         hyp3.JobType(def.Jobs.Type),
		Reference:       reference,
		MaxTemporalDays: def.Pairs.MaxTemporalDays,
	}
	if err := r.store.CreateBatch(ctx, batch); err != nil {
		return nil, "", fmt.Errorf("recording batch: %w", err)
	}
	if err := r.store.InsertJobs(ctx, batch.ID, jobs); err != nil {
		return nil, "", fmt.Errorf("recording jobs: %w", err)
	}

	r.logger.InfoContext(ctx, "submitted batch",
		slog.String("batch_id", batch.ID),
		slog.Int("jobs", len(jobs)),
	)
	return jobs, batch.ID, nil
}

// collect downloads and unpacks the products of every succeeded job,
// updating the tracking store as it goes. A failed job aborts the run.
func (r *Runner) collect(ctx context.Context, def *Definition, jobs []hyp3.Job) ([]string, error) {
	downloadDir := filepath.Join(def.WorkDir, "downloads")
	productDir := filepath.Join(def.WorkDir, "products")

	var productDirs []string
	for _, job := range jobs {
		if err := r.store.UpdateJobStatus(ctx, job.JobID, job.Status); err != nil {
			r.logger.WarnContext(ctx, "failed to record job status",
				slog.String("job_id", job.JobID),
				slog.String("error", err.Error()),
			)
		}
		if job.Status == hyp3.StatusFailed {
			return nil, fmt.Errorf("job %s failed", job.JobID)
		}

		paths, err := r.processor.DownloadFiles(ctx, job, downloadDir)
		if err != nil {
			return nil, fmt.Errorf("downloading job %s: %w", job.JobID, err)
		}

		for _, path := range paths {
			if filepath.Ext(path) != ".zip" {
				continue
			}
			dir, err := r.extractZip(path, productDir)
			if err != nil {
				return nil, fmt.Errorf("extracting %s: %w", path, err)
			}
			productDirs = append(productDirs, dir)
			if err := r.store.SetJobProduct(ctx, job.JobID, dir); err != nil {
				r.logger.WarnContext(ctx, "failed to record product path",
					slog.String("job_id", job.JobID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	if len(productDirs) == 0 {
		return nil, fmt.Errorf("no product archives were downloaded")
	}
	return productDirs, nil
}
