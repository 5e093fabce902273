package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
	"github.com/robert-malhotra/insar-sbas/internal/store"
)

// Handlers serves batch and job tracking state.
type Handlers struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHandlers creates the handler set backed by the tracking store.
func NewHandlers(s *store.Store, logger *slog.Logger) *Handlers {
	return &Handlers{store: s, logger: logger}
}

// batchResponse is the JSON shape of a batch.
type batchResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Project         string                 `json:"project,omitempty"`
	AOI             string                 `json:"aoi,omitempty"`
	JobType         string                 `json:"job_type"`
	Reference       string                 `json:"reference"`
	MaxTemporalDays int                    `json:"max_temporal_days"`
	CreatedAt       time.Time              `json:"created_at"`
	StatusCounts    map[hyp3.JobStatus]int `json:"status_counts,omitempty"`
}

// jobResponse is the JSON shape of a tracked job.
type jobResponse struct {
	JobID       string    `json:"job_id"`
	BatchID     string    `json:"batch_id"`
	Reference   string    `json:"reference"`
	Secondary   string    `json:"secondary"`
	Status      string    `json:"status"`
	ProductPath string    `json:"product_path,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toBatchResponse(b *store.Batch) batchResponse {
	return batchResponse{
		ID:              b.ID,
		Name:            b.Name,
		Project:         b.Project,
		AOI:             b.AOI,
		JobType:         string(b.JobType),
		Reference:       b.Reference,
		MaxTemporalDays: b.MaxTemporalDays,
		CreatedAt:       b.CreatedAt,
	}
}

func toJobResponse(j *store.JobRecord) jobResponse {
	return jobResponse{
		JobID:       j.JobID,
		BatchID:     j.BatchID,
		Reference:   j.Reference,
		Secondary:   j.Secondary,
		Status:      string(j.Status),
		ProductPath: j.ProductPath,
		UpdatedAt:   j.UpdatedAt,
	}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Batches handles GET /api/batches.
func (h *Handlers) Batches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.store.ListBatches(r.Context())
	if err != nil {
		h.logger.Error("listing batches failed", slog.String("error", err.Error()))
		WriteInternalError(w, "failed to list batches")
		return
	}

	out := make([]batchResponse, 0, len(batches))
	for _, batch := range batches {
		out = append(out, toBatchResponse(batch))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"batches": out})
}

// Batch handles GET /api/batches/{batchID}.
func (h *Handlers) Batch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	batch, err := h.store.GetBatch(r.Context(), batchID)
	if errors.Is(err, store.ErrNotFound) {
		WriteNotFound(w, "batch not found")
		return
	}
	if err != nil {
		h.logger.Error("batch lookup failed", slog.String("error", err.Error()))
		WriteInternalError(w, "failed to load batch")
		return
	}

	resp := toBatchResponse(batch)
	if counts, err := h.store.StatusCounts(r.Context(), batchID); err == nil {
		resp.StatusCounts = counts
	}
	WriteJSON(w, http.StatusOK, resp)
}

// BatchJobs handles GET /api/batches/{batchID}/jobs.
func (h *Handlers) BatchJobs(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	if _, err := h.store.GetBatch(r.Context(), batchID); errors.Is(err, store.ErrNotFound) {
		WriteNotFound(w, "batch not found")
		return
	} else if err != nil {
		h.logger.Error("batch lookup failed", slog.String("error", err.Error()))
		WriteInternalError(w, "failed to load batch")
		return
	}

	jobs, err := h.store.JobsForBatch(r.Context(), batchID)
	if err != nil {
		h.logger.Error("listing batch jobs failed", slog.String("error", err.Error()))
		WriteInternalError(w, "failed to list jobs")
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toJobResponse(job))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": out})
}

// Job handles GET /api/jobs/{jobID}.
func (h *Handlers) Job(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := h.store.GetJob(r.Context(), jobID)
	if errors.Is(err, store.ErrNotFound) {
		WriteNotFound(w, "job not found")
		return
	}
	if err != nil {
		h.logger.Error("job lookup failed", slog.String("error", err.Error()))
		WriteInternalError(w, "failed to load job")
		return
	}
	WriteJSON(w, http.StatusOK, toJobResponse(job))
}
