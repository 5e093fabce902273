package hyp3

// JobType identifies an on-demand processing job type.
type JobType string

const (
	// JobTypeInsarGamma is scene-based Sentinel-1 interferometry.
	JobTypeInsarGamma JobType = "INSAR_GAMMA"
	// JobTypeInsarIsceBurst is burst-based Sentinel-1 interferometry.
	JobTypeInsarIsceBurst JobType = "INSAR_ISCE_BURST"
)

// JobStatus is the processing state reported by the service.
type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"
	StatusRunning   JobStatus = "RUNNING"
	StatusSucceeded JobStatus = "SUCCEEDED"
	StatusFailed    JobStatus = "FAILED"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// InsarOptions are the processing options accepted by the InSAR job types.
// The zero value requests the service defaults.
type InsarOptions struct {
	// Looks is the range x azimuth multilooking setting, e.g. "20x4".
	Looks               string `json:"looks,omitempty"`
	IncludeDEM          bool   `json:"include_dem,omitempty"`
	IncludeIncMap       bool   `json:"include_inc_map,omitempty"`
	IncludeLookVectors  bool   `json:"include_look_vectors,omitempty"`
	IncludeWrappedPhase bool   `json:"include_wrapped_phase,omitempty"`
	ApplyWaterMask      bool   `json:"apply_water_mask,omitempty"`
}

// JobParameters carries the named parameters of a job: the scene pair
// plus processing options.
type JobParameters struct {
	// Granules is the (reference, secondary) scene pair.
	Granules []string `json:"granules"`

	InsarOptions
}

// JobSpec describes one job to submit.
type JobSpec struct {
	JobType    JobType       `json:"job_type"`
	Name       string        `json:"name,omitempty"`
	Parameters JobParameters `json:"job_parameters"`
}

// Job is the service's view of a submitted job.
type Job struct {
	JobID       string        `json:"job_id"`
	JobType     JobType       `json:"job_type"`
	Name        string        `json:"name,omitempty"`
	Status      JobStatus     `json:"status_code"`
	Parameters  JobParameters `json:"job_parameters"`
	RequestTime string        `json:"request_time,omitempty"`
	UserID      string        `json:"user_id,omitempty"`
	Files       []File        `json:"files,omitempty"`
	Expiration  string        `json:"expiration_time,omitempty"`
	CreditCost  float64       `json:"credit_cost,omitempty"`
}

// File is one downloadable result archive of a finished job.
type File struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// User is the account information returned by the service.
type User struct {
	UserID           string  `json:"user_id"`
	RemainingCredits float64 `json:"remaining_credits"`
}

// jobsResponse is the paginated envelope of job listings.
type jobsResponse struct {
	Jobs []Job  `json:"jobs"`
	Next string `json:"next,omitempty"`
}

// submitRequest is the body of a batch submission.
type submitRequest struct {
	Jobs []JobSpec `json:"jobs"`
}
