package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Redwindmh/png2jpgConverter/batch"
	"github.com/Redwindmh/png2jpgConverter/converter"
)

// JobStatus represents the status of a conversion job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// FileResult is the per-file outcome surfaced to the UI so the user can
// learn which files failed and why.
type FileResult struct {
	SourceFile string `json:"sourceFile"`
	OutputPath string `json:"outputPath,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// Job represents one batch conversion run
type Job struct {
	ID          ulid.ULID    `json:"id"`
	Status      JobStatus    `json:"status"`
	Progress    int          `json:"progress"` // 0-100
	CurrentStep string       `json:"currentStep"`
	Message     string       `json:"message"`
	Results     []FileResult `json:"results,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// JobStore tracks jobs in memory. The application keeps no state
// between runs beyond the converted files themselves, so there is no
// database behind this.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[ulid.ULID]*Job
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[ulid.ULID]*Job)}
}

// CreateJob registers a new pending job and returns its ID.
func (s *JobStore) CreateJob(message string) ulid.ULID {
	now := time.Now()
	job := &Job{
		ID:        ulid.Make(),
		Status:    JobStatusPending,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job.ID
}

// UpdateProgress moves a job to running and records the step text shown
// in the progress popup.
func (s *JobStore) UpdateProgress(id ulid.ULID, progress batch.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.Status = JobStatusRunning
	if progress.Total > 0 {
		job.Progress = progress.Processed * 100 / progress.Total
	}
	job.CurrentStep = progressStep(progress)
	job.UpdatedAt = time.Now()
}

// Complete records the batch outcome. A job only goes to failed when
// nothing converted at all; partial success is still a completed job.
func (s *JobStore) Complete(id ulid.ULID, results []converter.Result, message string) {
	fileResults := make([]FileResult, 0, len(results))
	anySuccess := len(results) == 0
	for _, r := range results {
		fr := FileResult{SourceFile: r.SourcePath}
		if r.Success() {
			fr.Status = "success"
			fr.OutputPath = r.OutputPath
			anySuccess = true
		} else {
			fr.Status = "failed"
			fr.Error = r.Err.Error()
		}
		fileResults = append(fileResults, fr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	now := time.Now()
	job.Status = JobStatusCompleted
	if !anySuccess {
		job.Status = JobStatusFailed
	}
	job.Progress = 100
	job.CurrentStep = ""
	job.Message = message
	job.Results = fileResults
	job.UpdatedAt = now
	job.CompletedAt = &now
}

// Fail marks a job as failed before any conversion ran.
func (s *JobStore) Fail(id ulid.ULID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	now := time.Now()
	job.Status = JobStatusFailed
	job.Message = message
	job.UpdatedAt = now
	job.CompletedAt = &now
}

// GetJob returns a copy of the job, so callers never see later updates
// mid-read.
func (s *JobStore) GetJob(id ulid.ULID) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// RecentJobs returns jobs newest first. ULIDs sort by creation time.
func (s *JobStore) RecentJobs(limit int) []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].ID.Compare(jobs[j].ID) > 0
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs
}

// ActiveJobs returns all pending or running jobs, newest first.
func (s *JobStore) ActiveJobs() []Job {
	active := []Job{}
	for _, job := range s.RecentJobs(0) {
		if job.Status == JobStatusPending || job.Status == JobStatusRunning {
			active = append(active, job)
		}
	}
	return active
}
