package app

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

type JobEventType string

const (
	JobEventStatus   JobEventType = "status"
	JobEventProgress JobEventType = "progress"
	JobEventResult   JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For progress
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"`
	Percent int    `json:"percent,omitempty"`

	Result *audit.AuditResult `json:"result,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

// Job is an audit running in the background.
type Job struct {
	ID        string        `json:"id"`
	URL       string        `json:"url"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Events    chan JobEvent `json:"-"`

	Result *audit.AuditResult `json:"result,omitempty"`
}

const jobEventBuffer = 64

func (a *Application) emitJobEvent(job *Job, ev JobEvent) {
	ev.JobID = job.ID
	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
		a.Logger.Debug("dropping job event", logging.Field{Key: "job_id", Value: job.ID}, logging.Field{Key: "type", Value: string(ev.Type)})
	}
}

func (a *Application) setStatus(job *Job, status JobStatus, errMsg string) {
	a.jobsMu.Lock()
	job.Status = status
	job.Error = errMsg
	a.jobsMu.Unlock()
	a.emitJobEvent(job, JobEvent{Type: JobEventStatus, Status: status, Error: errMsg})
}

// StartAuditJob audits url in the background. Progress, the final status
// and the result are delivered on job.Events, which is closed when the job
// ends.
func (a *Application) StartAuditJob(ctx context.Context, url string) (*Job, error) {
	a.pruneJobs()

	job := &Job{
		ID:        uuid.New().String(),
		URL:       url,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, jobEventBuffer),
	}
	jobCtx, cancel := context.WithCancel(ctx)

	a.jobsMu.Lock()
	a.jobs[job.ID] = job
	a.jobCancels[job.ID] = cancel
	a.jobsMu.Unlock()

	a.emitJobEvent(job, JobEvent{Type: JobEventStatus, Status: JobPending})

	go func() {
		defer func() {
			a.jobsMu.Lock()
			job.EndedAt = time.Now().UTC()
			delete(a.jobCancels, job.ID)
			a.jobsMu.Unlock()
			cancel()
			// Close events channel so websocket loop can terminate cleanly
			close(job.Events)
		}()

		a.setStatus(job, JobRunning, "")

		res, err := a.AuditWithProgress(jobCtx, url, func(ev audit.Event) {
			a.emitJobEvent(job, JobEvent{
				Type:    JobEventProgress,
				Stage:   ev.Stage,
				Message: ev.Message,
				Percent: ev.Percent,
			})
		})

		if jobCtx.Err() != nil {
			a.setStatus(job, JobCanceled, jobCtx.Err().Error())
			return
		}
		if err != nil {
			a.Logger.Warn("audit job failed", logging.Field{Key: "job_id", Value: job.ID}, logging.Field{Key: "error", Value: err.Error()})
			a.setStatus(job, JobFailed, err.Error())
			return
		}

		a.jobsMu.Lock()
		job.Status = JobDone
		job.Result = res
		a.jobsMu.Unlock()
		a.emitJobEvent(job, JobEvent{Type: JobEventResult, Status: JobDone, Result: res})
	}()

	return job, nil
}

func (a *Application) CancelJob(jobID string) {
	a.jobsMu.Lock()
	cancel := a.jobCancels[jobID]
	a.jobsMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// GetJob returns a snapshot of the job, nil when unknown.
func (a *Application) GetJob(jobID string) *Job {
	a.jobsMu.Lock()
	defer a.jobsMu.Unlock()
	j, ok := a.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *j
	return &cp
}

// ListJobs returns snapshots of all retained jobs, newest first.
func (a *Application) ListJobs() []*Job {
	a.jobsMu.Lock()
	out := make([]*Job, 0, len(a.jobs))
	for _, j := range a.jobs {
		cp := *j
		out = append(out, &cp)
	}
	a.jobsMu.Unlock()
	sort.Slice(out, func(i, k int) bool { return out[i].StartedAt.After(out[k].StartedAt) })
	return out
}

// pruneJobs forgets finished jobs older than Config.JobRetention.
func (a *Application) pruneJobs() {
	if a.Config.JobRetention <= 0 {
		return
	}
	cutoff := time.Now().UTC().Add(-a.Config.JobRetention)
	a.jobsMu.Lock()
	defer a.jobsMu.Unlock()
	for id, j := range a.jobs {
		if !j.EndedAt.IsZero() && j.EndedAt.Before(cutoff) {
			delete(a.jobs, id)
		}
	}
}
