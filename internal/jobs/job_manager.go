package jobs

import (
	"fmt"
)

// JobManager starts and stops the scheduled jobs together.
type JobManager struct {
	jobs []*Job
}

func NewJobManager(jobs ...*Job) *JobManager {
	return &JobManager{jobs: jobs}
}

// StartAll starts every job in order. If one fails, the jobs already started are stopped.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", job.Name(), err)
		}
	}
	return nil
}

// StopAll stops all jobs, waiting for in-flight passes.
func (jm *JobManager) StopAll() {
	for _, job := range jm.jobs {
		job.Stop()
	}
}
