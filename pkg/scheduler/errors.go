package scheduler

import "errors"

var (
	ErrEmptyJobName         = errors.New("job name cannot be empty")
	ErrNilJob               = errors.New("job function cannot be nil")
	ErrJobAlreadyRegistered = errors.New("job already registered")
	ErrJobNotFound          = errors.New("job not found")
	ErrNoJobs               = errors.New("scheduler has no registered jobs")
	ErrJobPanicked          = errors.New("job panicked")
)
