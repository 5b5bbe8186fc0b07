package domain

import (
	"fmt"
	"time"
)

// Result aggregates the outcome of one backup run.
type Result struct {
	Targets   []TargetResult
	StartedAt time.Time
	Duration  time.Duration
	DryRun    bool
}

func (r *Result) Add(tr TargetResult) {
	r.Targets = append(r.Targets, tr)
}

// Count returns how many targets of the given kind were attempted and how many succeeded.
func (r *Result) Count(kind TargetKind) (total, succeeded int) {
	for _, tr := range r.Targets {
		if tr.Target.Kind != kind {
			continue
		}
		total++
		if tr.Success {
			succeeded++
		}
	}
	return total, succeeded
}

func (r *Result) Failures() []TargetResult {
	var failed []TargetResult
	for _, tr := range r.Targets {
		if !tr.Success {
			failed = append(failed, tr)
		}
	}
	return failed
}

func (r *Result) Success() bool {
	return len(r.Failures()) == 0
}

// Summary is the one-line message that ends up in the log and in notifications.
func (r *Result) Summary() string {
	if r.Success() {
		return "Backup of all directories and files completed successfully"
	}

	dirs, okDirs := r.Count(KindDirectory)
	files, okFiles := r.Count(KindFile)
	return fmt.Sprintf(
		"Errors during the backup procedure. %d/%d successful directories. %d/%d successful files",
		okDirs, dirs, okFiles, files,
	)
}
