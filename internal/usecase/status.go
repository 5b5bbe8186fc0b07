package usecase

import (
	"context"
	"path/filepath"

	"github.com/semmidev/robobak/internal/domain"
)

type Inspector interface {
	Root() string
	Inspect(ctx context.Context, path string) (domain.Entry, error)
	List(ctx context.Context) ([]domain.Entry, error)
}

type Status struct {
	backup *Backup
	store  Inspector
}

type TargetStatus struct {
	Target domain.Target
	Mirror domain.Entry
	Err    error
}

type StatusReport struct {
	Root    string
	Targets []TargetStatus
	Entries []domain.Entry
}

func NewStatus(backup *Backup, store Inspector) *Status {
	return &Status{backup: backup, store: store}
}

// Execute reports, for every configured target, whether a copy exists in the backup tree.
func (uc *Status) Execute(ctx context.Context) (*StatusReport, error) {
	report := &StatusReport{Root: uc.store.Root()}

	for _, target := range uc.backup.Targets() {
		ts := TargetStatus{Target: target, Err: target.Err}
		if target.Err == nil {
			path := target.Destination
			if target.Filename != "" {
				path = filepath.Join(path, target.Filename)
			}
			ts.Mirror, ts.Err = uc.store.Inspect(ctx, path)
		}
		report.Targets = append(report.Targets, ts)
	}

	entries, err := uc.store.List(ctx)
	if err != nil {
		return nil, err
	}
	report.Entries = entries

	return report, nil
}
