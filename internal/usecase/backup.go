package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/semmidev/robobak/internal/domain"
)

const notificationTitle = "Backup"

type Backup struct {
	copier    domain.Copier
	layout    Layout
	notifiers []domain.Notifier
	logger    Logger
	opts      BackupOptions
}

// Layout maps source directories into the backup tree.
type Layout interface {
	Root() string
	GetPath(sourceDir string) (string, error)
}

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

type BackupOptions struct {
	// Directories and Files are already expanded source paths.
	Directories []string
	Files       []string
	DryRun      bool
}

func NewBackup(
	copier domain.Copier,
	layout Layout,
	notifiers []domain.Notifier,
	logger Logger,
	opts BackupOptions,
) *Backup {
	return &Backup{
		copier:    copier,
		layout:    layout,
		notifiers: notifiers,
		logger:    logger,
		opts:      opts,
	}
}

// Execute runs a backup and fails if any target failed.
func (uc *Backup) Execute(ctx context.Context) error {
	result := uc.Run(ctx)
	if !result.Success() {
		return fmt.Errorf("%w: %s", domain.ErrCopyFailed, result.Summary())
	}
	return nil
}

// Run copies every target in order. A failing target never stops the run.
func (uc *Backup) Run(ctx context.Context) *domain.Result {
	result := &domain.Result{StartedAt: time.Now(), DryRun: uc.opts.DryRun}

	targets := uc.Targets()
	uc.logger.Infof("Found %d directories and %d files to backup into %s (dryrun=%t)",
		len(uc.opts.Directories), len(uc.opts.Files), uc.layout.Root(), uc.opts.DryRun)

	for _, target := range targets {
		result.Add(uc.backupTarget(ctx, target))
	}
	result.Duration = time.Since(result.StartedAt)

	summary := result.Summary()
	if result.Success() {
		uc.logger.Infof("%s in %s", summary, result.Duration.Round(time.Second))
	} else {
		uc.logger.Errorf("%s", summary)
	}
	uc.notify(ctx, summary)

	return result
}

// Targets resolves the configured sources into source/destination pairs,
// directories first.
func (uc *Backup) Targets() []domain.Target {
	targets := make([]domain.Target, 0, len(uc.opts.Directories)+len(uc.opts.Files))

	for _, dir := range uc.opts.Directories {
		dest, err := uc.layout.GetPath(dir)
		targets = append(targets, domain.Target{
			Kind:        domain.KindDirectory,
			Source:      dir,
			Destination: dest,
			Err:         err,
		})
	}

	for _, file := range uc.opts.Files {
		dir, name := filepath.Dir(file), filepath.Base(file)
		dest, err := uc.layout.GetPath(dir)
		targets = append(targets, domain.Target{
			Kind:        domain.KindFile,
			Source:      dir,
			Destination: dest,
			Filename:    name,
			Err:         err,
		})
	}

	return targets
}

func (uc *Backup) backupTarget(ctx context.Context, target domain.Target) domain.TargetResult {
	start := time.Now()
	tr := domain.TargetResult{Target: target, ExitCode: -1}

	if target.Err != nil {
		uc.logger.Errorf("Skipping %s: %v", target.Object(), target.Err)
		tr.Err = target.Err
		return tr
	}

	if err := ctx.Err(); err != nil {
		uc.logger.Errorf("Skipping %s: %v", target.Object(), err)
		tr.Err = err
		return tr
	}

	uc.logger.Infof("Starting backup of %s in %s...", target.Object(), target.Destination)

	code, err := uc.copier.Copy(ctx, target, uc.opts.DryRun)
	tr.ExitCode = code
	tr.Duration = time.Since(start)

	if err != nil {
		uc.logger.Errorf("Backup of %s failed: %v", target.Object(), err)
		tr.Err = err
		return tr
	}

	if err := ctx.Err(); err != nil {
		uc.logger.Errorf("Backup of %s interrupted (exit code %d): %v", target.Object(), code, err)
		tr.Err = err
		return tr
	}

	if uc.copier.Failed(code) {
		uc.logger.Errorf("Backup of %s failed (exit code %d: %s)",
			target.Object(), code, uc.copier.Describe(code))
		tr.Err = fmt.Errorf("%w: exit code %d", domain.ErrCopyFailed, code)
		return tr
	}

	tr.Success = true
	uc.logger.Infof("Backup of %s completed successfully (exit code %d: %s)",
		target.Object(), code, uc.copier.Describe(code))
	return tr
}

func (uc *Backup) notify(ctx context.Context, message string) {
	for _, n := range uc.notifiers {
		if err := n.Notify(ctx, notificationTitle, message); err != nil {
			uc.logger.Warnf("Failed to send %s notification: %v", n.Name(), err)
		}
	}
}
