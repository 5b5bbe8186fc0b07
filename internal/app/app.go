package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/semmidev/robobak/internal/adapter/notifier"
	"github.com/semmidev/robobak/internal/adapter/robocopy"
	"github.com/semmidev/robobak/internal/adapter/storage"
	"github.com/semmidev/robobak/internal/adapter/taskscheduler"
	"github.com/semmidev/robobak/internal/config"
	"github.com/semmidev/robobak/internal/domain"
	"github.com/semmidev/robobak/internal/infrastructure/logger"
	"github.com/semmidev/robobak/internal/infrastructure/scheduler"
	"github.com/semmidev/robobak/internal/usecase"
)

const generatedTaskFile = "scheduled_task_config_generated.xml"

type App struct {
	config    *config.Config
	logger    *logger.Logger
	identity  domain.Identity
	storage   *storage.LocalStorage
	backupUC  *usecase.Backup
	statusUC  *usecase.Status
	installUC *usecase.Install
}

func New(cfg *config.Config) (_ *App, err error) {
	log, err := logger.New(cfg.Debug, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err != nil {
			log.Errorf("Startup failed: %v", err)
			log.Close()
		}
	}()

	log.Infof("Reading configuration file %s", cfg.Path)

	identity, err := IdentityFromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	log.Infof("Username: %s", identity.Username)
	log.Infof("Computer name: %s", identity.ComputerName)
	log.Infof("Script configuration: debug=%t, dryrun=%t", cfg.Debug, cfg.DryRun)

	home, err := cfg.UserHome(identity.Username)
	if err != nil {
		return nil, err
	}

	localStorage, err := storage.NewLocal(cfg.BackupDirectory, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backup tree: %w", err)
	}
	log.Infof("Backup root: %s", cfg.BackupDirectory)
	log.Infof("Backup directory: %s", localStorage.Root())

	copier := robocopy.New(cfg.Robocopy.Path, cfg.Robocopy.Retries, cfg.Robocopy.WaitSeconds, log)
	notifiers := initializeNotifiers(cfg, identity, log)

	backupUC := usecase.NewBackup(copier, localStorage, notifiers, log, usecase.BackupOptions{
		Directories: cfg.ExpandedDirectories(home),
		Files:       cfg.ExpandedFiles(home),
		DryRun:      cfg.DryRun,
	})

	return &App{
		config:    cfg,
		logger:    log,
		identity:  identity,
		storage:   localStorage,
		backupUC:  backupUC,
		statusUC:  usecase.NewStatus(backupUC, localStorage),
		installUC: usecase.NewInstall(taskscheduler.Definitions{}, taskscheduler.NewSchtasks(), log),
	}, nil
}

// IdentityFromEnv reads the Windows user and machine names.
func IdentityFromEnv(getenv func(string) string) (domain.Identity, error) {
	id := domain.Identity{
		Username:     getenv("USERNAME"),
		ComputerName: getenv("COMPUTERNAME"),
	}
	if id.Username == "" {
		return id, fmt.Errorf("the USERNAME environment variable does not exist: %w", domain.ErrMissingIdentity)
	}
	if id.ComputerName == "" {
		return id, fmt.Errorf("the COMPUTERNAME environment variable does not exist: %w", domain.ErrMissingIdentity)
	}
	return id, nil
}

func initializeNotifiers(cfg *config.Config, id domain.Identity, log *logger.Logger) []domain.Notifier {
	var notifiers []domain.Notifier

	for _, n := range cfg.GetEnabledNotifiers() {
		switch n.Type {
		case "desktop":
			notifiers = append(notifiers, notifier.NewDesktop(cfg.IconFile, cfg.NotifyDuration))
			log.Infof("✓ Desktop notification enabled")

		case "telegram":
			tg, err := notifier.NewTelegram(&n, id.ComputerName)
			if err != nil {
				log.Errorf("Failed to initialize Telegram: %v", err)
				continue
			}
			notifiers = append(notifiers, tg)
			log.Infof("✓ Telegram notification enabled")

		default:
			log.Warnf("Unknown notifier type: %s", n.Type)
		}
	}

	return notifiers
}

// Run performs a single backup.
func (a *App) Run(ctx context.Context) error {
	return a.backupUC.Execute(ctx)
}

// Serve runs the backup on the configured cron schedule until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a.config.Schedule == "" {
		return fmt.Errorf("no schedule configured")
	}

	sched := scheduler.New(ctx, a.logger.SugaredLogger)
	if err := sched.AddJob(a.config.Schedule, func(ctx context.Context) error {
		a.logger.Infof("=== Triggered scheduled backup ===")
		if err := a.backupUC.Execute(ctx); err != nil {
			a.logger.Errorf("Scheduled backup failed: %v", err)
			return err
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to schedule backup: %w", err)
	}

	sched.Start()
	a.logger.Infof("Scheduler started: %s, next backup at %s",
		a.config.Schedule, sched.Next().Format(time.RFC1123))

	<-ctx.Done()
	sched.Stop()
	return nil
}

type InstallOptions struct {
	Force  bool
	DryRun bool
}

// Install registers the current executable as a scheduled task.
func (a *App) Install(ctx context.Context, opts InstallOptions) error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}

	return a.installUC.Execute(ctx, usecase.InstallRequest{
		TaskName:     a.config.Task.Name,
		TemplatePath: a.config.Task.Template,
		OutputPath:   filepath.Join(a.config.Dir(), generatedTaskFile),
		Action:       a.taskAction(executable),
		Force:        opts.Force,
		DryRun:       opts.DryRun,
	})
}

func (a *App) taskAction(executable string) domain.TaskAction {
	author := a.config.Task.Author
	if author == "" {
		author = a.identity.ComputerName + `\` + a.identity.Username
	}

	return domain.TaskAction{
		Executable: executable,
		Arguments:  `--config "` + a.config.Path + `"`,
		WorkDir:    a.config.Dir(),
		Author:     author,
	}
}

func (a *App) Status(ctx context.Context) (*usecase.StatusReport, error) {
	return a.statusUC.Execute(ctx)
}

func (a *App) Shutdown() {
	a.logger.Close()
}
