package usecase

import (
	"context"
	"fmt"

	"github.com/semmidev/robobak/internal/domain"
)

type TaskDefinitions interface {
	Load(templatePath string) (string, error)
	Render(template string, action domain.TaskAction) (string, error)
	Write(path, definition string) error
}

type Install struct {
	definitions TaskDefinitions
	registrar   domain.TaskRegistrar
	logger      Logger
}

type InstallRequest struct {
	TaskName     string
	TemplatePath string
	// OutputPath receives the rendered definition handed to the scheduler.
	OutputPath string
	Action     domain.TaskAction
	Force      bool
	DryRun     bool
}

func NewInstall(definitions TaskDefinitions, registrar domain.TaskRegistrar, logger Logger) *Install {
	return &Install{
		definitions: definitions,
		registrar:   registrar,
		logger:      logger,
	}
}

func (uc *Install) Execute(ctx context.Context, req InstallRequest) error {
	if req.TaskName == "" {
		return fmt.Errorf("task name is required")
	}

	template, err := uc.definitions.Load(req.TemplatePath)
	if err != nil {
		return err
	}

	definition, err := uc.definitions.Render(template, req.Action)
	if err != nil {
		return fmt.Errorf("render task definition: %w", err)
	}

	if err := uc.definitions.Write(req.OutputPath, definition); err != nil {
		return err
	}
	uc.logger.Infof("Task definition written to %s", req.OutputPath)

	if req.DryRun {
		uc.logger.Infof("Dry run: scheduled task %s not registered", req.TaskName)
		return nil
	}

	if err := uc.registrar.Register(ctx, req.TaskName, req.OutputPath, req.Force); err != nil {
		return fmt.Errorf("register task %s: %w", req.TaskName, err)
	}

	uc.logger.Infof("Scheduled task %s registered to run %s", req.TaskName, req.Action.Executable)
	return nil
}
