package domain

import "context"

// Copier mirrors a target with the external copy tool and reports its exit code.
type Copier interface {
	Copy(ctx context.Context, target Target, dryRun bool) (int, error)
	// Failed reports whether an exit code means the copy did not complete.
	Failed(exitCode int) bool
	Describe(exitCode int) string
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, title, message string) error
}

// TaskRegistrar registers a task definition file with the OS scheduler.
type TaskRegistrar interface {
	Register(ctx context.Context, name, definitionPath string, force bool) error
}
