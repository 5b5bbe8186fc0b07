package taskscheduler

import (
	"context"
	"fmt"
	"os/exec"
)

type Schtasks struct {
	path string
}

func NewSchtasks() *Schtasks {
	return &Schtasks{path: "schtasks"}
}

func (s *Schtasks) Args(name, definitionPath string, force bool) []string {
	args := []string{"/Create", "/TN", name, "/XML", definitionPath}
	if force {
		args = append(args, "/F")
	}
	return args
}

func (s *Schtasks) Register(ctx context.Context, name, definitionPath string, force bool) error {
	cmd := exec.CommandContext(ctx, s.path, s.Args(name, definitionPath, force)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("schtasks failed: %w, output: %s", err, string(output))
	}

	return nil
}
