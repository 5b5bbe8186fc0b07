//go:build !windows

package robocopy

import "os/exec"

func hideWindow(cmd *exec.Cmd) {}
