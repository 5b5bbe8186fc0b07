package robocopy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/semmidev/robobak/internal/domain"
)

// FailureThreshold is the lowest exit code robocopy uses for failed copies.
// Codes below it are combinations of informational bits.
const FailureThreshold = 8

// maxLineSize bounds a single line of robocopy output kept for the debug log.
const maxLineSize = 1024 * 1024

// Flags passed on every invocation.
var baseArgs = []string{
	"/Z",   // Restartable mode: an interrupted file copy resumes instead of starting over
	"/NP",  // No per-file progress percentage
	"/NC",  // Don't log file classes
	"/NDL", // Don't log directory names
	"/NJH", // No job header
	"/XJ",  // Exclude junction points
}

type Logger interface {
	Debugf(template string, args ...interface{})
}

type Robocopy struct {
	path        string
	retries     int
	waitSeconds int
	logger      Logger
}

func New(path string, retries, waitSeconds int, logger Logger) *Robocopy {
	return &Robocopy{
		path:        path,
		retries:     retries,
		waitSeconds: waitSeconds,
		logger:      logger,
	}
}

// Args builds the command line for a target. Directories are mirrored, files
// are copied by name out of their parent directory.
func (r *Robocopy) Args(target domain.Target, dryRun bool) []string {
	args := []string{target.Source, target.Destination}

	if target.Filename != "" {
		args = append(args, target.Filename)
	} else {
		args = append(args, "/MIR")
	}

	args = append(args, baseArgs...)
	args = append(args,
		"/W:"+strconv.Itoa(r.waitSeconds),
		"/R:"+strconv.Itoa(r.retries),
	)

	if dryRun {
		args = append(args, "/L") // List only: nothing is copied, deleted or timestamped
	}

	return args
}

// Copy runs robocopy to completion and returns its exit code. The error is
// only set when the process could not be run at all or was interrupted, in
// which case the code is -1.
func (r *Robocopy) Copy(ctx context.Context, target domain.Target, dryRun bool) (int, error) {
	cmd := exec.CommandContext(ctx, r.path, r.Args(target, dryRun)...)
	hideWindow(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to open robocopy output: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start robocopy: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			r.logger.Debugf("%s", line)
		}
	}
	if err := scanner.Err(); err != nil {
		// Keep the pipe empty so robocopy can finish.
		r.logger.Debugf("robocopy output no longer logged: %v", err)
		_, _ = io.Copy(io.Discard, stdout)
	}

	err = cmd.Wait()
	// A killed process still reports an exit code (1 on Windows), which would
	// read as "files copied".
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("robocopy interrupted: %w", ctxErr)
	}
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("robocopy did not complete: %w", err)
}

func (r *Robocopy) Failed(exitCode int) bool {
	return exitCode < 0 || exitCode >= FailureThreshold
}

func (r *Robocopy) Describe(exitCode int) string {
	return Describe(exitCode)
}

var exitBits = []struct {
	bit  int
	text string
}{
	{1, "files copied"},
	{2, "extra files or directories in destination"},
	{4, "mismatched files or directories"},
	{8, "some files or directories could not be copied"},
	{16, "fatal error"},
}

// Describe spells out the bits of a robocopy exit code.
func Describe(exitCode int) string {
	if exitCode < 0 {
		return "did not run"
	}
	if exitCode == 0 {
		return "no changes"
	}

	var parts []string
	for _, b := range exitBits {
		if exitCode&b.bit != 0 {
			parts = append(parts, b.text)
		}
	}
	return strings.Join(parts, ", ")
}
