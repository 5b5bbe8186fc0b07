package domain

import (
	"errors"
	"path/filepath"
	"time"
)

var (
	ErrNotAbsolute     = errors.New("path is not absolute")
	ErrCopyFailed      = errors.New("copy failed")
	ErrMissingIdentity = errors.New("missing identity")
	ErrUnsupported     = errors.New("unsupported on this platform")
)

// TargetKind tells whether a target mirrors a whole directory or copies a single file.
type TargetKind string

const (
	KindDirectory TargetKind = "directory"
	KindFile      TargetKind = "file"
)

// Identity is the user and machine a backup tree belongs to.
type Identity struct {
	Username     string
	ComputerName string
}

// Target is one resolved source/destination pair.
type Target struct {
	Kind        TargetKind
	Source      string
	Destination string
	// Filename is set for file targets; Source is then the containing directory.
	Filename string
	// Err is set when the configured entry could not be resolved.
	Err error
}

// Object returns the path that is actually being backed up.
func (t Target) Object() string {
	if t.Filename == "" {
		return t.Source
	}
	return filepath.Join(t.Source, t.Filename)
}

type TargetResult struct {
	Target   Target
	ExitCode int
	Success  bool
	Err      error
	Duration time.Duration
}
