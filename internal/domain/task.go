package domain

import "time"

// TaskAction is what the scheduled task runs.
type TaskAction struct {
	Executable string
	Arguments  string
	WorkDir    string
	Author     string
}

// Entry describes something found in the backup tree.
type Entry struct {
	Path    string
	Exists  bool
	IsDir   bool
	ModTime time.Time
}
