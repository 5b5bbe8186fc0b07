package taskscheduler

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/semmidev/robobak/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultTemplate runs the backup once a day while the user is logged on.
//
//go:embed scheduled_task.xml
var DefaultTemplate string

// Placeholders understood by Render.
const (
	Executable = "%EXECUTABLE%"
	Arguments  = "%ARGUMENTS%"
	WorkDir    = "%WORKDIR%"
	Author     = "%AUTHOR%"
)

// ReadTemplate loads a task definition exported from the Task Scheduler UI.
// Those files are UTF-16LE; a BOM, if present, selects the actual encoding.
func ReadTemplate(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read task template: %w", err)
	}

	decoder := unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode task template: %w", err)
	}

	return string(decoded), nil
}

// Render substitutes placeholders with XML-escaped values. Unknown %TOKENS% are kept.
func Render(template string, values map[string]string) (string, error) {
	pairs := make([]string, 0, len(values)*2)
	for placeholder, value := range values {
		var escaped bytes.Buffer
		if err := xml.EscapeText(&escaped, []byte(value)); err != nil {
			return "", fmt.Errorf("failed to escape %s: %w", placeholder, err)
		}
		pairs = append(pairs, placeholder, escaped.String())
	}

	return strings.NewReplacer(pairs...).Replace(template), nil
}

// WriteDefinition stores the rendered task as UTF-16LE with a BOM, the format schtasks expects.
func WriteDefinition(path, definition string) error {
	encoded, _, err := transform.String(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), definition)
	if err != nil {
		return fmt.Errorf("failed to encode task definition: %w", err)
	}

	if err := os.WriteFile(path, []byte(encoded), 0644); err != nil {
		return fmt.Errorf("failed to write task definition: %w", err)
	}
	return nil
}

// Definitions renders task definitions for a TaskAction.
type Definitions struct{}

func (Definitions) Load(templatePath string) (string, error) {
	if templatePath == "" {
		return DefaultTemplate, nil
	}
	return ReadTemplate(templatePath)
}

func (Definitions) Render(template string, action domain.TaskAction) (string, error) {
	return Render(template, map[string]string{
		Executable: action.Executable,
		Arguments:  action.Arguments,
		WorkDir:    action.WorkDir,
		Author:     action.Author,
	})
}

func (Definitions) Write(path, definition string) error {
	return WriteDefinition(path, definition)
}
