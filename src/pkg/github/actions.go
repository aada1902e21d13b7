package github

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	EnvGitHubOutput  = "GITHUB_OUTPUT"
	EnvGitHubActions = "GITHUB_ACTIONS"
)

// escapeData escapes a workflow command message
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// WriteCommand writes a workflow command such as "::error::message" to w
func WriteCommand(w io.Writer, command, message string) error {
	_, err := fmt.Fprintf(w, "::%s::%s\n", command, escapeData(message))
	return err
}

// SetOutput sets a step output. It appends to the file named by $GITHUB_OUTPUT,
// falling back to the set-output command on w when the variable is unset.
func SetOutput(w io.Writer, name, value string) error {
	outputFile := os.Getenv(EnvGitHubOutput)
	if outputFile == "" {
		_, err := fmt.Fprintf(w, "::set-output name=%s::%s\n", name, escapeData(value))
		return err
	}

	f, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", EnvGitHubOutput, err)
	}
	defer f.Close()

	if strings.ContainsAny(value, "\r\n") {
		delimiter := "ghadelimiter_" + name
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", name, value)
	}
	if err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// WorkflowCommandHook mirrors warning and error log entries as workflow annotations
type WorkflowCommandHook struct {
	Writer io.Writer
}

// Ensure WorkflowCommandHook implements log.Hook
var _ log.Hook = (*WorkflowCommandHook)(nil)

func (h *WorkflowCommandHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}
}

func (h *WorkflowCommandHook) Fire(entry *log.Entry) error {
	command := "error"
	if entry.Level == log.WarnLevel {
		command = "warning"
	}
	return WriteCommand(h.Writer, command, entry.Message)
}
