package service

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/compozy/releaseprep/internal/domain"
)

// towncrierService is the implementation of the ChangelogService interface.
type towncrierService struct {
	command []string
	dir     string
	// timeout for command execution
	timeout time.Duration
}

// NewTowncrierService creates a ChangelogService running command (default "towncrier") in dir.
func NewTowncrierService(command, dir string) (ChangelogService, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{"towncrier"}
	}
	if strings.ContainsAny(command, ";&|`$<>") {
		return nil, fmt.Errorf("invalid changelog command: %s", command)
	}
	return &towncrierService{
		command: fields,
		dir:     dir,
		timeout: DefaultChangelogTimeout,
	}, nil
}

// executeCommand runs a command with timeout and proper resource cleanup.
func (s *towncrierService) executeCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = s.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("command timed out after %v", s.timeout)
		}
		// Include stderr in error message for debugging
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return nil, fmt.Errorf("command failed: %w (stderr: %s)", err, errMsg)
		}
		return nil, fmt.Errorf("command failed: %w", err)
	}

	return stdout.Bytes(), nil
}

// Generate renders the section with `--draft`, then folds the fragments in with `--yes`.
// The build only prints progress, so the draft output is what gets returned.
func (s *towncrierService) Generate(ctx context.Context, version domain.Version) (string, error) {
	if !domain.IsValidVersion(version.String()) {
		return "", fmt.Errorf("invalid version: %s", version)
	}
	draft, err := s.run(ctx, "--draft", "--version", version.String())
	if err != nil {
		return "", err
	}
	if _, err := s.run(ctx, "--yes", "--version", version.String()); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(draft)), nil
}

func (s *towncrierService) run(ctx context.Context, args ...string) ([]byte, error) {
	args = append(append([]string{}, s.command[1:]...), args...)
	output, err := s.executeCommand(ctx, s.command[0], args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", s.command[0], err)
	}
	return output, nil
}
