package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gh-nvat/hava-export/src/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    runner.Options
		wantErr bool
	}{
		{name: "github", opts: runner.Options{RunMode: runner.RunModeGitHub}},
		{name: "local", opts: runner.Options{RunMode: runner.RunModeLocal}},
		{name: "github with comment", opts: runner.Options{RunMode: runner.RunModeGitHub, GhRepo: "org/repo", GhPrNumber: 3}},
		{name: "unknown mode", opts: runner.Options{RunMode: "ci"}, wantErr: true},
		{name: "local with comment", opts: runner.Options{RunMode: runner.RunModeLocal, GhRepo: "org/repo", GhPrNumber: 3}, wantErr: true},
		{name: "repo without pr", opts: runner.Options{RunMode: runner.RunModeGitHub, GhRepo: "org/repo"}, wantErr: true},
		{name: "pr without repo", opts: runner.Options{RunMode: runner.RunModeGitHub, GhPrNumber: 3}, wantErr: true},
		{name: "negative pr", opts: runner.Options{RunMode: runner.RunModeGitHub, GhRepo: "org/repo", GhPrNumber: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptions(&tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRun_ValidationFailureReturnsError(t *testing.T) {
	t.Setenv("INPUT_SOURCE_ID", "")
	t.Setenv("HAVA_SOURCE_ID", "not-a-uuid")
	t.Setenv("HAVA_TOKEN", "token")

	opts := &runner.Options{RunMode: runner.RunModeLocal, SkipExport: true, OutputDir: t.TempDir()}
	err := run(context.Background(), opts, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Source Id 'not-a-uuid' is not well formed")
	assert.Equal(t, "not-a-uuid", opts.SourceID)
}

func TestRun_MissingConfigFile(t *testing.T) {
	opts := &runner.Options{
		RunMode:    runner.RunModeLocal,
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		OutputDir:  t.TempDir(),
	}

	err := run(context.Background(), opts, false)

	assert.ErrorContains(t, err, "config file not found")
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"run-mode", "source-id", "environment-id", "view-type", "hava-token", "image-path", "skip-export", "config", "env-file", "output-dir"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, runner.RunModeGitHub, cmd.Flags().Lookup("run-mode").DefValue)
}
