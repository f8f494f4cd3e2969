// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeFunc func(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runnableCmds  map[string]bool // "bin arg1 arg2" -> RunSilent succeeds
	runPiped      pipeFunc
	gotArgs       []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	m.gotArgs = append([]string{name}, args...)
	if m.runPiped != nil {
		return m.runPiped(ctx, name, args, stdin, stdout, stderr)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		bins     map[string]bool
		cmds     map[string]bool
		wantName string
		wantErr  bool
	}{
		{
			name:     "docker available",
			bins:     map[string]bool{"docker": true},
			cmds:     map[string]bool{"docker info": true},
			wantName: "docker",
		},
		{
			name:     "podman fallback when docker missing",
			bins:     map[string]bool{"podman": true},
			cmds:     map[string]bool{"podman info": true},
			wantName: "podman",
		},
		{
			name:     "docker daemon down, podman works",
			bins:     map[string]bool{"docker": true, "podman": true},
			cmds:     map[string]bool{"podman info": true},
			wantName: "podman",
		},
		{
			name:     "both available, docker preferred",
			bins:     map[string]bool{"docker": true, "podman": true},
			cmds:     map[string]bool{"docker info": true, "podman info": true},
			wantName: "docker",
		},
		{
			name:    "neither available",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(&mockExecutor{availableBins: tt.bins, runnableCmds: tt.cmds})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	docker := newDockerRuntime(&mockExecutor{runnableCmds: map[string]bool{
		"docker image inspect markitdown:latest": true,
	}})
	assert.NoError(t, docker.ImageExists("markitdown:latest"))

	err := docker.ImageExists("missing:latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing:latest")

	podman := newPodmanRuntime(&mockExecutor{runnableCmds: map[string]bool{
		"podman image exists markitdown:latest": true,
	}})
	assert.NoError(t, podman.ImageExists("markitdown:latest"))
	assert.Error(t, podman.ImageExists("other:latest"))
}

func TestRun(t *testing.T) {
	echo := func(_ context.Context, _ string, _ []string, stdin io.Reader, stdout, _ io.Writer) error {
		data, _ := io.ReadAll(stdin)
		_, _ = stdout.Write([]byte("extracted: " + string(data)))
		return nil
	}

	t.Run("pipes stdin to stdout", func(t *testing.T) {
		exec := &mockExecutor{runPiped: echo}
		var out bytes.Buffer

		err := newPodmanRuntime(exec).Run(context.Background(), "markitdown:latest", strings.NewReader("pdf bytes"), &out)

		require.NoError(t, err)
		assert.Equal(t, "extracted: pdf bytes", out.String())
		assert.Equal(t, []string{"podman", "run", "--rm", "-i", "markitdown:latest"}, exec.gotArgs)
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		exec := &mockExecutor{runPiped: func(_ context.Context, _ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
			_, _ = stderr.Write([]byte("  PDFSyntaxError: no /Root object\n"))
			return errors.New("exit status 1")
		}}

		err := newDockerRuntime(exec).Run(context.Background(), "markitdown:latest", strings.NewReader(""), io.Discard)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "exit status 1")
		assert.Contains(t, err.Error(), "PDFSyntaxError: no /Root object")
	})

	t.Run("context reaches executor", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		exec := &mockExecutor{runPiped: func(ctx context.Context, _ string, _ []string, _ io.Reader, _, _ io.Writer) error {
			return ctx.Err()
		}}

		err := newDockerRuntime(exec).Run(ctx, "markitdown:latest", strings.NewReader(""), io.Discard)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
