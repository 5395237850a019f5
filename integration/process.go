//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// binary is a built chainstore executable.
var binary = getenv("E2E_CHAINSTORE_BIN", "chainstore")

func writeDataset(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

// startServe runs "chainstore serve" on a free port until the test ends and
// returns its base URL.
func startServe(t *testing.T, ctx context.Context, input string, env ...string) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("pick port: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, binary, "serve", "--input", input, "--addr", addr)
	cmd.Env = append(os.Environ(), env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		cancel()
		t.Fatalf("start %s: %v", binary, err)
	}
	t.Cleanup(func() {
		cancel()
		_ = cmd.Wait()
		if t.Failed() {
			t.Logf("server log:\n%s", stderr.String())
		}
	})
	return fmt.Sprintf("http://%s", addr)
}

// runShell pipes stdin through the interactive command loop and returns stdout.
func runShell(t *testing.T, ctx context.Context, stdin string, args ...string) (string, int) {
	t.Helper()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if ee, ok := err.(*exec.ExitError); ok {
		return stdout.String(), ee.ExitCode()
	}
	if err != nil {
		t.Fatalf("run %s: %v", binary, err)
	}
	return stdout.String(), 0
}
