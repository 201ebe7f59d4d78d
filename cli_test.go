package main_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLIBinaryIntegration(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available on system")
	}

	// 1. Build the CLI binary.
	tmpBuildDir := t.TempDir()
	binPath := filepath.Join(tmpBuildDir, "semnote")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./")
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build CLI binary: %v; build output: %s", err, string(buildOutput))
	}

	runGit := func(dir string, args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v; output: %s", args, err, string(output))
		}
	}
	runBin := func(dir string, args ...string) string {
		t.Helper()
		var stdout, stderr bytes.Buffer
		cmd := exec.Command(binPath, args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), "SEMNOTE_LOG_LEVEL=none")
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			t.Fatalf("semnote %v failed: %v; stderr: %s", args, err, stderr.String())
		}
		return strings.TrimSpace(stdout.String())
	}

	// 2. Set up a temporary git repository with a root commit.
	tmpRepo := t.TempDir()
	runGit(tmpRepo, "init", "-q")
	runGit(tmpRepo, "config", "user.email", "test@example.com")
	runGit(tmpRepo, "config", "user.name", "Test User")
	runGit(tmpRepo, "config", "commit.gpgsign", "false")
	runGit(tmpRepo, "commit", "-q", "--allow-empty", "-m", "initial")

	if got := runBin(tmpRepo); got != "0.0.0" {
		t.Errorf("expected 0.0.0 on a single commit, got %q", got)
	}

	// 3. Develop a feature on a branch and mark it as a minor change.
	runGit(tmpRepo, "checkout", "-q", "-b", "feature")
	runGit(tmpRepo, "commit", "-q", "--allow-empty", "-m", "feature work")
	if out := runBin(tmpRepo, "minor"); !strings.Contains(out, `Noted "semnote:minor"`) {
		t.Errorf("unexpected minor output: %s", out)
	}

	// 4. Merge the branch; the merge does not add a patch on top of the minor bump.
	runGit(tmpRepo, "checkout", "-q", "-")
	runGit(tmpRepo, "merge", "-q", "--no-ff", "-m", "merge feature", "feature")
	if got := runBin(tmpRepo); got != "0.1.0" {
		t.Errorf("expected 0.1.0 after merging a minor feature, got %q", got)
	}

	// 5. A linear fix counts only with the commit method.
	runGit(tmpRepo, "commit", "-q", "--allow-empty", "-m", "fix")
	if got := runBin(tmpRepo, "get"); got != "0.1.0" {
		t.Errorf("expected 0.1.0 with merge counting, got %q", got)
	}
	if got := runBin(tmpRepo, "--count", "commit"); got != "0.1.1" {
		t.Errorf("expected 0.1.1 with commit counting, got %q", got)
	}
	if got := runBin(tmpRepo, "--backend", "gogit", "--count", "commit"); got != "0.1.1" {
		t.Errorf("expected 0.1.1 from the go-git backend, got %q", got)
	}

	// 6. Publish notes and recover them in a fresh clone.
	remote := filepath.Join(t.TempDir(), "remote.git")
	runGit(tmpRepo, "init", "-q", "--bare", remote)
	runGit(tmpRepo, "remote", "add", "origin", remote)
	runGit(tmpRepo, "push", "-q", "origin", "HEAD:refs/heads/main")
	if out := runBin(tmpRepo, "push"); !strings.Contains(out, "Pushed refs/notes/semnote to origin") {
		t.Errorf("unexpected push output: %s", out)
	}

	clone := filepath.Join(t.TempDir(), "clone")
	runGit(tmpRepo, "clone", "-q", "--branch", "main", remote, clone)
	if got := runBin(tmpRepo, "-C", clone); got != "0.0.1" {
		t.Errorf("expected 0.0.1 in a clone without notes, got %q", got)
	}
	runBin(clone, "pull")
	if got := runBin(clone); got != "0.1.0" {
		t.Errorf("expected 0.1.0 after pulling notes, got %q", got)
	}
}
