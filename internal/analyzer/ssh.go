package analyzer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// probeSSH reports whether SSH is usable for GitHub: keys loaded in the agent
// or present on disk, and an actual authentication test against github.com.
func probeSSH() bool {
	fmt.Printf("🔐 Checking SSH configuration...\n")

	if !hasSSHKeys() {
		fmt.Printf("   ⚠ No SSH keys found, will clone over HTTPS\n")
		return false
	}

	ok, detail := testGitHubAuth()
	if ok {
		fmt.Printf("   ✓ SSH authentication to GitHub succeeded\n")
	} else {
		fmt.Printf("   ⚠ SSH not usable (%s), will clone over HTTPS\n", detail)
	}
	return ok
}

func hasSSHKeys() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "ssh-add", "-l").CombinedOutput()
	if err == nil && !strings.Contains(strings.ToLower(string(out)), "no identities") {
		return true
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	for _, key := range []string{"id_rsa", "id_ed25519", "id_ecdsa", "github_rsa"} {
		if _, err := os.Stat(filepath.Join(home, ".ssh", key)); err == nil {
			return true
		}
	}
	return false
}

// testGitHubAuth runs `ssh -T git@github.com`. GitHub exits non-zero even on
// success, so only the output text is authoritative.
func testGitHubAuth() (bool, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "ssh", "-T",
		"-o", "ConnectTimeout=10",
		"-o", "StrictHostKeyChecking=no",
		"git@github.com")
	out, _ := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return false, "timed out"
	}

	text := string(out)
	switch {
	case strings.Contains(text, "successfully authenticated"):
		return true, ""
	case strings.Contains(text, "Permission denied"):
		return false, "permission denied"
	default:
		return false, "inconclusive"
	}
}
