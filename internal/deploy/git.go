package deploy

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pipepilot/pipepilot/internal/state"
	"github.com/pipepilot/pipepilot/internal/ux"
)

const (
	featureBranch = "feature/jenkins-ci-cd-pipeline"
	commitMessage = "Add Jenkins pipeline configuration"

	gitProbeTimeout = 10 * time.Second
	gitOpTimeout    = 30 * time.Second
	gitPushTimeout  = 60 * time.Second
)

// GitStatus is a snapshot of the local checkout before the commit phase.
type GitStatus struct {
	IsRepo          bool
	Branch          string
	HasPipelineFile bool
	HasChanges      bool
}

// targetBranch picks where the Jenkinsfile lands: the current branch when the
// repository already tracks one, a dedicated feature branch otherwise. The
// second return reports whether the branch must be created.
func targetBranch(st GitStatus) (string, bool) {
	if st.HasPipelineFile {
		return st.Branch, false
	}
	return featureBranch, true
}

// gitPhase copies the generated Jenkinsfile into the checkout and commits and
// pushes it.
func (o *Orchestrator) gitPhase(ctx context.Context) PhaseResult {
	source := filepath.Join(o.outputDir, state.ArtifactPipeline)
	if _, err := os.Stat(source); err != nil {
		return PhaseResult{Detail: fmt.Sprintf("no Jenkinsfile in %s", o.outputDir)}
	}

	st := o.gitStatus(ctx)
	if !st.IsRepo {
		return PhaseResult{Detail: fmt.Sprintf("not a git repository: %s", o.analysis.LocalPath)}
	}

	fmt.Printf("Current branch: %s\n", st.Branch)
	fmt.Printf("Jenkinsfile tracked: %v, uncommitted changes: %v\n", st.HasPipelineFile, st.HasChanges)

	if !o.prompter.Confirm("Commit and push the Jenkinsfile?") {
		return PhaseResult{Skipped: true, Detail: "declined by user"}
	}

	branch, create := targetBranch(st)

	data, err := os.ReadFile(source)
	if err != nil {
		return PhaseResult{Detail: fmt.Sprintf("reading Jenkinsfile: %v", err)}
	}
	dest := filepath.Join(o.analysis.LocalPath, state.ArtifactPipeline)
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return PhaseResult{Detail: fmt.Sprintf("copying Jenkinsfile: %v", err)}
	}
	ux.Step("copied Jenkinsfile to %s", dest)

	if create {
		if _, stderr, err := o.git(ctx, gitOpTimeout, "checkout", "-b", branch); err != nil {
			return PhaseResult{Detail: fmt.Sprintf("creating branch %s: %s", branch, stderr)}
		}
		ux.Step("created branch %s", branch)
	}

	if _, stderr, err := o.git(ctx, gitOpTimeout, "add", state.ArtifactPipeline); err != nil {
		return PhaseResult{Detail: fmt.Sprintf("git add: %s", stderr)}
	}

	stdout, stderr, err := o.git(ctx, gitOpTimeout, "commit", "-m", commitMessage)
	switch {
	case err == nil:
		ux.Step("committed: %s", commitMessage)
	case strings.Contains(stdout, "nothing to commit"):
		ux.Step("Jenkinsfile already up to date, nothing to commit")
	default:
		return PhaseResult{Detail: fmt.Sprintf("git commit: %s", stderr)}
	}

	pushArgs := []string{"push"}
	if create {
		pushArgs = []string{"push", "--set-upstream", "origin", branch}
	}
	if _, stderr, err := o.git(ctx, gitPushTimeout, pushArgs...); err != nil {
		ux.Hint("push manually: cd %s && git push --set-upstream origin %s", o.analysis.LocalPath, branch)
		return PhaseResult{Detail: fmt.Sprintf("git push: %s", strings.TrimSpace(stderr))}
	}

	return PhaseResult{OK: true, Detail: fmt.Sprintf("pushed to origin/%s", branch)}
}

func (o *Orchestrator) gitStatus(ctx context.Context) GitStatus {
	var st GitStatus

	if _, _, err := o.git(ctx, gitProbeTimeout, "rev-parse", "--git-dir"); err != nil {
		return st
	}
	st.IsRepo = true

	st.Branch = "main"
	if out, _, err := o.git(ctx, gitProbeTimeout, "branch", "--show-current"); err == nil && strings.TrimSpace(out) != "" {
		st.Branch = strings.TrimSpace(out)
	}

	if _, err := os.Stat(filepath.Join(o.analysis.LocalPath, state.ArtifactPipeline)); err == nil {
		st.HasPipelineFile = true
	}

	if out, _, err := o.git(ctx, gitProbeTimeout, "status", "--porcelain"); err == nil {
		st.HasChanges = strings.TrimSpace(out) != ""
	}

	return st
}

// git runs a git command inside the local checkout, returning stdout and
// stderr separately so failures can surface the server's own message.
func (o *Orchestrator) git(ctx context.Context, timeout time.Duration, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = o.analysis.LocalPath
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), stderr.String(), fmt.Errorf("git %s timed out after %s", args[0], timeout)
	}
	return stdout.String(), stderr.String(), err
}
