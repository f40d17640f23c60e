package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pipepilot/pipepilot/internal/deploy"
	"github.com/pipepilot/pipepilot/internal/jenkins"
	"github.com/pipepilot/pipepilot/internal/state"
)

type cannedBackend struct {
	response string
	err      error
	prompts  []string
	systems  []string
}

func (b *cannedBackend) Generate(_ context.Context, prompt, systemPrompt string) (string, error) {
	b.prompts = append(b.prompts, prompt)
	b.systems = append(b.systems, systemPrompt)
	return b.response, b.err
}

func failedReport() *deploy.Report {
	return &deploy.Report{
		Repository: "https://github.com/octocat/app",
		Success:    false,
		When:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Phases: []deploy.PhaseResult{
			{Name: "git", OK: true, Detail: "pushed to origin/main"},
			{Name: "job", OK: false, Detail: "minimal job creation failed: connection refused"},
			{Name: "plugins", OK: false, Detail: "no plugins were installed", Installed: 0, Required: 3},
		},
	}
}

func TestRun_NoReport(t *testing.T) {
	backend := &cannedBackend{}
	if err := Run(context.Background(), t.TempDir(), backend); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(backend.prompts) != 0 {
		t.Fatal("backend called without a report")
	}
}

func TestRun_SuccessfulReportSkipsDiagnosis(t *testing.T) {
	dir := t.TempDir()
	report := failedReport()
	report.Success = true
	if err := state.SaveJSON(dir, state.ReportFile, report); err != nil {
		t.Fatal(err)
	}

	backend := &cannedBackend{}
	if err := Run(context.Background(), dir, backend); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(backend.prompts) != 0 {
		t.Fatal("backend called for a successful deployment")
	}
}

func TestRun_BuildsPromptFromReportAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := state.SaveJSON(dir, state.ReportFile, failedReport()); err != nil {
		t.Fatal(err)
	}
	jctx := &jenkins.Context{
		Accessible:       true,
		Version:          jenkins.VersionInfo{Jenkins: "2.452.1"},
		InstalledPlugins: map[string]string{"git": "4.8.3"},
	}
	if err := state.SaveJSON(dir, state.ContextFile, jctx); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, state.ArtifactJobConfig), []byte("<flow-definition/>"), 0644); err != nil {
		t.Fatal(err)
	}

	backend := &cannedBackend{response: "the job config XML is fine, the server is down"}
	if err := Run(context.Background(), dir, backend); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(backend.prompts) != 1 {
		t.Fatalf("backend calls = %d", len(backend.prompts))
	}

	prompt := backend.prompts[0]
	for _, want := range []string{
		"Phase job: FAILED",
		"connection refused",
		"[0/3 plugins installed]",
		"Jenkins version: 2.452.1",
		"<flow-definition/>",
		"Jenkinsfile: missing",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestRun_BackendFailure(t *testing.T) {
	dir := t.TempDir()
	if err := state.SaveJSON(dir, state.ReportFile, failedReport()); err != nil {
		t.Fatal(err)
	}

	backend := &cannedBackend{err: errors.New("rate limited")}
	if err := Run(context.Background(), dir, backend); err == nil {
		t.Fatal("expected error from backend")
	}
}

func TestGatherArtifacts_ExcerptsOnlyFailedPhases(t *testing.T) {
	dir := t.TempDir()
	longPipeline := strings.Repeat("x", 3000)
	if err := os.WriteFile(filepath.Join(dir, state.ArtifactPipeline), []byte(longPipeline), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, state.ArtifactJobConfig), []byte("<flow-definition/>"), 0644); err != nil {
		t.Fatal(err)
	}

	report := &deploy.Report{Phases: []deploy.PhaseResult{
		{Name: "git", OK: false},
		{Name: "job", OK: true},
	}}
	out := gatherArtifacts(dir, report)

	if !strings.Contains(out, "... (truncated)") {
		t.Fatalf("long artifact not truncated:\n%.200s", out)
	}
	if strings.Contains(out, "--- pipeline_job_config.xml ---") {
		t.Fatal("succeeded phase's artifact was excerpted")
	}
}
