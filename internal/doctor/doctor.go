// Package doctor diagnoses a failed deployment run by feeding the persisted
// report and server snapshot back to the language model.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pipepilot/pipepilot/internal/deploy"
	"github.com/pipepilot/pipepilot/internal/generate"
	"github.com/pipepilot/pipepilot/internal/jenkins"
	"github.com/pipepilot/pipepilot/internal/state"
	"github.com/pipepilot/pipepilot/internal/ux"
)

const maxArtifactExcerpt = 2000

const diagSystemPrompt = `You are diagnosing a failed Jenkins pipeline deployment. Analyze the context below and provide a concise diagnosis.

Instructions:
1. Identify what went wrong from the phase results.
2. Classify each failure as a CONFIGURATION problem (credentials, URLs, server state) or a CONTENT problem (the generated pipeline files themselves).
3. Suggest specific fixes.
4. Recommend the next step:
   - pipepilot deploy   (re-run deployment with the current artifacts)
   - pipepilot run <repo-url>   (regenerate from scratch)
   - Fix the underlying issue first, then retry

Be direct and concise. Focus on actionable advice.`

// Run loads the last deployment report from outputDir and asks the backend
// for a diagnosis.
func Run(ctx context.Context, outputDir string, backend generate.Backend) error {
	var report deploy.Report
	if err := state.LoadJSON(outputDir, state.ReportFile, &report); err != nil {
		fmt.Println("No deployment report to diagnose. Run 'pipepilot deploy' first.")
		return nil
	}
	if report.Success {
		fmt.Println("Last deployment succeeded, nothing to diagnose.")
		return nil
	}

	prompt := buildPrompt(outputDir, &report)

	fmt.Printf("\n%s%s══ Doctor: diagnosing deployment of %s ══%s\n\n",
		ux.Bold, ux.Cyan, report.Repository, ux.Reset)

	diagnosis, err := backend.Generate(ctx, prompt, diagSystemPrompt)
	if err != nil {
		return fmt.Errorf("requesting diagnosis: %w", err)
	}
	fmt.Println(strings.TrimSpace(diagnosis))
	return nil
}

func buildPrompt(outputDir string, report *deploy.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Deployment Report\nRepository: %s\nTimestamp: %s\n\n",
		report.Repository, report.When.Format("2006-01-02 15:04:05"))
	for _, p := range report.Phases {
		status := "FAILED"
		if p.OK {
			status = "ok"
		}
		fmt.Fprintf(&b, "Phase %s: %s", p.Name, status)
		if p.Detail != "" {
			fmt.Fprintf(&b, " (%s)", p.Detail)
		}
		if p.Required > 0 {
			fmt.Fprintf(&b, " [%d/%d plugins installed]", p.Installed, p.Required)
		}
		fmt.Fprintln(&b)
	}

	if snapshot := gatherSnapshot(outputDir); snapshot != "" {
		fmt.Fprintf(&b, "\n## Jenkins Server Snapshot\n%s\n", snapshot)
	}

	fmt.Fprintf(&b, "\n## Artifacts\n%s\n", gatherArtifacts(outputDir, report))

	return b.String()
}

func gatherSnapshot(outputDir string) string {
	var jctx jenkins.Context
	if err := state.LoadJSON(outputDir, state.ContextFile, &jctx); err != nil {
		return ""
	}
	if !jctx.Accessible {
		return "Server was not accessible when artifacts were generated."
	}
	return fmt.Sprintf("Jenkins version: %s\nInstalled plugins: %d",
		jctx.Version.Jenkins, len(jctx.InstalledPlugins))
}

// gatherArtifacts lists artifact presence, excerpting content only for the
// ones whose phase failed.
func gatherArtifacts(outputDir string, report *deploy.Report) string {
	failed := make(map[string]bool)
	for _, p := range report.Phases {
		if !p.OK {
			failed[p.Name] = true
		}
	}
	phaseArtifact := map[string]string{
		"git":     state.ArtifactPipeline,
		"job":     state.ArtifactJobConfig,
		"plugins": state.ArtifactPlugins,
	}

	var parts []string
	for _, name := range state.ArtifactNames() {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			parts = append(parts, fmt.Sprintf("%s: missing", name))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %d bytes", name, len(data)))
		for phase, artifact := range phaseArtifact {
			if artifact == name && failed[phase] {
				excerpt := string(data)
				if len(excerpt) > maxArtifactExcerpt {
					excerpt = excerpt[:maxArtifactExcerpt] + "\n... (truncated)"
				}
				parts = append(parts, fmt.Sprintf("--- %s ---\n%s", name, excerpt))
			}
		}
	}
	return strings.Join(parts, "\n")
}
