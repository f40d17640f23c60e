// Package deploy drives the three-phase deployment of generated pipeline
// artifacts: committing the Jenkinsfile to the repository, creating the
// Jenkins job, and installing the required plugins. Every phase is attempted
// even when an earlier one fails, so a single run surfaces all remediation
// work at once; overall success requires all three.
package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/pipepilot/pipepilot/internal/analyzer"
	"github.com/pipepilot/pipepilot/internal/state"
	"github.com/pipepilot/pipepilot/internal/ux"
)

// jenkinsAPI is the slice of the Jenkins client the deployment phases need.
type jenkinsAPI interface {
	URL() string
	ListJobs(ctx context.Context) ([]string, error)
	CreateJob(ctx context.Context, name, configXML string) error
	InstallPlugin(ctx context.Context, spec string) error
	SafeRestart(ctx context.Context) error
}

// PhaseResult records the outcome of one deployment phase. A declined
// confirmation is a skip: the phase did not run, but overall success still
// requires it.
type PhaseResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	Skipped   bool   `json:"skipped,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Installed int    `json:"installed,omitempty"`
	Required  int    `json:"required,omitempty"`
}

// Report is the persisted outcome of a deployment run.
type Report struct {
	Repository string        `json:"repository"`
	Phases     []PhaseResult `json:"phases"`
	Success    bool          `json:"success"`
	When       time.Time     `json:"timestamp"`
}

// Orchestrator sequences the deployment phases.
type Orchestrator struct {
	analysis  *analyzer.Analysis
	outputDir string
	jenkins   jenkinsAPI
	prompter  Prompter
}

func NewOrchestrator(an *analyzer.Analysis, outputDir string, api jenkinsAPI, prompter Prompter) *Orchestrator {
	return &Orchestrator{
		analysis:  an,
		outputDir: outputDir,
		jenkins:   api,
		prompter:  prompter,
	}
}

// Run executes all three phases and persists the report. The returned error
// covers orchestration problems only; phase failures are reported through the
// Report.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	fmt.Printf("\n🚀 Deployment\n")
	fmt.Printf("Repository: %s/%s\n", o.analysis.Owner, o.analysis.RepoName)
	fmt.Printf("Local path: %s\n", o.analysis.LocalPath)
	fmt.Printf("Artifacts:  %s\n\n", o.outputDir)

	phases := []struct {
		name        string
		description string
		run         func(context.Context) PhaseResult
	}{
		{"git", "Commit and push the Jenkinsfile", o.gitPhase},
		{"job", "Create the Jenkins pipeline job", o.jobPhase},
		{"plugins", "Install required plugins", o.pluginPhase},
	}

	report := &Report{
		Repository: o.analysis.RepoURL,
		Success:    true,
		When:       time.Now().UTC(),
	}
	for i, p := range phases {
		ux.PhaseHeader(i, len(phases), p.name, p.description)
		result := p.run(ctx)
		result.Name = p.name
		switch {
		case result.OK:
			ux.PhaseComplete(i, p.name, result.Detail)
		case result.Skipped:
			ux.PhaseSkip(i, p.name)
			report.Success = false
		default:
			ux.PhaseFail(i, p.name, result.Detail)
			report.Success = false
		}
		report.Phases = append(report.Phases, result)
	}

	if err := state.SaveJSON(o.outputDir, state.ReportFile, report); err != nil {
		return report, fmt.Errorf("saving deployment report: %w", err)
	}

	if report.Success {
		ux.Success(len(phases))
	} else {
		ux.Warn("deployment finished with failed phases, see %s/%s", o.outputDir, state.ReportFile)
	}
	return report, nil
}
