// Package session runs the interactive lifecycle: analyze a repository,
// generate pipeline artifacts, refine them through free-text feedback, and
// hand off to deployment on request.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pipepilot/pipepilot/internal/analyzer"
	"github.com/pipepilot/pipepilot/internal/config"
	"github.com/pipepilot/pipepilot/internal/deploy"
	"github.com/pipepilot/pipepilot/internal/generate"
	"github.com/pipepilot/pipepilot/internal/jenkins"
	"github.com/pipepilot/pipepilot/internal/state"
	"github.com/pipepilot/pipepilot/internal/ux"
)

// Session holds the live project: analysis, server snapshot, and the current
// artifact set.
type Session struct {
	cfg       *config.Config
	analyzer  *analyzer.Analyzer
	jenkins   *jenkins.Client
	backend   generate.Backend
	mode      generate.Mode
	generator *generate.Generator
	jctx      *jenkins.Context
	analysis  *analyzer.Analysis
	artifacts state.ArtifactSet
	in        *bufio.Reader
}

func New(cfg *config.Config, backend generate.Backend, mode generate.Mode, input io.Reader) (*Session, error) {
	an, err := analyzer.New(cfg.ReposDir)
	if err != nil {
		return nil, err
	}
	// The generator is built in Initialize once the server snapshot exists.
	return &Session{
		cfg:      cfg,
		analyzer: an,
		jenkins:  jenkins.NewClient(cfg),
		backend:  backend,
		mode:     mode,
		in:       bufio.NewReader(input),
	}, nil
}

// Initialize clones and analyzes the repository, snapshots the Jenkins server,
// and generates the first artifact set.
func (s *Session) Initialize(ctx context.Context, repoURL string) error {
	if err := state.EnsureDir(s.cfg.OutputDir); err != nil {
		return err
	}
	fmt.Printf("📂 Output directory: %s\n", s.cfg.OutputDir)
	fmt.Printf("🤖 AI Model: %s\n\n", s.cfg.Model)

	s.jctx = s.jenkins.Probe(ctx)
	if err := state.SaveJSON(s.cfg.OutputDir, state.ContextFile, s.jctx); err != nil {
		ux.Warn("could not save Jenkins context: %v", err)
	}
	s.generator = generate.New(s.backend, s.jctx, s.mode)

	fmt.Printf("\n📊 Cloning and analyzing repository...\n")
	analysis, err := s.analyzer.Fetch(ctx, repoURL)
	if err != nil {
		return fmt.Errorf("analyzing repository: %w", err)
	}
	s.analysis = analysis
	if err := state.SaveJSON(s.cfg.OutputDir, state.AnalysisFile, analysis); err != nil {
		return err
	}

	fmt.Printf("\n🤖 Generating Jenkins files with %s...\n", s.cfg.Model)
	artifacts, err := s.generator.Generate(ctx, analysis)
	if err != nil {
		return err
	}
	s.artifacts = artifacts
	if err := state.SaveArtifacts(s.cfg.OutputDir, artifacts); err != nil {
		return err
	}

	ux.OK("project initialized")
	s.showSummary()
	return nil
}

// inputKind classifies a line of loop input.
type inputKind int

const (
	inputEmpty inputKind = iota
	inputExit
	inputReady
	inputHelp
	inputFeedback
)

func classifyInput(line string) inputKind {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return inputEmpty
	case "exit", "quit", "done":
		return inputExit
	case "ready":
		return inputReady
	case "help":
		return inputHelp
	default:
		return inputFeedback
	}
}

// Loop reads feedback until the user exits or asks for deployment.
func (s *Session) Loop(ctx context.Context) error {
	fmt.Printf("\n💬 Interactive mode - provide feedback to improve the pipeline\n")
	fmt.Printf("   Type 'exit' or 'quit' to finish\n")
	fmt.Printf("   Type 'ready' to deploy (git push + job creation + plugins)\n")
	fmt.Printf("   Type 'help' for examples\n")

	for {
		fmt.Printf("\n📝 Your feedback (or 'exit'/'ready'): ")
		line, err := s.in.ReadString('\n')
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		switch classifyInput(line) {
		case inputEmpty:
			continue
		case inputExit:
			ux.OK("session completed")
			return nil
		case inputHelp:
			printExamples()
		case inputReady:
			return s.deploy(ctx)
		case inputFeedback:
			s.applyFeedback(ctx, strings.TrimSpace(line))
		}
	}
}

func (s *Session) applyFeedback(ctx context.Context, feedback string) {
	fmt.Printf("\n🔄 Processing feedback: %s\n", feedback)
	artifacts, err := s.generator.Modify(ctx, s.artifacts, feedback, s.analysis)
	if err != nil {
		ux.Fail("could not process feedback: %v", err)
		return
	}
	s.artifacts = artifacts
	if err := state.SaveArtifacts(s.cfg.OutputDir, artifacts); err != nil {
		ux.Fail("could not save files: %v", err)
		return
	}
	ux.OK("files updated")
	s.showSummary()
}

func (s *Session) deploy(ctx context.Context) error {
	prompter := deploy.NewTerminalPrompter(s.in)
	orch := deploy.NewOrchestrator(s.analysis, s.cfg.OutputDir, s.jenkins, prompter)
	report, err := orch.Run(ctx)
	if err != nil {
		return err
	}
	if report.Success {
		ux.Hint("set up the GitHub webhook: %s/github-webhook/", s.cfg.JenkinsURL)
	}
	return nil
}

func (s *Session) showSummary() {
	fmt.Printf("\n📄 Generated files in %s:\n", s.cfg.OutputDir)
	for _, name := range state.ArtifactNames() {
		content, ok := s.artifacts[name]
		if !ok {
			fmt.Printf("   ✗ %s (missing)\n", name)
			continue
		}
		fmt.Printf("   ✓ %s (%d bytes)\n", name, len(content))
	}
}

func printExamples() {
	fmt.Printf("\n💡 Example feedback:\n")
	for _, example := range []string{
		"Add Docker build stage",
		"Remove testing stage",
		"Add SonarQube code analysis",
		"Change build retention to 5 builds",
		"Add Slack notifications",
		"Enable GitHub hook trigger for SCM polling",
	} {
		fmt.Printf("   • %q\n", example)
	}
	fmt.Printf("\n🚀 When ready to deploy, type 'ready'\n")
}

// Run is the full lifecycle: initialize then loop.
func Run(ctx context.Context, cfg *config.Config, backend generate.Backend, mode generate.Mode, repoURL string) error {
	s, err := New(cfg, backend, mode, os.Stdin)
	if err != nil {
		return err
	}
	if err := s.Initialize(ctx, repoURL); err != nil {
		return err
	}
	return s.Loop(ctx)
}
