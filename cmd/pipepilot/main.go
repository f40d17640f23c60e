package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pipepilot/pipepilot/internal/analyzer"
	"github.com/pipepilot/pipepilot/internal/config"
	"github.com/pipepilot/pipepilot/internal/deploy"
	"github.com/pipepilot/pipepilot/internal/doctor"
	"github.com/pipepilot/pipepilot/internal/docs"
	"github.com/pipepilot/pipepilot/internal/generate"
	"github.com/pipepilot/pipepilot/internal/jenkins"
	"github.com/pipepilot/pipepilot/internal/session"
	"github.com/pipepilot/pipepilot/internal/state"
	"github.com/pipepilot/pipepilot/internal/ux"
	cli "github.com/urfave/cli/v3"
)

const configFile = "pipepilot.yaml"

func main() {
	app := &cli.Command{
		Name:        "pipepilot",
		Usage:       "AI-powered Jenkins pipeline generator",
		Description: "Run 'pipepilot docs' for documentation on configuration, the workflow, and deployment.",
		Commands: []*cli.Command{
			runCmd(),
			contextCmd(),
			deployCmd(),
			statusCmd(),
			doctorCmd(),
			docsCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, .env, environment, pipepilot.yaml, and flags.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		ux.Warn("could not load .env: %v", err)
	}
	cfg := config.FromEnv()
	if err := cfg.ApplyFile(configFile); err != nil {
		return nil, err
	}
	if model := cmd.String("model"); model != "" {
		cfg.Model = model
	}
	if output := cmd.String("output"); output != "" {
		cfg.OutputDir = output
	}
	if repos := cmd.String("repos"); repos != "" {
		cfg.ReposDir = repos
	}
	return cfg, nil
}

func printEnvStatus(cfg *config.Config) {
	fmt.Printf("🔍 Environment:\n")
	if fi, err := os.Stat(".env"); err == nil {
		fmt.Printf("   .env file: ✅ (%d bytes)\n", fi.Size())
	} else {
		fmt.Printf("   .env file: ❌ not found\n")
	}
	keyStatus := "❌ not set"
	if cfg.OpenRouterKey != "" {
		keyStatus = "✅ set"
	}
	fmt.Printf("   OPENROUTER_API_KEY: %s\n", keyStatus)
	fmt.Printf("   AI Model: %s\n", cfg.Model)

	tokenStatus := "❌ not set (will try without auth)"
	if cfg.JenkinsToken != "" {
		tokenStatus = "✅ set"
	}
	fmt.Printf("\n🔧 Jenkins:\n")
	fmt.Printf("   URL: %s\n", cfg.JenkinsURL)
	fmt.Printf("   Username: %s\n", cfg.JenkinsUser)
	fmt.Printf("   Token: %s\n", tokenStatus)
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Analyze a repository, generate pipeline files, and refine interactively",
		ArgsUsage: "<repo-url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Usage: "Override the AI model"},
			&cli.StringFlag{Name: "output", Usage: "Artifact output directory"},
			&cli.StringFlag{Name: "repos", Usage: "Clone directory"},
			&cli.BoolFlag{Name: "per-artifact", Usage: "Generate each file with its own request, falling back to one batch request"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			repoURL := cmd.Args().First()
			if repoURL == "" {
				return fmt.Errorf("repository URL argument is required")
			}

			ux.Banner()
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			printEnvStatus(cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			mode := generate.ModeBatch
			if cmd.Bool("per-artifact") {
				mode = generate.ModeAuto
			}
			backend := generate.NewOpenRouter(cfg.OpenRouterKey, cfg.Model)
			return session.Run(ctx, cfg, backend, mode, repoURL)
		},
	}
}

func contextCmd() *cli.Command {
	return &cli.Command{
		Name:  "context",
		Usage: "Snapshot the Jenkins server (version and installed plugins)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Usage: "Artifact output directory"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := state.EnsureDir(cfg.OutputDir); err != nil {
				return err
			}

			jctx := jenkins.NewClient(cfg).Probe(ctx)
			if err := state.SaveJSON(cfg.OutputDir, state.ContextFile, jctx); err != nil {
				return err
			}
			ux.OK("context saved to %s", filepath.Join(cfg.OutputDir, state.ContextFile))
			return nil
		},
	}
}

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Deploy previously generated artifacts (git push, job creation, plugins)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Usage: "Artifact output directory"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var an analyzer.Analysis
			if err := state.LoadJSON(cfg.OutputDir, state.AnalysisFile, &an); err != nil {
				return fmt.Errorf("no analysis in %s, run 'pipepilot run' first: %w", cfg.OutputDir, err)
			}

			client := jenkins.NewClient(cfg)
			if err := client.EnsureJar(ctx); err != nil {
				ux.Warn("%v", err)
			}
			prompter := deploy.NewTerminalPrompter(os.Stdin)
			orch := deploy.NewOrchestrator(&an, cfg.OutputDir, client, prompter)
			report, err := orch.Run(ctx)
			if err != nil {
				return err
			}
			if report.Success {
				ux.Hint("set up the GitHub webhook: %s/github-webhook/", cfg.JenkinsURL)
			}
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show generated artifacts and the last deployment outcome",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Usage: "Artifact output directory"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			artifacts, err := state.LoadArtifacts(cfg.OutputDir)
			if err != nil {
				return err
			}
			fmt.Printf("Artifacts in %s:\n", cfg.OutputDir)
			for _, name := range state.ArtifactNames() {
				if content, ok := artifacts[name]; ok {
					fmt.Printf("  ✓ %s (%d bytes)\n", name, len(content))
				} else {
					fmt.Printf("  ✗ %s (missing)\n", name)
				}
			}

			var an analyzer.Analysis
			if err := state.LoadJSON(cfg.OutputDir, state.AnalysisFile, &an); err == nil {
				fmt.Printf("\nRepository: %s (%s, default branch %s)\n", an.RepoURL, an.Language, an.DefaultBranch)
			}

			var report deploy.Report
			if err := state.LoadJSON(cfg.OutputDir, state.ReportFile, &report); err != nil {
				fmt.Printf("\nNo deployment yet.\n")
				return nil
			}
			fmt.Printf("\nLast deployment (%s):\n", report.When.Format("2006-01-02 15:04:05"))
			for _, p := range report.Phases {
				mark := "✗"
				switch {
				case p.OK:
					mark = "✓"
				case p.Skipped:
					mark = "-"
				}
				fmt.Printf("  %s %s", mark, p.Name)
				if p.Detail != "" {
					fmt.Printf(" — %s", p.Detail)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Diagnose a failed deployment using AI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Usage: "Override the AI model"},
			&cli.StringFlag{Name: "output", Usage: "Artifact output directory"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			backend := generate.NewOpenRouter(cfg.OpenRouterKey, cfg.Model)
			return doctor.Run(ctx, cfg.OutputDir, backend)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'pipepilot docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
