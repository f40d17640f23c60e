package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxKeyFileContent bounds how much of each config file is kept for prompts.
const maxKeyFileContent = 3000

const cloneTimeout = 60 * time.Second

// configFiles are probed for content, in declaration order.
var configFiles = []string{
	"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"pom.xml", "build.gradle", "gradle.properties", "settings.gradle",
	"Cargo.toml", "Cargo.lock",
	"requirements.txt", "pyproject.toml", "setup.py", "Pipfile",
	"go.mod", "go.sum",
	"pubspec.yaml", "pubspec.lock",
	"composer.json", "composer.lock",
	"Gemfile", "Gemfile.lock",
	"Dockerfile", "docker-compose.yml", "docker-compose.yaml",
	"Makefile", "CMakeLists.txt",
	".gitignore", ".dockerignore",
	"tsconfig.json", "webpack.config.js", "vite.config.js",
	"jest.config.js", "cypress.json", "pytest.ini",
}

// skipDirs are excluded from the structure walk.
var skipDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"target":       true,
	"build":        true,
	"dist":         true,
}

// sourceExtensions identify files counted as source code.
var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".mjs": true,
	".py": true, ".pyx": true,
	".java": true, ".kt": true, ".scala": true,
	".rs": true, ".go": true, ".php": true, ".rb": true,
	".c": true, ".cpp": true, ".cc": true, ".cxx": true, ".h": true, ".hpp": true,
	".cs": true, ".swift": true, ".dart": true, ".vue": true,
	".html": true, ".htm": true, ".css": true, ".scss": true, ".sass": true, ".less": true,
	".sql": true, ".sh": true, ".bash": true, ".zsh": true,
}

// Structure summarizes the repository directory tree.
type Structure struct {
	Directories    []string       `json:"directories"`
	FileExtensions map[string]int `json:"file_extensions"`
	TotalFiles     int            `json:"total_files"`
	SourceFiles    int            `json:"source_files"`
}

// Analysis is the immutable result of cloning and classifying a repository.
type Analysis struct {
	RepoURL        string            `json:"repo_url"`
	Owner          string            `json:"owner"`
	RepoName       string            `json:"repo_name"`
	LocalPath      string            `json:"local_path"`
	Description    string            `json:"description"`
	Language       string            `json:"language"`
	DefaultBranch  string            `json:"default_branch"`
	KeyFiles       map[string]string `json:"key_files"`
	Structure      Structure         `json:"project_structure"`
	TechStack      []string          `json:"tech_stack"`
	BuildTools     []string          `json:"build_tools"`
	TestFrameworks []string          `json:"test_frameworks"`
	SSHConfigured  bool              `json:"ssh_configured"`
	Summary        string            `json:"summary"`
}

// Analyzer clones repositories under reposDir and classifies their contents.
// The SSH probe runs once at construction and is reused for every Fetch.
type Analyzer struct {
	reposDir     string
	sshAvailable bool
}

// New builds an Analyzer, probing local SSH configuration for GitHub.
func New(reposDir string) (*Analyzer, error) {
	if err := os.MkdirAll(reposDir, 0755); err != nil {
		return nil, fmt.Errorf("creating repos dir %s: %w", reposDir, err)
	}
	return &Analyzer{
		reposDir:     reposDir,
		sshAvailable: probeSSH(),
	}, nil
}

// Fetch clones the repository (SSH first when configured, HTTPS fallback) and
// returns its analysis. Any pre-existing checkout is removed first.
func (a *Analyzer) Fetch(ctx context.Context, repoURL string) (*Analysis, error) {
	owner, name, err := parseRepoPath(repoURL)
	if err != nil {
		return nil, err
	}
	localPath := filepath.Join(a.reposDir, owner+"_"+name)

	fmt.Printf("📂 Repository: %s/%s\n", owner, name)
	fmt.Printf("📁 Local path: %s\n", localPath)

	cloneURL, viaSSH := a.cloneURL(repoURL, owner, name)
	if err := cloneRepo(ctx, cloneURL, localPath); err != nil {
		if !viaSSH {
			return nil, fmt.Errorf("cloning %s: %w", repoURL, err)
		}
		// SSH clone failed: one HTTPS retry before giving up.
		fmt.Printf("   🔄 SSH clone failed, trying HTTPS fallback...\n")
		if err := cloneRepo(ctx, repoURL, localPath); err != nil {
			return nil, fmt.Errorf("cloning %s with both SSH and HTTPS: %w", repoURL, err)
		}
	} else if viaSSH {
		verifyRemoteURL(ctx, localPath, cloneURL)
	}

	return a.AnalyzeLocal(repoURL, owner, name, localPath)
}

// AnalyzeLocal classifies an already-cloned checkout.
func (a *Analyzer) AnalyzeLocal(repoURL, owner, name, localPath string) (*Analysis, error) {
	fmt.Printf("   🔍 Analyzing local repository files...\n")

	keyFiles := readKeyFiles(localPath)
	structure := analyzeStructure(localPath)
	tech := classify(keyFiles, structure)

	an := &Analysis{
		RepoURL:        repoURL,
		Owner:          owner,
		RepoName:       name,
		LocalPath:      localPath,
		Description:    readDescription(localPath),
		Language:       tech.primaryLanguage,
		DefaultBranch:  currentBranch(localPath),
		KeyFiles:       keyFiles,
		Structure:      structure,
		TechStack:      tech.techStack,
		BuildTools:     tech.buildTools,
		TestFrameworks: tech.testFrameworks,
		SSHConfigured:  a.sshAvailable,
	}
	an.Summary = buildSummary(an)

	fmt.Printf("   ✓ Analysis complete: %s, stack [%s], %d config files\n",
		an.Language, strings.Join(an.TechStack, ", "), len(an.KeyFiles))
	return an, nil
}

// cloneURL picks the clone URL: SSH form when the probe succeeded and the URL
// is a GitHub HTTPS URL, otherwise the original URL unchanged.
func (a *Analyzer) cloneURL(repoURL, owner, name string) (url string, viaSSH bool) {
	if !a.sshAvailable || !strings.HasPrefix(repoURL, "https://github.com/") {
		return repoURL, false
	}
	return fmt.Sprintf("git@github.com:%s/%s.git", owner, name), true
}

// parseRepoPath extracts owner and repository name from a GitHub URL or an
// owner/name path.
func parseRepoPath(repoURL string) (owner, name string, err error) {
	path := strings.TrimSuffix(strings.TrimPrefix(repoURL, "https://github.com/"), "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse repository owner/name from %q", repoURL)
	}
	return parts[0], parts[1], nil
}

func cloneRepo(ctx context.Context, cloneURL, localPath string) error {
	if _, err := os.Stat(localPath); err == nil {
		fmt.Printf("   🗑 Removing existing clone: %s\n", localPath)
		if err := os.RemoveAll(localPath); err != nil {
			return fmt.Errorf("removing existing clone: %w", err)
		}
	}

	fmt.Printf("   📥 git clone %s %s\n", cloneURL, localPath)
	ctx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "clone", cloneURL, localPath)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("git clone timed out after %s", cloneTimeout)
	}
	if err != nil {
		return fmt.Errorf("git clone failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// verifyRemoteURL makes sure origin points at the SSH URL after an SSH clone,
// so the later push phase authenticates the same way. Best effort.
func verifyRemoteURL(ctx context.Context, localPath, expected string) {
	out, err := gitOutput(ctx, localPath, 5*time.Second, "remote", "get-url", "origin")
	if err != nil {
		return
	}
	actual := strings.TrimSpace(out)
	if strings.HasPrefix(expected, "git@") && !strings.HasPrefix(actual, "git@") {
		_, _ = gitOutput(ctx, localPath, 5*time.Second, "remote", "set-url", "origin", expected)
	}
}

func gitOutput(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

func readKeyFiles(localPath string) map[string]string {
	keyFiles := make(map[string]string)
	for _, name := range configFiles {
		data, err := os.ReadFile(filepath.Join(localPath, name))
		if err != nil {
			continue
		}
		content := string(data)
		if len(content) > maxKeyFileContent {
			content = content[:maxKeyFileContent]
		}
		keyFiles[name] = content
	}
	return keyFiles
}

func analyzeStructure(localPath string) Structure {
	structure := Structure{FileExtensions: make(map[string]int)}

	_ = filepath.WalkDir(localPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == localPath {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDirs[name] {
				return filepath.SkipDir
			}
			rel, err := filepath.Rel(localPath, path)
			if err == nil && strings.Count(rel, string(filepath.Separator)) < 2 {
				structure.Directories = append(structure.Directories, rel)
			}
			return nil
		}

		structure.TotalFiles++
		ext := strings.ToLower(filepath.Ext(name))
		structure.FileExtensions[ext]++
		if sourceExtensions[ext] {
			structure.SourceFiles++
		}
		return nil
	})

	sort.Strings(structure.Directories)
	return structure
}

// readDescription pulls the first prose line out of a README.
func readDescription(localPath string) string {
	for _, name := range []string{"README.md", "README.rst", "README.txt", "readme.md"} {
		data, err := os.ReadFile(filepath.Join(localPath, name))
		if err != nil {
			continue
		}
		content := string(data)
		if len(content) > 500 {
			content = content[:500]
		}
		var firstTitle string
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "#") {
				if firstTitle == "" {
					firstTitle = strings.TrimSpace(strings.TrimLeft(line, "#"))
				}
				continue
			}
			return line
		}
		return firstTitle
	}
	return ""
}

func currentBranch(localPath string) string {
	out, err := gitOutput(context.Background(), localPath, 5*time.Second, "branch", "--show-current")
	if err != nil {
		return "main"
	}
	if branch := strings.TrimSpace(out); branch != "" {
		return branch
	}
	return "main"
}

// buildSummary renders the fixed-format text block used verbatim in prompts.
func buildSummary(an *Analysis) string {
	names := make([]string, 0, len(an.KeyFiles))
	for name := range an.KeyFiles {
		names = append(names, name)
	}
	sort.Strings(names)

	dirs := an.Structure.Directories
	if len(dirs) > 10 {
		dirs = dirs[:10]
	}

	return fmt.Sprintf(`Repository Analysis (Local Clone):
Primary Language: %s
Technology Stack: %s
Build Tools: %s
Test Frameworks: %s
Configuration Files: %s
Total Files: %d
Source Files: %d
Main Directories: %s
Description: %s
Default Branch: %s`,
		an.Language,
		joinOr(an.TechStack, "Unknown"),
		joinOr(an.BuildTools, "None detected"),
		joinOr(an.TestFrameworks, "None detected"),
		joinOr(names, "None found"),
		an.Structure.TotalFiles,
		an.Structure.SourceFiles,
		joinOr(dirs, "None"),
		valueOr(an.Description, "No description found"),
		an.DefaultBranch,
	)
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

func valueOr(s, empty string) string {
	if s == "" {
		return empty
	}
	return s
}
