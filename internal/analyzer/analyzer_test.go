package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseRepoPath(t *testing.T) {
	tests := []struct {
		url         string
		owner, name string
		wantErr     bool
	}{
		{"https://github.com/octocat/hello-world", "octocat", "hello-world", false},
		{"https://github.com/octocat/hello-world/", "octocat", "hello-world", false},
		{"https://github.com/octocat/hello-world.git", "octocat", "hello-world", false},
		{"octocat/hello-world", "octocat", "hello-world", false},
		{"https://github.com/justowner", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		owner, name, err := parseRepoPath(tt.url)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseRepoPath(%q) error = %v", tt.url, err)
		}
		if owner != tt.owner || name != tt.name {
			t.Fatalf("parseRepoPath(%q) = %q/%q", tt.url, owner, name)
		}
	}
}

func TestCloneURL_SSHOnlyForGitHubHTTPS(t *testing.T) {
	a := &Analyzer{sshAvailable: true}
	url, viaSSH := a.cloneURL("https://github.com/octocat/hello", "octocat", "hello")
	if !viaSSH || url != "git@github.com:octocat/hello.git" {
		t.Fatalf("cloneURL = %q, viaSSH=%v", url, viaSSH)
	}

	url, viaSSH = a.cloneURL("https://gitlab.com/octocat/hello", "octocat", "hello")
	if viaSSH || url != "https://gitlab.com/octocat/hello" {
		t.Fatalf("non-GitHub URL rewritten: %q, viaSSH=%v", url, viaSSH)
	}

	a.sshAvailable = false
	url, viaSSH = a.cloneURL("https://github.com/octocat/hello", "octocat", "hello")
	if viaSSH || url != "https://github.com/octocat/hello" {
		t.Fatalf("HTTPS expected without SSH: %q, viaSSH=%v", url, viaSSH)
	}
}

func TestReadKeyFiles_TruncatesContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n")
	writeFile(t, dir, "Makefile", strings.Repeat("x", 5000))
	writeFile(t, dir, "unrelated.cfg", "ignored")

	keyFiles := readKeyFiles(dir)
	if len(keyFiles) != 2 {
		t.Fatalf("expected 2 key files, got %d: %v", len(keyFiles), keyFiles)
	}
	if len(keyFiles["Makefile"]) != maxKeyFileContent {
		t.Fatalf("Makefile length = %d", len(keyFiles["Makefile"]))
	}
}

func TestAnalyzeStructure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "README.md", "# App")
	writeFile(t, dir, filepath.Join("internal", "app", "app.go"), "package app")
	writeFile(t, dir, filepath.Join("internal", "app", "deep", "x.go"), "package deep")
	writeFile(t, dir, filepath.Join("node_modules", "lib", "index.js"), "x")
	writeFile(t, dir, filepath.Join(".git", "config"), "x")

	s := analyzeStructure(dir)

	if s.TotalFiles != 4 {
		t.Fatalf("total files = %d", s.TotalFiles)
	}
	if s.SourceFiles != 3 {
		t.Fatalf("source files = %d", s.SourceFiles)
	}
	if s.FileExtensions[".go"] != 3 {
		t.Fatalf("go extension count = %d", s.FileExtensions[".go"])
	}
	// Only the first two directory levels are listed.
	for _, d := range s.Directories {
		if strings.Contains(d, "deep") {
			t.Fatalf("third-level directory listed: %v", s.Directories)
		}
		if strings.Contains(d, "node_modules") || strings.Contains(d, ".git") {
			t.Fatalf("ignored directory listed: %v", s.Directories)
		}
	}
	want := []string{"internal", filepath.Join("internal", "app")}
	if len(s.Directories) != len(want) {
		t.Fatalf("directories = %v", s.Directories)
	}
}

func TestReadDescription_SkipsTitles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# My Project\n\nA tool that does things.\n")
	if desc := readDescription(dir); desc != "A tool that does things." {
		t.Fatalf("description = %q", desc)
	}
}

func TestReadDescription_TitleOnlyReadme(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# My Project\n")
	if desc := readDescription(dir); desc != "My Project" {
		t.Fatalf("description = %q", desc)
	}
}

func TestAnalyzeLocal_GoRepository(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n\ngo 1.22\n")
	writeFile(t, dir, "main.go", "package main")

	a := &Analyzer{reposDir: t.TempDir()}
	an, err := a.AnalyzeLocal("https://github.com/octocat/app", "octocat", "app", dir)
	if err != nil {
		t.Fatalf("AnalyzeLocal: %v", err)
	}

	if an.Language != "Go" {
		t.Fatalf("language = %q", an.Language)
	}
	if len(an.TechStack) != 1 || an.TechStack[0] != "Go" {
		t.Fatalf("tech stack = %v", an.TechStack)
	}
	if len(an.BuildTools) != 1 || an.BuildTools[0] != "Go modules" {
		t.Fatalf("build tools = %v", an.BuildTools)
	}
	if !strings.Contains(an.Summary, "Primary Language: Go") {
		t.Fatalf("summary missing language:\n%s", an.Summary)
	}
	if !strings.Contains(an.Summary, "Configuration Files: go.mod") {
		t.Fatalf("summary missing config files:\n%s", an.Summary)
	}
	if an.DefaultBranch == "" {
		t.Fatal("default branch must never be empty")
	}
}
