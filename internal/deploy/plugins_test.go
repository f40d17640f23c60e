package deploy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pipepilot/pipepilot/internal/analyzer"
	"github.com/pipepilot/pipepilot/internal/state"
)

type mockJenkins struct {
	url         string
	jobs        []string
	listErr     error
	createErrs  []error
	createCalls []string
	installErr  map[string]error
	installs    []string
	restarts    int
}

func (m *mockJenkins) URL() string { return m.url }

func (m *mockJenkins) ListJobs(context.Context) ([]string, error) {
	return m.jobs, m.listErr
}

func (m *mockJenkins) CreateJob(_ context.Context, name, configXML string) error {
	m.createCalls = append(m.createCalls, configXML)
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		return err
	}
	return nil
}

func (m *mockJenkins) InstallPlugin(_ context.Context, spec string) error {
	m.installs = append(m.installs, spec)
	return m.installErr[spec]
}

func (m *mockJenkins) SafeRestart(context.Context) error {
	m.restarts++
	return nil
}

// scriptedPrompter answers Confirm calls from a queue and Ask calls with a
// fixed response.
type scriptedPrompter struct {
	confirms []bool
	answer   string
}

func (p *scriptedPrompter) Confirm(string) bool {
	if len(p.confirms) == 0 {
		return false
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer
}

func (p *scriptedPrompter) Ask(_, def string) string {
	if p.answer != "" {
		return p.answer
	}
	return def
}

func testOrchestrator(t *testing.T, api *mockJenkins, prompter Prompter) *Orchestrator {
	t.Helper()
	an := &analyzer.Analysis{
		RepoURL:       "https://github.com/octocat/app",
		Owner:         "octocat",
		RepoName:      "app",
		LocalPath:     t.TempDir(),
		DefaultBranch: "main",
	}
	return NewOrchestrator(an, t.TempDir(), api, prompter)
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParsePluginManifest(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<plugins>
  <plugin version="ignored">git@4.8.3</plugin>
  <plugin>workflow-aggregator</plugin>
  <plugin> docker-workflow @ 1.29 </plugin>
  <plugin></plugin>
</plugins>`

	plugins := ParsePluginManifest(manifest)

	want := []Plugin{
		{Name: "git", Version: "4.8.3"},
		{Name: "workflow-aggregator", Version: "latest"},
		{Name: "docker-workflow", Version: "1.29"},
	}
	if len(plugins) != len(want) {
		t.Fatalf("parsed %d plugins: %v", len(plugins), plugins)
	}
	for i := range want {
		if plugins[i] != want[i] {
			t.Fatalf("plugin[%d] = %v, want %v", i, plugins[i], want[i])
		}
	}
}

func TestPluginSpec(t *testing.T) {
	if s := (Plugin{Name: "git", Version: "4.8.3"}).Spec(); s != "git:4.8.3" {
		t.Fatalf("spec = %q", s)
	}
	if s := (Plugin{Name: "git", Version: "latest"}).Spec(); s != "git" {
		t.Fatalf("spec = %q", s)
	}
}

func TestPluginPhase_PartialSuccess(t *testing.T) {
	api := &mockJenkins{installErr: map[string]error{
		"b": errors.New("mirror unavailable"),
		"d": errors.New("mirror unavailable"),
	}}
	// Confirm install, decline nothing else (restart not offered on partial).
	o := testOrchestrator(t, api, &scriptedPrompter{confirms: []bool{true}})
	writeArtifact(t, o.outputDir, state.ArtifactPlugins,
		`<plugins><plugin>a</plugin><plugin>b</plugin><plugin>c</plugin><plugin>d</plugin><plugin>e</plugin></plugins>`)

	result := o.pluginPhase(context.Background())

	if !result.OK {
		t.Fatalf("partial success should pass the phase: %+v", result)
	}
	if result.Installed != 3 || result.Required != 5 {
		t.Fatalf("tally = %d/%d", result.Installed, result.Required)
	}
	if !strings.Contains(result.Detail, "3/5") {
		t.Fatalf("detail = %q", result.Detail)
	}
	if api.restarts != 0 {
		t.Fatal("restart must not be offered on partial success")
	}
}

func TestPluginPhase_TotalFailure(t *testing.T) {
	api := &mockJenkins{installErr: map[string]error{
		"a": errors.New("down"),
		"b": errors.New("down"),
	}}
	o := testOrchestrator(t, api, &scriptedPrompter{confirms: []bool{true}})
	writeArtifact(t, o.outputDir, state.ArtifactPlugins,
		`<plugins><plugin>a</plugin><plugin>b</plugin></plugins>`)

	result := o.pluginPhase(context.Background())

	if result.OK {
		t.Fatalf("phase passed with zero installs: %+v", result)
	}
	if result.Installed != 0 || result.Required != 2 {
		t.Fatalf("tally = %d/%d", result.Installed, result.Required)
	}
}

func TestPluginPhase_EmptyManifestSucceeds(t *testing.T) {
	api := &mockJenkins{}
	o := testOrchestrator(t, api, &scriptedPrompter{})
	writeArtifact(t, o.outputDir, state.ArtifactPlugins, `<plugins></plugins>`)

	result := o.pluginPhase(context.Background())

	if !result.OK {
		t.Fatalf("empty manifest should succeed: %+v", result)
	}
	if len(api.installs) != 0 {
		t.Fatalf("installs = %v", api.installs)
	}
}

func TestPluginPhase_FullSuccessOffersRestart(t *testing.T) {
	api := &mockJenkins{}
	o := testOrchestrator(t, api, &scriptedPrompter{confirms: []bool{true, true}})
	writeArtifact(t, o.outputDir, state.ArtifactPlugins,
		`<plugins><plugin>git@4.8.3</plugin></plugins>`)

	result := o.pluginPhase(context.Background())

	if !result.OK || result.Installed != 1 {
		t.Fatalf("result = %+v", result)
	}
	if api.installs[0] != "git:4.8.3" {
		t.Fatalf("installs = %v", api.installs)
	}
	if api.restarts != 1 {
		t.Fatalf("restarts = %d", api.restarts)
	}
}

func TestPluginPhase_DeclinedByUser(t *testing.T) {
	api := &mockJenkins{}
	o := testOrchestrator(t, api, &scriptedPrompter{confirms: []bool{false}})
	writeArtifact(t, o.outputDir, state.ArtifactPlugins,
		`<plugins><plugin>git</plugin></plugins>`)

	result := o.pluginPhase(context.Background())

	if result.OK || len(api.installs) != 0 {
		t.Fatalf("result = %+v installs = %v", result, api.installs)
	}
}
