package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pipepilot/pipepilot/internal/state"
	"github.com/pipepilot/pipepilot/internal/ux"
)

// Plugin is one entry of the required-plugins manifest.
type Plugin struct {
	Name    string
	Version string
}

// Spec renders the plugin in install-plugin argument form.
func (p Plugin) Spec() string {
	if p.Version == "latest" {
		return p.Name
	}
	return p.Name + ":" + p.Version
}

var pluginEntry = regexp.MustCompile(`<plugin[^>]*>([^<]+)</plugin>`)

// ParsePluginManifest extracts plugin entries from the manifest XML. The
// parser is deliberately permissive: it matches plugin elements anywhere in
// the document, keeps manifest order, and does not deduplicate. Entries are
// "name@version"; a bare name means the latest version.
func ParsePluginManifest(content string) []Plugin {
	var plugins []Plugin
	for _, m := range pluginEntry.FindAllStringSubmatch(content, -1) {
		entry := strings.TrimSpace(m[1])
		if entry == "" {
			continue
		}
		name, version, found := strings.Cut(entry, "@")
		if !found {
			plugins = append(plugins, Plugin{Name: strings.TrimSpace(name), Version: "latest"})
			continue
		}
		plugins = append(plugins, Plugin{
			Name:    strings.TrimSpace(name),
			Version: strings.TrimSpace(version),
		})
	}
	return plugins
}

// pluginPhase installs the manifest plugins one at a time, tallying per-plugin
// outcomes. At least one successful installation counts as phase success.
func (o *Orchestrator) pluginPhase(ctx context.Context) PhaseResult {
	manifestPath := filepath.Join(o.outputDir, state.ArtifactPlugins)
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return PhaseResult{Detail: fmt.Sprintf("no plugin manifest at %s", manifestPath)}
	}

	plugins := ParsePluginManifest(string(content))
	if len(plugins) == 0 {
		return PhaseResult{OK: true, Detail: "no plugins need to be installed"}
	}

	fmt.Printf("Plugins to install (%d):\n", len(plugins))
	for _, p := range plugins {
		fmt.Printf("  • %s (%s)\n", p.Name, p.Version)
	}
	if !o.prompter.Confirm("Install these plugins?") {
		return PhaseResult{Skipped: true, Detail: "declined by user", Required: len(plugins)}
	}

	installed := 0
	for _, p := range plugins {
		ux.Step("installing %s", p.Spec())
		if err := o.jenkins.InstallPlugin(ctx, p.Spec()); err != nil {
			ux.Warn("failed: %s: %v", p.Name, err)
			continue
		}
		installed++
	}

	result := PhaseResult{Installed: installed, Required: len(plugins)}
	switch {
	case installed == len(plugins):
		result.OK = true
		result.Detail = "all plugins installed"
		ux.Warn("Jenkins may need a restart for plugins to take effect")
		if o.prompter.Confirm("Restart Jenkins now?") {
			if err := o.jenkins.SafeRestart(ctx); err != nil {
				ux.Warn("restart failed: %v", err)
			} else {
				ux.Step("restart initiated, Jenkins will restart when current builds complete")
			}
		}
	case installed > 0:
		result.OK = true
		result.Detail = fmt.Sprintf("partial success: %d/%d plugins installed", installed, len(plugins))
	default:
		result.Detail = "no plugins were installed"
	}
	return result
}
