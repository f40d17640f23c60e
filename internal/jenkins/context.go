package jenkins

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// VersionInfo captures the server version probes.
type VersionInfo struct {
	Jenkins string `json:"jenkins_version"`
	System  string `json:"system_info"`
}

// Context is a snapshot of the Jenkins server taken before generation. It is
// persisted alongside the artifacts and rendered into the generation prompt so
// the model knows which plugins are already installed.
type Context struct {
	Accessible       bool                `json:"jenkins_accessible"`
	Version          VersionInfo         `json:"version_info"`
	InstalledPlugins map[string]string   `json:"installed_plugins"`
	PluginCategories map[string][]string `json:"plugin_categories"`
}

// categoryOrder fixes the rendering order of plugin categories.
var categoryOrder = []string{
	"scm", "build", "test", "notification", "deployment", "security", "pipeline", "ui", "other",
}

// categoryKeywords maps a category to the substrings that place a plugin in
// it. A plugin lands in the first category with a matching keyword.
var categoryKeywords = map[string][]string{
	"scm":          {"git", "svn", "mercurial", "subversion", "bitbucket", "gitlab"},
	"build":        {"maven", "gradle", "ant", "msbuild", "xcode", "nodejs"},
	"test":         {"junit", "testng", "jacoco", "cobertura", "coverage"},
	"notification": {"email", "slack", "mailer", "notification"},
	"deployment":   {"deploy", "docker", "kubernetes", "ssh", "publish"},
	"security":     {"credentials", "matrix-auth", "role", "ldap", "saml"},
	"pipeline":     {"workflow", "pipeline", "blueocean", "stage"},
	"ui":           {"dashboard", "view", "theme", "monitoring"},
}

// Probe gathers the server snapshot. It never returns an error: when the
// server cannot be reached the snapshot simply records Accessible=false and
// generation proceeds without plugin context.
func (c *Client) Probe(ctx context.Context) *Context {
	jc := &Context{
		InstalledPlugins: map[string]string{},
		PluginCategories: map[string][]string{},
	}

	fmt.Printf("🔍 Gathering Jenkins context from %s\n", c.cfg.JenkinsURL)

	if err := c.EnsureJar(ctx); err != nil {
		fmt.Printf("   ⚠ %v\n", err)
		return jc
	}

	version, err := c.Version(ctx)
	if err != nil {
		fmt.Printf("   ⚠ Jenkins not reachable: %v\n", err)
		return jc
	}
	jc.Accessible = true
	jc.Version.Jenkins = version

	if info, err := c.SystemInfo(ctx); err == nil {
		jc.Version.System = info
	}

	plugins, err := c.InstalledPlugins(ctx)
	if err != nil {
		fmt.Printf("   ⚠ Could not list plugins: %v\n", err)
		return jc
	}
	jc.InstalledPlugins = plugins
	jc.PluginCategories = CategorizePlugins(plugins)

	fmt.Printf("   ✓ Jenkins %s, %d plugins installed\n", version, len(plugins))
	return jc
}

// CategorizePlugins buckets plugin names by keyword. Plugins matching no
// keyword go to "other". Names are processed in sorted order so the bucket
// contents are deterministic.
func CategorizePlugins(plugins map[string]string) map[string][]string {
	categories := make(map[string][]string)

	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lower := strings.ToLower(name)
		placed := false
		for _, cat := range categoryOrder {
			for _, kw := range categoryKeywords[cat] {
				if strings.Contains(lower, kw) {
					categories[cat] = append(categories[cat], name)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			categories["other"] = append(categories["other"], name)
		}
	}
	return categories
}
