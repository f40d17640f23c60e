package generate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pipepilot/pipepilot/internal/analyzer"
	"github.com/pipepilot/pipepilot/internal/jenkins"
	"github.com/pipepilot/pipepilot/internal/state"
)

const keyFileExcerpt = 800

const responseFormat = `RESPONSE FORMAT:
Structure your response exactly like this:

=== JENKINSFILE ===
[Complete Jenkinsfile content here]

=== PIPELINE_JOB_CONFIG ===
[Complete pipeline_job_config.xml content here]

=== REQUIRED_PLUGINS ===
[Complete required_plugins.xml content here - ONLY new plugins needed]

=== END ===`

const xmlStructureRules = `CRITICAL XML STRUCTURE REQUIREMENTS for pipeline_job_config.xml:
- Use ONLY standard Jenkins XML structure
- Parameters MUST be wrapped in ParametersDefinitionProperty:
  <hudson.model.ParametersDefinitionProperty>
    <parameterDefinitions>
      <hudson.model.StringParameterDefinition>
        <name>PARAM_NAME</name>
        <description>Description</description>
        <defaultValue>default</defaultValue>
      </hudson.model.StringParameterDefinition>
    </parameterDefinitions>
  </hudson.model.ParametersDefinitionProperty>
- Do NOT use CredentialsParameterDefinition in XML - use string parameters instead
- Use standard plugin versions without specific build numbers
- Keep XML structure simple and compatible`

// batchSystemPrompt instructs the model to emit all three artifacts in one
// delimited reply.
func batchSystemPrompt(jctx *jenkins.Context) string {
	return fmt.Sprintf(`You are an expert DevOps engineer specializing in Jenkins pipeline creation.

Generate THREE complete files for Jenkins pipeline setup:
1. Jenkinsfile (declarative pipeline)
2. pipeline_job_config.xml (Jenkins job configuration)
3. required_plugins.xml (plugin installation list)

JENKINS CONTEXT:
%s

%s

CRITICAL REQUIREMENTS:
- Generate COMPLETE, production-ready files with no placeholders
- Use proper syntax and formatting for each file type
- Make files immediately usable in Jenkins
- Include all necessary configurations and dependencies
- Add proper error handling and cleanup
- For required_plugins.xml: ONLY include plugins that are NOT already installed
- Use correct plugin versions compatible with the Jenkins version

%s`, renderContextInfo(jctx), xmlStructureRules, responseFormat)
}

// batchUserPrompt renders the repository analysis into the generation request.
func batchUserPrompt(an *analyzer.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Generate complete Jenkins pipeline files for this repository:

%s

Repository Details:
- URL: %s
- Description: %s
- Default Branch: %s
- Local Analysis: Repository was cloned and analyzed from filesystem

Key Configuration Files Found:
`, an.Summary, an.RepoURL, an.Description, an.DefaultBranch)

	names := make([]string, 0, len(an.KeyFiles))
	for name := range an.KeyFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		content := an.KeyFiles[name]
		excerpt := content
		if len(excerpt) > keyFileExcerpt {
			excerpt = excerpt[:keyFileExcerpt]
		}
		fmt.Fprintf(&b, "%s (%d chars):\n%s...\n", name, len(content), excerpt)
	}

	fmt.Fprintf(&b, `
Project Structure:
- Total Files: %d
- Source Files: %d
- Main Directories: %s

Generate all three files:

1. **Jenkinsfile**: Declarative pipeline with appropriate stages for this tech stack
2. **pipeline_job_config.xml**: Complete Jenkins job configuration for GitHub integration
3. **required_plugins.xml**: List of plugins needed for this pipeline to work

Make all files production-ready and immediately usable.`,
		an.Structure.TotalFiles, an.Structure.SourceFiles,
		strings.Join(firstN(an.Structure.Directories, 5), ", "))

	return b.String()
}

// modifySystemPrompt instructs the model to revise the artifact set.
func modifySystemPrompt(jctx *jenkins.Context) string {
	return fmt.Sprintf(`You are an expert DevOps engineer. Modify existing Jenkins files based on user feedback.

JENKINS CONTEXT:
%s

Analyze the user's feedback and update the files accordingly. Maintain the same quality and structure.

%s`, renderContextInfo(jctx), responseFormat)
}

func modifyUserPrompt(current state.ArtifactSet, feedback string, an *analyzer.Analysis) string {
	return fmt.Sprintf(`User feedback: %s

Current files to modify:

**Current Jenkinsfile:**
%s

**Current pipeline_job_config.xml:**
%s

**Current required_plugins.xml:**
%s

Repository context: %s

Please modify the files based on the user's feedback. Keep all files complete and production-ready.`,
		feedback,
		valueOr(current[state.ArtifactPipeline], "Not found"),
		valueOr(current[state.ArtifactJobConfig], "Not found"),
		valueOr(current[state.ArtifactPlugins], "Not found"),
		an.Summary)
}

// artifactPrompts holds the specialized prompt pair for one per-artifact call.
type artifactPrompt struct {
	system string
	user   string
}

func pipelinePrompt(jctx *jenkins.Context, an *analyzer.Analysis) artifactPrompt {
	return artifactPrompt{
		system: fmt.Sprintf(`You are an expert DevOps engineer. Generate a single complete declarative Jenkinsfile.

JENKINS CONTEXT:
%s

Respond with ONLY the Jenkinsfile content. No explanations, no markdown fences.`,
			renderContextInfo(jctx)),
		user: fmt.Sprintf(`Create a declarative Jenkins pipeline for this repository:

%s

Include stages appropriate for the tech stack (checkout, build, test, and deployment where it applies), a post section with cleanup, and sensible environment variables. The repository default branch is %s.`,
			an.Summary, an.DefaultBranch),
	}
}

func jobConfigPrompt(jctx *jenkins.Context, an *analyzer.Analysis) artifactPrompt {
	return artifactPrompt{
		system: fmt.Sprintf(`You are an expert DevOps engineer. Generate a single complete Jenkins pipeline job configuration XML document.

JENKINS CONTEXT:
%s

%s

Respond with ONLY the XML document. No explanations, no markdown fences.`,
			renderContextInfo(jctx), xmlStructureRules),
		user: fmt.Sprintf(`Create a pipeline job configuration for repository %s (default branch %s). The job checks out the repository over SCM and runs the Jenkinsfile at the repository root.`,
			an.RepoURL, an.DefaultBranch),
	}
}

func pluginsPrompt(jctx *jenkins.Context, an *analyzer.Analysis) artifactPrompt {
	return artifactPrompt{
		system: fmt.Sprintf(`You are an expert DevOps engineer. Generate a single XML plugin manifest listing the Jenkins plugins a pipeline needs.

JENKINS CONTEXT:
%s

List each plugin as <plugin>name@version</plugin> inside a root <plugins> element. ONLY include plugins that are NOT already installed. Respond with ONLY the XML document.`,
			renderContextInfo(jctx)),
		user: fmt.Sprintf(`List the plugins required to run a declarative pipeline for this repository:

%s`, an.Summary),
	}
}

// renderContextInfo formats the server snapshot for prompt embedding. At most
// ten plugins are listed per category to bound prompt size.
func renderContextInfo(jctx *jenkins.Context) string {
	if jctx == nil || !jctx.Accessible {
		return `Jenkins Context: Not accessible - generate standard plugin list
Note: Include common plugin versions and standard dependencies`
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Jenkins Context:
Jenkins Version: %s
System Info: %s

ALREADY INSTALLED PLUGINS (%d total):`,
		valueOr(jctx.Version.Jenkins, "Unknown"),
		valueOr(jctx.Version.System, "Unknown"),
		len(jctx.InstalledPlugins))

	for _, category := range []string{"scm", "build", "test", "notification", "deployment", "security", "pipeline", "ui", "other"} {
		plugins := jctx.PluginCategories[category]
		if len(plugins) == 0 {
			continue
		}
		entries := make([]string, 0, len(plugins))
		for _, p := range firstN(plugins, 10) {
			version := jctx.InstalledPlugins[p]
			if version == "" {
				version = "unknown"
			}
			entries = append(entries, fmt.Sprintf("%s(%s)", p, version))
		}
		fmt.Fprintf(&b, "\n%s: %s", titleCase(category), strings.Join(entries, ", "))
		if len(plugins) > 10 {
			fmt.Fprintf(&b, " ... and %d more", len(plugins)-10)
		}
	}

	fmt.Fprintf(&b, `

IMPORTANT: Do NOT include any of the above plugins in required_plugins.xml
Only suggest NEW plugins that are actually needed for the pipeline but not already installed.
Use appropriate versions compatible with Jenkins %s`,
		valueOr(jctx.Version.Jenkins, "LTS"))

	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
