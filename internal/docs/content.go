package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with pipepilot",
		Content: topicQuickstart,
	},
	{
		Name:    "configuration",
		Title:   "Configuration Reference",
		Summary: "Environment variables, pipepilot.yaml, and defaults",
		Content: topicConfiguration,
	},
	{
		Name:    "workflow",
		Title:   "Generation Workflow",
		Summary: "Repository analysis, AI generation, and the feedback loop",
		Content: topicWorkflow,
	},
	{
		Name:    "deployment",
		Title:   "Deployment Phases",
		Summary: "Git push, job creation, and plugin installation",
		Content: topicDeployment,
	},
	{
		Name:    "feedback",
		Title:   "Feedback Examples",
		Summary: "How to refine generated pipelines interactively",
		Content: topicFeedback,
	},
}

const topicQuickstart = `Quick Start
===========

1. Get an OpenRouter API key from https://openrouter.ai and put it in a
   .env file next to the binary:

    OPENROUTER_API_KEY=your_key_here

2. Point pipepilot at a repository:

    pipepilot run https://github.com/user/repo

   The repository is cloned locally (SSH first, HTTPS fallback),
   classified, and three files are generated into ./output:

    Jenkinsfile                declarative pipeline
    pipeline_job_config.xml    Jenkins job configuration
    required_plugins.xml       plugins the pipeline needs

3. Refine interactively. Type feedback like "Add Docker build stage",
   or 'ready' to deploy, or 'exit' to finish.

CLI Commands
------------

  pipepilot run <repo-url>        Analyze, generate, and enter the loop
  pipepilot run <repo-url> --model anthropic/claude-3.5-sonnet
  pipepilot context               Snapshot the Jenkins server only
  pipepilot deploy                Deploy previously generated artifacts
  pipepilot status                Show artifacts and last deployment
  pipepilot doctor                Diagnose a failed deployment
  pipepilot docs [topic]          This documentation`

const topicConfiguration = `Configuration Reference
=======================

Configuration is layered: defaults, then environment variables (a .env
file in the working directory is loaded automatically), then an
optional pipepilot.yaml, then CLI flags.

Environment variables
---------------------

  OPENROUTER_API_KEY     required, the OpenRouter API key
  AI_MODEL               model identifier (default anthropic/claude-3-haiku)
  JENKINS_URL            server URL (default http://localhost:8080)
  JENKINS_USERNAME       CLI username (default admin)
  JENKINS_TOKEN          API token; without it the CLI runs unauthenticated
  JENKINS_CLI_JAR        path to jenkins-cli.jar (default ./jenkins-cli.jar)
  PIPEPILOT_OUTPUT_DIR   artifact directory (default ./output)
  PIPEPILOT_REPOS_DIR    clone directory (default ./repos)

pipepilot.yaml
--------------

Any subset of the same settings, overriding the environment:

  model: anthropic/claude-3.5-sonnet
  jenkins-url: https://jenkins.internal:8443
  output-dir: ./artifacts

The Jenkins CLI jar is downloaded automatically from
<jenkins-url>/jnlpJars/jenkins-cli.jar when it is missing.`

const topicWorkflow = `Generation Workflow
===================

1. Server snapshot. Before anything else the Jenkins server is probed:
   version, system info, and the full installed-plugin list grouped by
   category. The snapshot is saved to jenkins_context.json and embedded
   into every generation prompt, so the model does not re-list plugins
   that are already installed. An unreachable server is not fatal; the
   model falls back to a standard plugin list.

2. Clone and classify. The repository is cloned under ./repos (SSH
   form for GitHub URLs when an SSH key works, HTTPS otherwise, with
   one fallback retry). Classification reads well-known config files
   (package.json, pom.xml, go.mod, ...) in a fixed rule order and falls
   back to file-extension frequency. The result is saved to
   repository_analysis.json.

3. Generation. The model returns all three files in one reply using
   exact marker lines:

    === JENKINSFILE ===
    ...
    === PIPELINE_JOB_CONFIG ===
    ...
    === REQUIRED_PLUGINS ===
    ...
    === END ===

   The decoder tolerates missing END markers and out-of-order sections;
   missing sections are reported, not fatal.

4. Feedback loop. Free text regenerates all three files in one batch
   call that carries the complete current content, so edits never leave
   the set inconsistent. 'ready' hands off to deployment.`

const topicDeployment = `Deployment Phases
=================

Deployment runs three phases. Every phase is attempted even when an
earlier one fails, so one run surfaces all remediation work; overall
success requires all three. The outcome is written to
deployment_report.json, which 'pipepilot doctor' reads.

Phase 1: git. Copies the Jenkinsfile into the local checkout. If the
checkout already tracks a Jenkinsfile it is updated on the current
branch; otherwise a feature/jenkins-ci-cd-pipeline branch is created.
Commit message is fixed; "nothing to commit" is benign. New branches
push with --set-upstream. Push failures print the manual remediation
commands.

Phase 2: job. Lists existing jobs (best-effort), asks for a job name
(default <repo>-pipeline), and requires confirmation before
overwriting an existing job. The generated XML is tried first; if the
server rejects it, exactly one fallback attempt is made with a minimal
known-good pipeline job document pointing at the repository.

Phase 3: plugins. Parses required_plugins.xml (<plugin>name@version</plugin>
entries; a bare name means latest), asks for confirmation, and installs
plugins one at a time. An empty manifest succeeds immediately. Partial
installation still passes the phase with a n/m tally; zero installs
fail it. After a full install the tool offers a safe-restart.`

const topicFeedback = `Feedback Examples
=================

Any free text in the interactive loop is treated as a modification
request against all three generated files:

  Add Docker build stage
  Remove testing stage
  Add SonarQube code analysis
  Change build retention to 5 builds
  Add Slack notifications
  Use Maven instead of Gradle
  Enable GitHub hook trigger for SCM polling

Reserved words (case-insensitive):

  ready        start deployment
  help         show these examples
  exit, quit, done   end the session

After a successful deployment, point a GitHub webhook at
<jenkins-url>/github-webhook/ so pushes trigger the pipeline.`
