package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pipepilot/pipepilot/internal/state"
	"github.com/pipepilot/pipepilot/internal/ux"
)

// jobPhase creates the Jenkins pipeline job from the generated configuration,
// falling back once to a minimal known-good document when the server rejects
// the generated XML.
func (o *Orchestrator) jobPhase(ctx context.Context) PhaseResult {
	configPath := filepath.Join(o.outputDir, state.ArtifactJobConfig)
	configXML, err := os.ReadFile(configPath)
	if err != nil {
		return PhaseResult{Detail: fmt.Sprintf("no job configuration at %s", configPath)}
	}

	existing, err := o.jenkins.ListJobs(ctx)
	if err != nil {
		ux.Warn("could not list existing jobs: %v", err)
		existing = nil
	}
	if len(existing) > 0 {
		fmt.Printf("Existing jobs (%d):\n", len(existing))
		for i, job := range existing {
			if i == 10 {
				fmt.Printf("  ... and %d more\n", len(existing)-10)
				break
			}
			fmt.Printf("  • %s\n", job)
		}
	}

	suggested := o.analysis.RepoName + "-pipeline"
	jobName := o.prompter.Ask(fmt.Sprintf("Job name (default %q)", suggested), suggested)
	if jobName == "" {
		return PhaseResult{Detail: "no job name provided"}
	}

	for _, job := range existing {
		if job == jobName {
			if !o.prompter.Confirm(fmt.Sprintf("Job %q already exists. Overwrite?", jobName)) {
				return PhaseResult{Skipped: true, Detail: "declined overwrite of existing job"}
			}
			break
		}
	}

	ux.Step("creating job %s", jobName)
	if err := o.jenkins.CreateJob(ctx, jobName, string(configXML)); err == nil {
		return PhaseResult{OK: true, Detail: fmt.Sprintf("%s/job/%s/", o.jenkins.URL(), jobName)}
	} else {
		ux.Warn("generated configuration rejected: %v", err)
	}

	// The generated XML may not survive the server's schema validation; a
	// minimal document referencing the repository is the second and last
	// attempt.
	ux.Step("retrying with minimal pipeline job")
	if err := o.jenkins.CreateJob(ctx, jobName, o.minimalJobXML()); err != nil {
		return PhaseResult{Detail: fmt.Sprintf("minimal job creation failed: %v", err)}
	}
	ux.Hint("job created with basic configuration, customize it in the Jenkins UI")
	return PhaseResult{OK: true, Detail: fmt.Sprintf("%s/job/%s/ (minimal configuration)", o.jenkins.URL(), jobName)}
}

// minimalJobXML synthesizes a schema-conservative pipeline job document that
// checks out the repository and runs the Jenkinsfile at its root.
func (o *Orchestrator) minimalJobXML() string {
	branch := o.analysis.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	return fmt.Sprintf(`<?xml version='1.1' encoding='UTF-8'?>
<flow-definition plugin="workflow-job@2.40">
  <actions/>
  <description>Jenkins pipeline for %s</description>
  <keepDependencies>false</keepDependencies>
  <properties>
    <jenkins.model.BuildDiscarderProperty>
      <strategy class="hudson.tasks.LogRotator">
        <daysToKeep>-1</daysToKeep>
        <numToKeep>10</numToKeep>
        <artifactDaysToKeep>-1</artifactDaysToKeep>
        <artifactNumToKeep>-1</artifactNumToKeep>
      </strategy>
    </jenkins.model.BuildDiscarderProperty>
  </properties>
  <definition class="org.jenkinsci.plugins.workflow.cps.CpsScmFlowDefinition" plugin="workflow-cps@2.80">
    <scm class="hudson.plugins.git.GitSCM" plugin="git@4.8.3">
      <configVersion>2</configVersion>
      <userRemoteConfigs>
        <hudson.plugins.git.UserRemoteConfig>
          <url>%s</url>
        </hudson.plugins.git.UserRemoteConfig>
      </userRemoteConfigs>
      <branches>
        <hudson.plugins.git.BranchSpec>
          <name>*/%s</name>
        </hudson.plugins.git.BranchSpec>
      </branches>
      <doGenerateSubmoduleConfigurations>false</doGenerateSubmoduleConfigurations>
      <submoduleCfg class="list"/>
      <extensions/>
    </scm>
    <scriptPath>Jenkinsfile</scriptPath>
    <lightweight>true</lightweight>
  </definition>
  <triggers/>
  <disabled>false</disabled>
</flow-definition>`, o.analysis.RepoName, o.analysis.RepoURL, branch)
}
