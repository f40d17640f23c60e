package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for optional settings.
const (
	DefaultModel      = "anthropic/claude-3-haiku"
	DefaultJenkinsURL = "http://localhost:8080"
	DefaultUsername   = "admin"
	DefaultCLIJar     = "./jenkins-cli.jar"
	DefaultOutputDir  = "./output"
	DefaultReposDir   = "./repos"
)

// Config holds every setting the components need. It is built once at process
// start and passed by reference into constructors; nothing reads the
// environment after this point.
type Config struct {
	OpenRouterKey string `yaml:"openrouter-key"`
	Model         string `yaml:"model"`
	JenkinsURL    string `yaml:"jenkins-url"`
	JenkinsUser   string `yaml:"jenkins-user"`
	JenkinsToken  string `yaml:"jenkins-token"`
	CLIJarPath    string `yaml:"cli-jar"`
	OutputDir     string `yaml:"output-dir"`
	ReposDir      string `yaml:"repos-dir"`
}

// FromEnv builds a Config from environment variables, applying defaults for
// everything except the API credential.
func FromEnv() *Config {
	return &Config{
		OpenRouterKey: os.Getenv("OPENROUTER_API_KEY"),
		Model:         envOr("AI_MODEL", DefaultModel),
		JenkinsURL:    envOr("JENKINS_URL", DefaultJenkinsURL),
		JenkinsUser:   envOr("JENKINS_USERNAME", DefaultUsername),
		JenkinsToken:  os.Getenv("JENKINS_TOKEN"),
		CLIJarPath:    envOr("JENKINS_CLI_JAR", DefaultCLIJar),
		OutputDir:     envOr("PIPEPILOT_OUTPUT_DIR", DefaultOutputDir),
		ReposDir:      envOr("PIPEPILOT_REPOS_DIR", DefaultReposDir),
	}
}

// ApplyFile overlays settings from an optional YAML file. A missing file is
// not an error; only non-empty fields override the current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	apply := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	apply(&c.OpenRouterKey, overlay.OpenRouterKey)
	apply(&c.Model, overlay.Model)
	apply(&c.JenkinsURL, overlay.JenkinsURL)
	apply(&c.JenkinsUser, overlay.JenkinsUser)
	apply(&c.JenkinsToken, overlay.JenkinsToken)
	apply(&c.CLIJarPath, overlay.CLIJarPath)
	apply(&c.OutputDir, overlay.OutputDir)
	apply(&c.ReposDir, overlay.ReposDir)
	return nil
}

// Validate checks that the settings required for generation are present.
func (c *Config) Validate() error {
	if c.OpenRouterKey == "" {
		return fmt.Errorf("config: OPENROUTER_API_KEY is required (get one at https://openrouter.ai)")
	}
	if c.Model == "" {
		return fmt.Errorf("config: model must not be empty")
	}
	if c.JenkinsURL == "" {
		return fmt.Errorf("config: Jenkins URL must not be empty")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
