package jenkins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pipepilot/pipepilot/internal/config"
)

const jarDownloadTimeout = 30 * time.Second

// CommandRunner executes a single Jenkins CLI sub-command and returns its
// trimmed standard output. Tests substitute a mock.
type CommandRunner interface {
	Run(ctx context.Context, stdin string, timeout time.Duration, args ...string) (string, error)
}

// jarRunner invokes the downloaded jenkins-cli.jar as a subprocess.
type jarRunner struct {
	jarPath   string
	serverURL string
	auth      string // "user:token", empty when unauthenticated
}

func (r *jarRunner) Run(ctx context.Context, stdin string, timeout time.Duration, args ...string) (string, error) {
	if _, err := os.Stat(r.jarPath); err != nil {
		return "", fmt.Errorf("jenkins-cli.jar not found at %s", r.jarPath)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdArgs := []string{"-jar", r.jarPath, "-s", r.serverURL}
	if r.auth != "" {
		cmdArgs = append(cmdArgs, "-auth", r.auth)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.CommandContext(ctx, "java", cmdArgs...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("jenkins cli %q timed out after %s", strings.Join(args, " "), timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("jenkins cli %q failed (exit %d): %s",
				strings.Join(args, " "), exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("jenkins cli %q: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Client talks to a Jenkins server through its CLI jar.
type Client struct {
	cfg    *config.Config
	runner CommandRunner
}

// NewClient builds a Client using the real jar subprocess runner.
func NewClient(cfg *config.Config) *Client {
	auth := ""
	if cfg.JenkinsUser != "" && cfg.JenkinsToken != "" {
		auth = cfg.JenkinsUser + ":" + cfg.JenkinsToken
	}
	return &Client{
		cfg:    cfg,
		runner: &jarRunner{jarPath: cfg.CLIJarPath, serverURL: cfg.JenkinsURL, auth: auth},
	}
}

// NewClientWithRunner builds a Client around an injected runner, for tests.
func NewClientWithRunner(cfg *config.Config, runner CommandRunner) *Client {
	return &Client{cfg: cfg, runner: runner}
}

// URL returns the configured server URL.
func (c *Client) URL() string {
	return c.cfg.JenkinsURL
}

// EnsureJar downloads jenkins-cli.jar from the server's distribution endpoint
// when it is not already on disk.
func (c *Client) EnsureJar(ctx context.Context) error {
	if _, err := os.Stat(c.cfg.CLIJarPath); err == nil {
		return nil
	}

	url := c.cfg.JenkinsURL + "/jnlpJars/jenkins-cli.jar"
	fmt.Printf("📥 Downloading Jenkins CLI jar from %s\n", url)

	ctx, cancel := context.WithTimeout(ctx, jarDownloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading CLI jar: %w (download manually from %s/manage/cli/)", err, c.cfg.JenkinsURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading CLI jar: HTTP %d (download manually from %s/manage/cli/)", resp.StatusCode, c.cfg.JenkinsURL)
	}

	f, err := os.Create(c.cfg.CLIJarPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(c.cfg.CLIJarPath)
		return fmt.Errorf("writing CLI jar: %w", err)
	}
	return nil
}

// Version returns the server's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.runner.Run(ctx, "", 10*time.Second, "version")
}

// SystemInfo returns a one-line server+JVM description via a groovy probe.
func (c *Client) SystemInfo(ctx context.Context) (string, error) {
	return c.runner.Run(ctx, "", 15*time.Second, "groovy", "=",
		`println(Jenkins.instance.version + " on " + System.getProperty("java.version"))`)
}

// InstalledPlugins returns the plugin-name to version mapping.
func (c *Client) InstalledPlugins(ctx context.Context) (map[string]string, error) {
	out, err := c.runner.Run(ctx, "", 30*time.Second, "list-plugins")
	if err != nil {
		return nil, err
	}
	return parsePluginList(out), nil
}

// ListJobs returns the names of existing jobs.
func (c *Client) ListJobs(ctx context.Context) ([]string, error) {
	out, err := c.runner.Run(ctx, "", 30*time.Second, "list-jobs")
	if err != nil {
		return nil, err
	}
	var jobs []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			jobs = append(jobs, line)
		}
	}
	return jobs, nil
}

// CreateJob creates a job from an XML configuration fed over stdin.
func (c *Client) CreateJob(ctx context.Context, name, configXML string) error {
	_, err := c.runner.Run(ctx, configXML, 60*time.Second, "create-job", name)
	return err
}

// InstallPlugin installs a single plugin; spec is "name" or "name:version".
func (c *Client) InstallPlugin(ctx context.Context, spec string) error {
	_, err := c.runner.Run(ctx, "", 60*time.Second, "install-plugin", spec)
	return err
}

// SafeRestart asks the server to restart once running builds drain.
func (c *Client) SafeRestart(ctx context.Context) error {
	_, err := c.runner.Run(ctx, "", 30*time.Second, "safe-restart")
	return err
}

// parsePluginList decodes `list-plugins` output lines of the form
// "plugin-name Display Name (version)".
func parsePluginList(out string) map[string]string {
	plugins := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		rest := strings.Join(fields[1:], " ")
		open := strings.LastIndex(rest, "(")
		end := strings.LastIndex(rest, ")")
		if open < 0 || end < open {
			continue
		}
		plugins[fields[0]] = rest[open+1 : end]
	}
	return plugins
}
