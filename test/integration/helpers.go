//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIKey     string
	BaseURL    string
	NeonPath   string
	RegionID   string
	Verbose    bool
	OpsTimeout time.Duration
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIKey:     os.Getenv("NEON_API_KEY"),
		BaseURL:    os.Getenv("NEON_API_BASE_URL"),
		NeonPath:   getNeonPath(),
		RegionID:   os.Getenv("NEON_TEST_REGION"),
		Verbose:    os.Getenv("NEON_VERBOSE") == "true",
		OpsTimeout: 2 * time.Minute,
	}
}

// getNeonPath determines the path to the neon binary
func getNeonPath() string {
	if path := os.Getenv("NEON_BINARY_PATH"); path != "" {
		return path
	}

	// Try common locations
	candidates := []string{
		"../../neon",
		"./neon",
		"../neon",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "neon" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.APIKey == "" {
		t.Skip("NEON_API_KEY not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.NeonPath); err != nil {
		t.Skipf("neon binary not found at %s, skipping integration test", config.NeonPath)
	}
}

// CommandRunner provides utilities for running neon commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a neon command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.NeonPath, args...)
	cmd.Env = append(os.Environ(), "NEON_API_KEY="+runner.config.APIKey)

	if runner.config.BaseURL != "" {
		cmd.Env = append(cmd.Env, "NEON_API_BASE_URL="+runner.config.BaseURL)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.NeonPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a neon command with JSON output and decodes it into out
func (runner *CommandRunner) RunJSON(out any, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%v: %s", err, stderr)
	}

	if err := json.Unmarshal([]byte(stdout), out); err != nil {
		return fmt.Errorf("decoding output of %s: %w", strings.Join(args, " "), err)
	}

	return nil
}

// WaitForOperations waits until no operation of the project is still running
func (runner *CommandRunner) WaitForOperations(projectID string) {
	WaitForCondition(runner.t, func() bool {
		var operations []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}

		if err := runner.RunJSON(&operations, "operations", "list", "--project", projectID); err != nil {
			runner.t.Logf("listing operations: %v", err)

			return false
		}

		for _, op := range operations {
			switch op.Status {
			case "finished", "skipped", "cancelled":
			case "failed", "error":
				runner.t.Fatalf("operation %s ended with status %s", op.ID, op.Status)
			default:
				return false
			}
		}

		return true
	}, runner.config.OpsTimeout, "operations of project "+projectID)
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupProject attempts to delete a test project
func (runner *CommandRunner) CleanupProject(projectID string) {
	stdout, stderr, err := runner.Run("projects", "delete", projectID)
	if err != nil {
		runner.t.Logf("Cleanup warning for project %s: %s\nStderr: %s", projectID, stdout, stderr)
	}
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	output = strings.TrimSpace(output)
	if strings.Contains(output, ":") {
		return
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
