package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/777genius/sinkswitch/internal/config"
	"github.com/777genius/sinkswitch/internal/endpoint"
	"github.com/777genius/sinkswitch/internal/logging"
	"github.com/777genius/sinkswitch/internal/switcher"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping binary build in short mode")
	}

	binPath := filepath.Join(t.TempDir(), "sinkswitch")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", binPath, ".")
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build binary: %v", err)
	}
	return binPath
}

func runBinary(t *testing.T, bin string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = append(cmd.Environ(), "SINKSWITCH_LOG_DIR="+t.TempDir(), config.EnvConfigPath+"=")
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(output), exitErr.ExitCode()
	}
	if err != nil {
		t.Fatalf("Failed to run binary: %v", err)
	}
	return string(output), 0
}

// TestMainHelp tests that help prints usage and succeeds
func TestMainHelp(t *testing.T) {
	bin := buildBinary(t)

	output, code := runBinary(t, bin, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Exit codes:")
}

func TestMainVersion(t *testing.T) {
	bin := buildBinary(t)

	output, code := runBinary(t, bin, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "sinkswitch v"+version)
}

func TestMainUnknownSingleArgument(t *testing.T) {
	bin := buildBinary(t)

	output, code := runBinary(t, bin, "speakers")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, output, "expected two device names")
}

func TestMainTooManyArguments(t *testing.T) {
	bin := buildBinary(t)

	output, code := runBinary(t, bin, "a", "b", "c")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, output, "too many arguments")
}

// TestMainUnsupportedPlatform checks the enumerate exit code where the endpoint API is missing
func TestMainUnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Endpoint API is available on Windows")
	}
	bin := buildBinary(t)

	output, code := runBinary(t, bin, "speak", "head")
	assert.Equal(t, exitEnumerate, code)
	assert.Contains(t, output, "only supported on Windows")
	assert.Contains(t, output, "Details: ")
	assert.Contains(t, output, logging.LogFileName)

	_, code = runBinary(t, bin, "list")
	assert.Equal(t, exitEnumerate, code)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"configure", &switcher.Error{Phase: switcher.PhaseConfigure, Err: errors.New("x")}, exitConfigure},
		{"enumerate", &switcher.Error{Phase: switcher.PhaseEnumerate, Err: errors.New("x")}, exitEnumerate},
		{"resolve", &switcher.Error{Phase: switcher.PhaseResolve, Err: errors.New("x")}, exitResolve},
		{"commit", &switcher.Error{Phase: switcher.PhaseCommit, Err: errors.New("x")}, exitCommit},
		{"bare platform error", &endpoint.PlatformError{Op: "initialize", Err: endpoint.ErrUnsupported}, exitEnumerate},
		{"other", errors.New("x"), exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

// TestConfigForArgumentsIgnoresBrokenConfig checks that needles from the command line
// survive a config file that fails validation
func TestConfigForArgumentsIgnoresBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	content := `{"devices":{"first":"a","second":"b"},"confirmation":{"sound":"/nonexistent/beep.wav"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(config.EnvConfigPath, path)

	cfg, err := configFor([]string{"speak", "head"})
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Source())
	assert.Equal(t, config.DefaultConfig().Confirmation, cfg.Confirmation)

	_, err = configFor(nil)
	require.Error(t, err)
	assert.Equal(t, switcher.PhaseConfigure, switcher.PhaseOf(err))
	assert.Equal(t, exitConfigure, exitCode(err))
}

func TestConfigForValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"devices":{"first":"a","second":"b"}}`), 0644))
	t.Setenv(config.EnvConfigPath, path)

	cfg, err := configFor([]string{"speak", "head"})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source())
}

func TestDescribeSource(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, "arguments", describeSource(cfg, true))
	assert.Equal(t, "defaults", describeSource(cfg, false))
}

func TestLogDirOverride(t *testing.T) {
	t.Setenv("SINKSWITCH_LOG_DIR", "/tmp/sinkswitch-logs")
	assert.Equal(t, "/tmp/sinkswitch-logs", logDir())

	t.Setenv("SINKSWITCH_LOG_DIR", "")
	assert.NotEmpty(t, logDir())
}
