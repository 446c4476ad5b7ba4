package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".atomcss.yaml")
	configContent := `
package: "@acme/ui"
verbose: true

build:
  root: app
  out-dir: out
  workers: 4

lint:
  strict: true
  max-issues: 20
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "@acme/ui", k.String("package"))
	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "app", k.String("build.root"))
	assert.Equal(t, "out", k.String("build.out-dir"))
	assert.Equal(t, 4, k.Int("build.workers"))
	assert.True(t, k.Bool("lint.strict"))
	assert.Equal(t, 20, k.Int("lint.max-issues"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent config; should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.atomcss.yaml"))

	config := buildConfig()
	assert.Equal(t, "src", config.Root)
	assert.Equal(t, "dist", config.OutDir)
	assert.Equal(t, "@atomcss/react", config.Package)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".atomcss.yaml")
	configContent := `
build:
  root: from-file
lint:
  strict: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	// Set env vars that should override config file
	t.Setenv("ATOMCSS_BUILD_ROOT", "from-env")
	t.Setenv("ATOMCSS_LINT_STRICT", "true")

	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "from-env", k.String("build.root"))
	assert.True(t, k.Bool("lint.strict"))
	assert.Equal(t, "from-env", buildConfig().Root)
	assert.True(t, buildLintConfig().Strict)
}

func TestBuildConfig_Defaults(t *testing.T) {
	resetKoanf()

	config := buildConfig()
	assert.Equal(t, "src", config.Root)
	assert.Equal(t, "dist", config.OutDir)
	assert.Empty(t, config.CSSOutDir)
	assert.Empty(t, config.StateFile)
	assert.Equal(t, "@atomcss/react", config.Package)
	assert.Equal(t, "@atomcss/react/css", config.CSSDir)
	assert.False(t, config.SingleCSS)
	assert.False(t, config.Debug)
	assert.False(t, config.Tailwind)
	assert.Empty(t, config.Prefix)
	assert.Equal(t, 0, config.Workers)
	assert.Nil(t, config.Include)
	assert.Nil(t, config.Breakpoints)
	assert.Nil(t, config.ImportAliases)
}

func TestBuildConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".atomcss.yaml")
	configContent := `
package: "@acme/ui"
single-css: true
prefix: x-
import-aliases:
  "@emotion/styled": styled
build:
  root: app
  out-dir: build
  css-out-dir: public/css
  state-file: build/atomcss.json
  workers: 2
  include:
    - "**/*.tsx"
  exclude:
    - "**/*.stories.tsx"
  breakpoints: [0, 600, 1200]
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildConfig()
	assert.Equal(t, "app", config.Root)
	assert.Equal(t, "build", config.OutDir)
	assert.Equal(t, "public/css", config.CSSOutDir)
	assert.Equal(t, "build/atomcss.json", config.StateFile)
	assert.Equal(t, "@acme/ui", config.Package)
	assert.True(t, config.SingleCSS)
	assert.Equal(t, "x-", config.Prefix)
	assert.Equal(t, 2, config.Workers)
	assert.Equal(t, []string{"**/*.tsx"}, config.Include)
	assert.Equal(t, []string{"**/*.stories.tsx"}, config.Exclude)
	assert.Equal(t, []int{0, 600, 1200}, config.Breakpoints)
	assert.Equal(t, map[string]string{"@emotion/styled": "styled"}, config.ImportAliases)
}

func TestBuildLintConfig_Defaults(t *testing.T) {
	resetKoanf()

	config := buildLintConfig()
	assert.Equal(t, "src", config.Root)
	assert.False(t, config.Strict)
	assert.Equal(t, 0, config.MaxIssues)
	assert.Equal(t, 0, config.MaxSameIssues)
	assert.True(t, config.PrintIssuedLines)
	assert.True(t, config.PrintLinterName)
	assert.False(t, config.UseColors)
	assert.Nil(t, config.Include)
}

func TestBuildLintConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".atomcss.yaml")
	configContent := `
build:
  root: app
lint:
  strict: true
  paths:
    - "components/**/*.tsx"
  max-issues: 10
  max-same-issues: 2
  print-lines: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildLintConfig()
	assert.Equal(t, "app", config.Root)
	assert.True(t, config.Strict)
	assert.Equal(t, []string{"components/**/*.tsx"}, config.Include)
	assert.Equal(t, 10, config.MaxIssues)
	assert.Equal(t, 2, config.MaxSameIssues)
	assert.False(t, config.PrintIssuedLines)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		quiet     bool
		wantInfo  bool
		wantDebug bool
	}{
		{"default", false, false, true, false},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
		{"quiet wins", true, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := newLogger(tt.verbose, tt.quiet).Core()
			assert.Equal(t, tt.wantInfo, core.Enabled(zapcore.InfoLevel))
			assert.Equal(t, tt.wantDebug, core.Enabled(zapcore.DebugLevel))
		})
	}
}

func TestExtractCommand(t *testing.T) {
	resetKoanf()

	path := filepath.Join(t.TempDir(), "app.tsx")
	code := `import { Box } from "@atomcss/react";` + "\n" +
		`export const App = () => <Box p={1} />;`
	require.NoError(t, os.WriteFile(path, []byte(code), 0644))

	var buf bytes.Buffer
	require.NoError(t, runExtract(&buf, path, true))

	out := buf.String()
	assert.Contains(t, out, `import "@atomcss/react/css/atomcss-0.css";`)
	assert.Contains(t, out, `<div className="a-a" />`)
	assert.Contains(t, out, "/* atomcss-0.css */\n.a-a{padding:4px}\n")
}

func TestExtractCommand_MissingFile(t *testing.T) {
	resetKoanf()

	err := runExtract(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing.tsx"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.tsx")
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	// Verify file was created
	data, err := os.ReadFile(".atomcss.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `package: "@atomcss/react"`)
	assert.Contains(t, string(data), "build:")
	assert.Contains(t, string(data), "lint:")

	// The generated file loads cleanly
	resetKoanf()
	require.NoError(t, loadConfigFromPath(".atomcss.yaml"))
	config := buildConfig()
	assert.Equal(t, "src", config.Root)
	assert.Equal(t, []int{0, 480, 768, 992, 1280}, config.Breakpoints)
	assert.Equal(t, 100*time.Millisecond, getDurationWithFallback("debounce", "watch.debounce", 0))
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	// Create existing file
	require.NoError(t, os.WriteFile(".atomcss.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	// Create existing file
	require.NoError(t, os.WriteFile(".atomcss.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".atomcss.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `package: "@atomcss/react"`)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "atomcss dev\n", buf.String())
}

func TestCompletionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	cmd.SetArgs([]string{"completion", "bash"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "atomcss")
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetStringsWithFallback(t *testing.T) {
	resetKoanf()

	assert.Equal(t, []string{"a"}, getStringsWithFallback("flag-key", "config.key", []string{"a"}))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))
}

func TestGetDurationWithFallback(t *testing.T) {
	resetKoanf()

	assert.Equal(t, time.Second, getDurationWithFallback("flag-key", "config.key", time.Second))
}
