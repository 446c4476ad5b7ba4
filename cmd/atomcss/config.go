package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yacobolo/atomcss"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".atomcss.yaml"
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence). Only explicitly set flags are
	// loaded so flag defaults never shadow config file keys.
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (ATOMCSS_* prefix)
	if err := k.Load(env.Provider("ATOMCSS_", ".", func(s string) string {
		// ATOMCSS_BUILD_ROOT -> build.root
		// ATOMCSS_LINT_STRICT -> lint.strict
		// ATOMCSS_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "ATOMCSS_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildConfig constructs the library's Config struct from koanf state.
func buildConfig() atomcss.Config {
	config := atomcss.Config{
		Root:      getStringWithFallback("root", "build.root", "src"),
		OutDir:    getStringWithFallback("out-dir", "build.out-dir", "dist"),
		CSSOutDir: getStringWithFallback("css-out-dir", "build.css-out-dir", ""),
		StateFile: getStringWithFallback("state-file", "build.state-file", ""),
		Package:   getStringWithFallback("package", "package", "@atomcss/react"),
		CSSDir:    getStringWithFallback("css-dir", "css-dir", "@atomcss/react/css"),
		SingleCSS: getBoolWithFallback("single-css", "single-css", false),
		Prefix:    getStringWithFallback("prefix", "prefix", ""),
		Debug:     getBoolWithFallback("debug", "debug", false),
		Tailwind:  getBoolWithFallback("tailwind", "tailwind", false),
		Workers:   getIntWithFallback("workers", "build.workers", 0),
		Exclude:   getStringsWithFallback("exclude", "build.exclude", nil),
	}

	config.Include = getStringsWithFallback("include", "build.include", nil)
	if bp := k.Ints("breakpoints"); len(bp) > 0 {
		config.Breakpoints = bp
	} else if bp := k.Ints("build.breakpoints"); len(bp) > 0 {
		config.Breakpoints = bp
	}
	if aliases := k.StringMap("import-aliases"); len(aliases) > 0 {
		config.ImportAliases = aliases
	}

	return config
}

// buildLintConfig constructs the library's LintConfig struct from koanf state.
func buildLintConfig() atomcss.LintConfig {
	config := buildConfig()
	config.Root = getStringWithFallback("root", "lint.root", config.Root)
	if paths := getStringsWithFallback("paths", "lint.paths", nil); len(paths) > 0 {
		config.Include = paths
	}
	config.Exclude = getStringsWithFallback("exclude", "lint.exclude", config.Exclude)

	return atomcss.LintConfig{
		Config:           config,
		Strict:           getBoolWithFallback("strict", "lint.strict", false),
		MaxIssues:        getIntWithFallback("max-issues", "lint.max-issues", 0),
		MaxSameIssues:    getIntWithFallback("max-same-issues", "lint.max-same-issues", 0),
		PrintIssuedLines: getBoolWithFallback("print-lines", "lint.print-lines", true),
		PrintLinterName:  getBoolWithFallback("print-linter-name", "lint.print-linter-name", true),
		UseColors:        getBoolWithFallback("color", "color", false),
	}
}

// newLogger returns the console logger of the CLI. Quiet runs log nothing.
func newLogger(verbose, quiet bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	if shouldColorize(os.Stderr) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// shouldColorize reports whether f is a terminal.
func shouldColorize(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
