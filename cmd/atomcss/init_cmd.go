package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .atomcss.yaml config file",
	Long:  `Create a .atomcss.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".atomcss.yaml"); err == nil && !force {
			return fmt.Errorf(".atomcss.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".atomcss.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .atomcss.yaml")
		return nil
	},
}

const defaultConfig = `# atomcss configuration
# Docs: https://github.com/yacobolo/atomcss

# Shared settings
package: "@atomcss/react"
css-dir: "@atomcss/react/css"
single-css: false
prefix: ""
debug: false
tailwind: false
verbose: false

# Packages whose imports are treated as the style package
# import-aliases:
#   "@emotion/styled": styled

# Build settings
build:
  root: src
  out-dir: dist
  include:
    - "**/*.{js,jsx,mjs,cjs,ts,tsx,mts,cts}"
  exclude:
    - "**/*.test.*"
  workers: 0               # 0 = GOMAXPROCS
  breakpoints: [0, 480, 768, 992, 1280]

# Watch settings
watch:
  debounce: 100ms

# Linting settings
lint:
  strict: false
  output-format: issues    # issues | summary | full | json
  max-issues: 0            # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
