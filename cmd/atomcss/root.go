package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atomcss",
	Short: "Zero-runtime atomic CSS extractor for JSX/TSX",
	Long: `Extract style props of @atomcss/react components into atomic CSS.
Every distinct style value becomes one short class name.
Components are rewritten to plain elements importing the generated sheets.`,
	// Default behavior: run build when no subcommand is given.
	// PreRunE of buildCmd is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(buildCmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", ".atomcss.yaml", "Config file path")
	pf.String("package", "@atomcss/react", "Import source of the style components")
	pf.String("css-dir", "@atomcss/react/css", "Import path prefix of generated stylesheets")
	pf.Bool("single-css", false, "Put every style in one stylesheet")
	pf.String("prefix", "", "Prefix prepended to every generated class name")
	pf.Bool("debug", false, "Readable class names")
	pf.Bool("tailwind", false, "Compile utility classes in className strings")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
