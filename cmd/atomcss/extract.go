package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/extractor"
	"github.com/yacobolo/atomcss/internal/sheet"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the rewritten source of one file",
	Long: `Extract the styles of a single file and print the rewritten source.
With --css the generated stylesheet is printed after it.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		withCSS, _ := cmd.Flags().GetBool("css")
		return runExtract(cmd.OutOrStdout(), args[0], withCSS)
	},
}

func init() {
	extractCmd.Flags().Bool("css", false, "Print the generated stylesheet after the code")
}

func runExtract(w io.Writer, path string, withCSS bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	config := buildConfig()
	cctx := css.NewContext()
	cctx.SetPrefix(config.Prefix)
	cctx.SetDebug(config.Debug)

	opts := extractor.Options{
		Package:       config.Package,
		CSSDir:        config.CSSDir,
		SingleCSS:     config.SingleCSS,
		ImportAliases: config.ImportAliases,
		Tailwind:      config.Tailwind,
		MaxLevel:      len(config.Breakpoints),
	}
	filename := filepath.ToSlash(path)
	out, err := extractor.Extract(cctx, filename, string(data), opts)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	fmt.Fprint(w, out.Code)
	if !withCSS || len(out.Styles) == 0 {
		return nil
	}

	target := filename
	if config.SingleCSS {
		target = sheet.Shared
	}
	sh := sheet.New(cctx, sheet.WithBreakpoints(config.Breakpoints))
	sh.Add(target, out.SortedStyles()...)
	fmt.Fprintf(w, "\n\n/* %s */\n", out.CSSFile)
	for _, f := range sh.Files() {
		fmt.Fprint(w, sh.Render(f))
	}
	return nil
}
