package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/pconv/pkg/config"
	"github.com/yurifrl/pconv/pkg/parser"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show how every line of a document is classified",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		p := parser.New(logger, cfg.Policy)
		lines, err := p.Lines(data, filepath.Base(args[0]))
		if err != nil {
			return err
		}
		steps, result := p.Trace(lines)

		for _, s := range steps {
			fmt.Printf("%4d  %-12s  %-6s  %s\n", s.Line, s.Tag, s.Action, s.Text)
		}
		fmt.Println()

		printer := pp.New()
		printer.SetColoringEnabled(false)
		if dump, _ := cmd.Flags().GetBool("dump"); dump {
			printer.Println(cfg.Policy)
		}
		printer.Println(map[string]any{
			"lines":    result.TotalLines,
			"headers":  result.HeaderLines,
			"noise":    result.NoiseLines,
			"skipped":  result.SkippedLines,
			"records":  len(result.Records),
			"named":    len(result.Named()),
			"warnings": result.Warnings,
		})
		return nil
	},
}

func init() {
	inspectCmd.Flags().Bool("dump", false, "Also dump the effective parse policy")
}
