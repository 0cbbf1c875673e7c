package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/pconv/pkg/config"
	"github.com/yurifrl/pconv/pkg/executors"
	"github.com/yurifrl/pconv/pkg/plan"
	"github.com/yurifrl/pconv/pkg/service"
)

var version = "dev"

var (
	cliFilters filters
	cfgFile    string
)

func newLogger(cfg *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    cfg.Level() == log.DebugLevel,
		ReportTimestamp: true,
		Prefix:          "pconv-cli",
		Level:           cfg.Level(),
	})
}

var rootCmd = &cobra.Command{
	Use:           "pconv-cli",
	Short:         "Extract order lines from configurator exports",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <input_path>",
	Short: "Convert exported documents into item tables and a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration (config file + env + flag overrides)
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		processor := service.NewProcessor(cfg, logger).WithFilter(cliFilters.toFilterFunc())

		inputPath := args[0]
		matches, err := filepath.Glob(inputPath)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files found matching pattern %s", inputPath)
		}

		for _, match := range matches {
			fileInfo, err := os.Stat(match)
			if err != nil {
				logger.Warn("failed to stat file", "error", err, "file", match)
				continue
			}

			if fileInfo.IsDir() {
				outputs, err := processor.ProcessDirectory(cmd.Context(), match)
				if err != nil {
					logger.Warn("failed to process directory", "error", err, "dir", match)
				}
				for _, out := range outputs {
					printOutput(out)
				}
				continue
			}

			out, err := processor.ProcessFile(match)
			if err != nil {
				logger.Warn("failed to process file", "error", err, "file", match)
				continue
			}
			printOutput(out)
		}
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Preview the outputs of a YAML plan of documents (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		planPath := args[0]
		p, err := plan.Load(planPath)
		if err != nil {
			return err
		}

		fmt.Printf("Plan preview for %s\n", planPath)
		p.Print(os.Stdout)
		fmt.Println()

		_, err = executors.New(logger, cfg).Plan(cmd.Context(), p)
		return err
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <plan_file>",
	Short: "Write the outputs of a YAML plan of documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		reports, err := executors.New(logger, cfg).Apply(cmd.Context(), p)
		if err != nil {
			return err
		}
		written := 0
		for _, r := range reports {
			written += r.PendingCount()
		}
		fmt.Printf("Apply complete: %d file(s) written for %d document(s)\n", written, len(reports))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("preset", "", "Export variant preset (slash, window)")
	rootCmd.PersistentFlags().String("quantity-convention", "", "Quantity separator convention (grouping, decimal)")
	rootCmd.PersistentFlags().String("name-join", " ", "Separator used to join multi-line product names")
	rootCmd.PersistentFlags().Int("max-name-lines", 0, "Maximum product-name lines per item (0 = unlimited)")
	rootCmd.PersistentFlags().String("continuation", "", "Field unclassified lines continue once a name is set (details, name)")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.item, "item", "", "Item number prefix (case insensitive)")
	rootCmd.PersistentFlags().IntVar(&cliFilters.minQty, "min", 0, "Minimum quantity")
	rootCmd.PersistentFlags().IntVar(&cliFilters.maxQty, "max", 0, "Maximum quantity")
	rootCmd.PersistentFlags().StringVar(&cliFilters.name, "name", "", "Filter by product name (case insensitive)")

	// Flags specific to the convert subcommand
	convertCmd.Flags().StringP("output", "o", "", "Output directory (default: next to the input file)")
	convertCmd.Flags().Bool("csv", false, "Also write CSV tables")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
