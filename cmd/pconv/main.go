package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/yurifrl/pconv/pkg/config"
	"github.com/yurifrl/pconv/pkg/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "pconv",
	})

	flag.StringP("output", "o", "", "Output directory (default: same as input file)")
	flag.Bool("csv", false, "Also write CSV tables")
	flag.String("preset", "", "Export variant preset (slash, window)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		logger.Error("invalid usage", "args", args)
		fmt.Fprintf(os.Stderr, "Usage: pconv [-o output_dir] [--csv] <directory>\n")
		os.Exit(1)
	}

	cfg, err := config.Build("", flag.CommandLine)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	processor := service.NewProcessor(cfg, logger)

	dir := args[0]
	outputs, err := processor.ProcessDirectory(ctx, dir)
	if err != nil {
		logger.Fatal("processing failed", "error", err)
	}
	logger.Info("done", "documents", len(outputs))
}
