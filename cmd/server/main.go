package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/yurifrl/pconv/pkg/config"
	"github.com/yurifrl/pconv/pkg/server"
)

func main() {
	cfgFile := flag.StringP("config", "c", "", "Config file (default is config.yaml)")
	flag.String("addr", ":8080", "Listen address")
	flag.StringP("output", "o", "", "Output directory")
	flag.String("preset", "", "Export variant preset (slash, window)")
	flag.String("quantity-convention", "", "Quantity separator convention (grouping, decimal)")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Build(*cfgFile, flag.CommandLine)
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "pconv",
		Level:           cfg.Level(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	logger.Info("starting server", "addr", cfg.Server.Addr)
	if err := srv.Start(ctx, cfg.Server.Addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
