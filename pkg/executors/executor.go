package executors

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/pconv/pkg/config"
	"github.com/yurifrl/pconv/pkg/plan"
	"github.com/yurifrl/pconv/pkg/service"
)

type Executor struct {
	logger *log.Logger
	config *config.Config
	out    io.Writer
}

func New(logger *log.Logger, config *config.Config) *Executor {
	return &Executor{
		logger: logger,
		config: config,
		out:    os.Stdout,
	}
}

// WithOutput redirects the human-readable preview.
func (e *Executor) WithOutput(w io.Writer) *Executor {
	e.out = w
	return e
}

// processor builds a processor for the plan: the plan's output directory and
// csv switch take precedence over the loaded configuration.
func (e *Executor) processor(p *plan.Plan) *service.Processor {
	cfg := *e.config
	if p.OutputDir != "" {
		cfg.OutputPath = p.OutputDir
	}
	cfg.CSV = cfg.CSV || p.CSV
	return service.NewProcessor(&cfg, e.logger)
}
