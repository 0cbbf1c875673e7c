package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/pconv/pkg/config"
	"github.com/yurifrl/pconv/pkg/csv"
	"github.com/yurifrl/pconv/pkg/models"
	"github.com/yurifrl/pconv/pkg/parser"
	"github.com/yurifrl/pconv/pkg/projection"
	"github.com/yurifrl/pconv/pkg/xlsx"
)

// supported lists the extensions picked up when walking a directory.
var supported = map[string]bool{".pdf": true, ".xls": true, ".xlsx": true, ".txt": true}

// Output suffixes appended to the input's base name.
const (
	ItemsSuffix       = "-items.xlsx"
	DetailedSuffix    = "-detailed.xlsx"
	ItemsCSVSuffix    = "-items.csv"
	DetailedCSVSuffix = "-detailed.csv"
	SummarySuffix     = "-summary.txt"
)

type Processor struct {
	config *config.Config
	logger *log.Logger
	parser *parser.Parser
	filter csv.FilterFunc[*models.ItemRecord]
}

func NewProcessor(cfg *config.Config, logger *log.Logger) *Processor {
	return &Processor{
		config: cfg,
		logger: logger,
		parser: parser.New(logger, cfg.Policy),
	}
}

// WithFilter returns a copy of the processor that only passes records
// accepted by filter to the outputs.
func (p *Processor) WithFilter(filter csv.FilterFunc[*models.ItemRecord]) *Processor {
	cp := *p
	cp.filter = filter
	return &cp
}

// WithPolicy swaps the parse policy, e.g. for a plan entry with its own preset.
func (p *Processor) WithPolicy(policy parser.Policy) *Processor {
	return &Processor{
		config: p.config,
		logger: p.logger,
		parser: parser.New(p.logger, policy),
		filter: p.filter,
	}
}

// Output is everything derived from one document.
type Output struct {
	Source     string
	Result     *parser.Result
	Projection projection.Projection
	Artifacts  *Artifacts
	Files      []string
}

// Artifacts are the rendered output files.
type Artifacts struct {
	ItemsXLSX    []byte
	DetailedXLSX []byte
	ItemsCSV     []byte
	DetailedCSV  []byte
	Summary      []byte
}

// Render serializes a projection into every output format.
func Render(proj projection.Projection) (*Artifacts, error) {
	var (
		a   Artifacts
		err error
	)
	if a.ItemsXLSX, err = xlsx.Items(proj); err != nil {
		return nil, fmt.Errorf("error rendering items workbook: %w", err)
	}
	if a.DetailedXLSX, err = xlsx.Detailed(proj); err != nil {
		return nil, fmt.Errorf("error rendering detailed workbook: %w", err)
	}
	if a.ItemsCSV, err = csv.Items(proj); err != nil {
		return nil, err
	}
	if a.DetailedCSV, err = csv.Detailed(proj); err != nil {
		return nil, err
	}
	a.Summary = []byte(proj.Display)
	if len(a.Summary) > 0 {
		a.Summary = append(a.Summary, '\n')
	}
	return &a, nil
}

// Convert runs the whole pipeline on an in-memory document.
func (p *Processor) Convert(data []byte, filename string) (*Output, error) {
	result, err := p.parser.Process(data, filename)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		p.logger.Debug("parse warning", "file", filename, "line", w.Line, "message", w.Message)
	}

	proj := projection.Project(csv.Filter(result.Records, p.filter))
	artifacts, err := Render(proj)
	if err != nil {
		return nil, err
	}
	return &Output{
		Source:     filename,
		Result:     result,
		Projection: proj,
		Artifacts:  artifacts,
	}, nil
}

func (p *Processor) ProcessDirectory(ctx context.Context, dir string) ([]*Output, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var outputs []*Output
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return outputs, err
		}
		out, err := p.processEntry(dir, entry)
		if err != nil {
			p.logger.Error("failed to process entry", "file", entry.Name(), "error", err)
			continue
		}
		if out != nil {
			outputs = append(outputs, out)
		}
	}

	return outputs, nil
}

func (p *Processor) processEntry(dir string, entry os.DirEntry) (*Output, error) {
	if entry.IsDir() {
		return nil, nil
	}
	if !supported[strings.ToLower(filepath.Ext(entry.Name()))] || isOutput(entry.Name()) {
		return nil, nil
	}
	return p.ProcessFile(filepath.Join(dir, entry.Name()))
}

// isOutput reports whether name is a file this processor wrote.
func isOutput(name string) bool {
	name = strings.ToLower(name)
	for _, suffix := range []string{ItemsSuffix, DetailedSuffix, ItemsCSVSuffix, DetailedCSVSuffix, SummarySuffix} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// ProcessFile converts one document and writes its outputs.
func (p *Processor) ProcessFile(inputPath string) (*Output, error) {
	p.logger.Info("processing file", "path", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	out, err := p.Convert(data, filepath.Base(inputPath))
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	if err := p.write(out, inputPath); err != nil {
		return nil, err
	}

	p.logger.Info("processed file successfully", "input", inputPath, "records", out.Projection.Len(), "outputs", len(out.Files))
	return out, nil
}

// Target is one output file and the bytes that belong in it.
type Target struct {
	Path string
	Data []byte
}

// Targets lists the files an output is written to, next to inputPath or in
// the configured output directory.
func (p *Processor) Targets(out *Output, inputPath string) []Target {
	targets := []Target{
		{p.determineOutputPath(inputPath, ItemsSuffix), out.Artifacts.ItemsXLSX},
		{p.determineOutputPath(inputPath, DetailedSuffix), out.Artifacts.DetailedXLSX},
		{p.determineOutputPath(inputPath, SummarySuffix), out.Artifacts.Summary},
	}
	if p.config.CSV {
		targets = append(targets,
			Target{p.determineOutputPath(inputPath, ItemsCSVSuffix), out.Artifacts.ItemsCSV},
			Target{p.determineOutputPath(inputPath, DetailedCSVSuffix), out.Artifacts.DetailedCSV},
		)
	}
	return targets
}

// WriteTargets writes files, creating parent directories as needed.
func WriteTargets(targets []Target) error {
	for _, t := range targets {
		if err := os.MkdirAll(filepath.Dir(t.Path), 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
		if err := os.WriteFile(t.Path, t.Data, 0o644); err != nil {
			return fmt.Errorf("error writing output file: %w", err)
		}
	}
	return nil
}

func (p *Processor) write(out *Output, inputPath string) error {
	targets := p.Targets(out, inputPath)
	if err := WriteTargets(targets); err != nil {
		return err
	}
	for _, t := range targets {
		out.Files = append(out.Files, t.Path)
	}
	return nil
}

func (p *Processor) determineOutputPath(inputPath, suffix string) string {
	fileName := filepath.Base(inputPath)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if p.config.GetOutputPath() != "" {
		return filepath.Join(p.config.GetOutputPath(), baseName+suffix)
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + suffix
}
