package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/pconv/pkg/extract"
	"github.com/yurifrl/pconv/pkg/models"
)

var (
	// ErrInvalidInputKind is returned for input the text pipeline cannot read:
	// binary data handed to the text path, or an unrecognised file type.
	ErrInvalidInputKind = errors.New("invalid input kind")
	ErrUnknownFileType  = fmt.Errorf("%w: unknown file type", ErrInvalidInputKind)
)

type Parser struct {
	logger *log.Logger
	policy Policy
}

func New(logger *log.Logger, policy Policy) *Parser {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Parser{
		logger: logger,
		policy: policy,
	}
}

// Policy returns the policy the parser folds with.
func (p *Parser) Policy() Policy {
	return p.policy
}

// ProcessBytes extracts and parses a document, returning every sealed record.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]*models.ItemRecord, error) {
	result, err := p.Process(data, filename)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// Process extracts and parses a document.
func (p *Parser) Process(data []byte, filename string) (*Result, error) {
	lines, err := p.Lines(data, filename)
	if err != nil {
		return nil, err
	}
	result := p.ParseLines(lines)
	p.logger.Info("parsed document",
		"filename", filename,
		"lines", result.TotalLines,
		"records", len(result.Records),
		"warnings", len(result.Warnings))
	return result, nil
}

// Lines extracts the text lines of a document.
func (p *Parser) Lines(data []byte, filename string) ([]string, error) {
	kind := detectType(filename, data)
	p.logger.Debug("detected file type", "type", kind, "filename", filename)
	if kind == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, filename)
	}

	lines, err := extract.Lines(data, kind)
	if errors.Is(err, extract.ErrNotText) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInputKind, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", filename, err)
	}
	return lines, nil
}

// ParseLines folds over lines and returns the records with diagnostics.
func (p *Parser) ParseLines(lines []string) *Result {
	acc := newAccumulator(p.policy, p.logger)
	for i, line := range lines {
		acc.feed(i+1, line)
	}
	return acc.finish()
}

// Trace is ParseLines that also reports the decision taken for every line.
func (p *Parser) Trace(lines []string) ([]Step, *Result) {
	acc := newAccumulator(p.policy, p.logger)
	steps := make([]Step, 0, len(lines))
	for i, line := range lines {
		steps = append(steps, acc.feed(i+1, line))
	}
	return steps, acc.finish()
}

// Parse folds lines under the default policy.
func Parse(lines []string) []*models.ItemRecord {
	return New(nil, DefaultPolicy()).ParseLines(lines).Records
}

var (
	pdfMagic  = []byte("%PDF-")
	oleMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic  = []byte("PK\x03\x04")
	textTypes = map[string]bool{".txt": true, ".text": true, "": true}
)

// detectType picks the container format from the file extension, falling
// back to the leading magic bytes.
func detectType(filename string, data []byte) extract.Kind {
	switch ext := strings.ToLower(filepath.Ext(filename)); {
	case ext == ".pdf":
		return extract.PDF
	case ext == ".xls":
		return extract.XLS
	case ext == ".xlsx":
		return extract.XLSX
	case textTypes[ext]:
		return sniff(data, extract.TXT)
	}
	return sniff(data, "")
}

func sniff(data []byte, fallback extract.Kind) extract.Kind {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return extract.PDF
	case bytes.HasPrefix(data, oleMagic):
		return extract.XLS
	case bytes.HasPrefix(data, zipMagic):
		return extract.XLSX
	}
	return fallback
}
