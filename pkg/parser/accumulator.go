package parser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/pconv/pkg/models"
)

// Warning points at an input line the parser could not read with confidence.
type Warning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
	Raw     string `json:"raw"`
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s (%q)", w.Line, w.Message, w.Raw)
}

// Result is the outcome of one fold over a document's lines. Records holds one
// sealed record per item-header line, in input order, including records that
// never received a product name.
type Result struct {
	Records      []*models.ItemRecord
	Warnings     []Warning
	TotalLines   int
	HeaderLines  int
	NoiseLines   int
	SkippedLines int
}

// Named returns the records that reach the outputs.
func (r *Result) Named() []*models.ItemRecord {
	out := make([]*models.ItemRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.HasName() {
			out = append(out, rec)
		}
	}
	return out
}

// Ambiguous reports whether any record carries a locale-ambiguous quantity.
func (r *Result) Ambiguous() bool {
	for _, rec := range r.Records {
		if rec.Ambiguous() {
			return true
		}
	}
	return false
}

// Step describes what the fold did with one line.
type Step struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Tag    string `json:"tag"`
	Action string `json:"action"`
}

// accumulator is the two-state machine: with or without an open record.
type accumulator struct {
	policy     Policy
	classifier *Classifier
	logger     *log.Logger
	current    *models.ItemRecord
	state      State
	result     *Result
}

func newAccumulator(policy Policy, logger *log.Logger) *accumulator {
	return &accumulator{
		policy:     policy,
		classifier: NewClassifier(policy),
		logger:     logger,
		result:     &Result{},
	}
}

// feed consumes the n-th (1-based) line.
func (a *accumulator) feed(n int, raw string) Step {
	line := strings.TrimSpace(raw)
	a.result.TotalLines++
	a.state.Open = a.current != nil

	cls := a.classifier.Classify(line, a.state)
	step := Step{Line: n, Text: line, Tag: cls.Tag.String()}

	if cls.QuantityErr != nil {
		a.warn(n, line, "quantity not readable, line not treated as item header")
		a.logger.Debug("rejected item header", "line", n, "error", cls.QuantityErr)
	}

	switch cls.Tag {
	case Blank:
		a.result.SkippedLines++
		step.Action = "skip"
		return step
	case Noise:
		a.result.NoiseLines++
		step.Action = "skip"
		return step
	case ItemHeader:
		a.seal()
		a.current = models.NewItem(cls.ItemNumber, cls.Quantity, n)
		if cls.Ambiguous {
			a.current.MarkAmbiguous()
			a.warn(n, line, fmt.Sprintf("quantity is ambiguous, read as %d under %s convention", cls.Quantity, a.policy.QuantityConvention))
		}
		a.state = State{Open: true}
		a.result.HeaderLines++
		step.Action = "open"
		a.logger.Debug("opened record", "line", n, "item", cls.ItemNumber, "quantity", cls.Quantity)
		return step
	}

	if a.current == nil {
		a.result.SkippedLines++
		step.Action = "skip"
		return step
	}

	var err error
	switch cls.Tag {
	case ProductName:
		err = a.current.AppendName(line, a.policy.NameJoin)
		a.state.NameLines++
		step.Action = "name"
	case Detail:
		err = a.current.AppendDetail(line)
		a.state.SawDetail = true
		step.Action = "detail"
	default:
		if !a.current.HasName() || a.policy.Continuation == ContinueName {
			err = a.current.AppendName(line, a.policy.NameJoin)
			a.state.NameLines++
			step.Action = "name"
		} else {
			err = a.current.AppendDetail(line)
			step.Action = "detail"
		}
	}
	if err != nil {
		a.logger.Debug("append failed", "line", n, "error", err)
	}
	a.state.SinceHeader++
	return step
}

// seal closes the open record, if any, and emits it.
func (a *accumulator) seal() {
	if a.current == nil {
		return
	}
	a.current.Seal()
	if !a.current.HasName() {
		a.warn(a.current.Line(), a.current.ItemNumber(), "item has no product name, excluded from outputs")
	}
	a.result.Records = append(a.result.Records, a.current)
	a.current = nil
	a.state = State{}
}

// finish seals the last record; no trailing header is needed to close it.
func (a *accumulator) finish() *Result {
	a.seal()
	return a.result
}

func (a *accumulator) warn(line int, raw, msg string) {
	a.result.Warnings = append(a.result.Warnings, Warning{Line: line, Message: msg, Raw: raw})
}
