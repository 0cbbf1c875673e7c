package executors

import (
	"context"
	"fmt"
	"os"

	"github.com/yurifrl/pconv/pkg/compare"
	"github.com/yurifrl/pconv/pkg/models"
	"github.com/yurifrl/pconv/pkg/plan"
	"github.com/yurifrl/pconv/pkg/service"
)

// Status is what applying the plan would do to one output file.
type Status int

const (
	Unchanged Status = iota
	ToCreate
	ToUpdate
)

func (s Status) String() string {
	switch s {
	case ToCreate:
		return "create"
	case ToUpdate:
		return "update"
	default:
		return "unchanged"
	}
}

// Entry links a planned output file with its status on disk.
type Entry struct {
	Target service.Target
	Status Status
}

// Report is the plan for one document.
type Report struct {
	Document models.Document
	Output   *service.Output
	Items    []Entry
}

// BuildReport compares the planned files with the current contents of the
// same paths; existing holds the bytes of every path that exists.
func BuildReport(doc models.Document, out *service.Output, targets []service.Target, existing map[string][]byte) *Report {
	items := make([]Entry, 0, len(targets))
	for _, t := range targets {
		current, ok := existing[t.Path]
		status := ToCreate
		switch {
		case ok && compare.Equal(t.Path, t.Data, current):
			status = Unchanged
		case ok:
			status = ToUpdate
		}
		items = append(items, Entry{Target: t, Status: status})
	}
	return &Report{Document: doc, Output: out, Items: items}
}

// UnchangedCount returns how many files already hold the planned content.
func (r *Report) UnchangedCount() int {
	return len(r.Items) - r.PendingCount()
}

// PendingCount returns how many files would be created or rewritten.
func (r *Report) PendingCount() int {
	return len(r.Pending())
}

// Pending returns the targets that still need writing.
func (r *Report) Pending() []service.Target {
	var out []service.Target
	for _, it := range r.Items {
		if it.Status != Unchanged {
			out = append(out, it.Target)
		}
	}
	return out
}

// reports converts every plan document and compares it with the disk.
func (e *Executor) reports(ctx context.Context, p *plan.Plan) ([]*Report, error) {
	proc := e.processor(p)

	reports := make([]*Report, 0, len(p.Documents))
	for _, doc := range p.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.logger.Debug("planning document", "file", doc.FilePath)

		policy, err := p.Policy(e.config.Policy, doc)
		if err != nil {
			return nil, err
		}
		data, name, err := doc.Load()
		if err != nil {
			return nil, err
		}
		out, err := proc.WithPolicy(policy).Convert(data, name)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.DisplayName(), err)
		}

		path, err := doc.File()
		if err != nil {
			return nil, err
		}
		targets := proc.Targets(out, path)
		existing := make(map[string][]byte, len(targets))
		for _, t := range targets {
			if current, err := os.ReadFile(t.Path); err == nil {
				existing[t.Path] = current
			}
		}
		reports = append(reports, BuildReport(doc, out, targets, existing))
	}
	return reports, nil
}
