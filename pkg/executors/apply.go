package executors

import (
	"context"
	"fmt"

	"github.com/yurifrl/pconv/pkg/plan"
	"github.com/yurifrl/pconv/pkg/service"
)

// Apply writes every output file whose content differs from the plan.
func (e *Executor) Apply(ctx context.Context, p *plan.Plan) ([]*Report, error) {
	e.logger.Debug("applying plan", "documents", len(p.Documents))

	reports, err := e.reports(ctx, p)
	if err != nil {
		return nil, err
	}

	for _, r := range reports {
		pending := r.Pending()
		e.logger.Info("files to write", "count", len(pending), "document", r.Document.DisplayName())
		if len(pending) == 0 {
			continue
		}
		if err := service.WriteTargets(pending); err != nil {
			return nil, fmt.Errorf("document %s: %w", r.Document.DisplayName(), err)
		}
		e.logger.Info("wrote files", "count", len(pending), "document", r.Document.DisplayName())
	}
	return reports, nil
}
