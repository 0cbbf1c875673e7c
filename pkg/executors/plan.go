package executors

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/pconv/pkg/plan"
)

// Plan converts every document of the plan and prints which output files
// would be created, rewritten or left alone. Nothing is written.
func (e *Executor) Plan(ctx context.Context, p *plan.Plan) ([]*Report, error) {
	reports, err := e.reports(ctx, p)
	if err != nil {
		return nil, err
	}

	unchangedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	createStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))   // green
	updateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))   // yellow
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))      // red
	titleStyle := lipgloss.NewStyle().Bold(true)

	pending, unchanged := 0, 0
	for _, r := range reports {
		e.logger.Debug("processing plan report", "document", r.Document.DisplayName(), "files", len(r.Items), "pending", r.PendingCount())

		fmt.Fprintln(e.out, titleStyle.Render(fmt.Sprintf("%s (%d items)", r.Document.DisplayName(), r.Output.Projection.Len())))
		for _, it := range r.Items {
			line := fmt.Sprintf("%s | %d bytes", it.Target.Path, len(it.Target.Data))
			switch it.Status {
			case ToCreate:
				fmt.Fprintln(e.out, createStyle.Render("+ "+line))
			case ToUpdate:
				fmt.Fprintln(e.out, updateStyle.Render("~ "+line))
			default:
				fmt.Fprintln(e.out, unchangedStyle.Render("= "+line))
			}
		}
		for _, w := range r.Output.Result.Warnings {
			fmt.Fprintln(e.out, warnStyle.Render("! "+w.String()))
		}
		pending += r.PendingCount()
		unchanged += r.UnchangedCount()
	}

	if pending == 0 {
		fmt.Fprintf(e.out, "\nPlan: All %d file(s) are up to date\n", unchanged)
	} else {
		fmt.Fprintf(e.out, "\nPlan: %d file(s) will be written, %d already up to date\n", pending, unchanged)
	}
	return reports, nil
}
