package cli

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/stepmcp/internal/steps"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress through the runbook",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every step grouped by stage",
	Long: `List every step grouped by stage, marking completed steps and the
current one.

Examples:
  steps list
  steps list --steps deploy.yaml`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := seq.Status(cmd.Context())
	if err != nil {
		return stepsError(err)
	}

	out := cmd.OutOrStdout()
	p := newPrinter(out)

	done := min(st.Position, st.Total)
	var pct float64
	if st.Total > 0 {
		pct = float64(done) / float64(st.Total)
	}

	counts := p.render(p.theme.statusStyle(), fmt.Sprintf("[%d/%d]", done, st.Total))
	if bar := p.bar(pct); bar != "" {
		fmt.Fprintf(out, "%s %s\n", counts, bar)
	} else {
		fmt.Fprintln(out, counts)
	}

	if current, ok := st.Current(); ok {
		fmt.Fprintf(out, "Current: %s\n", current)
		fmt.Fprintln(out, p.render(p.theme.hintStyle(), "Run 'steps done' after it succeeds"))
		return nil
	}

	fmt.Fprintln(out, p.render(p.theme.completedStyle(), fmt.Sprintf("✓ All %d steps complete", st.Total)))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	def, err := steps.Load(cfg.StepsFile)
	if err != nil {
		return stepsError(err)
	}
	position := cursorStore.Load(cmd.Context())

	out := cmd.OutOrStdout()
	p := newPrinter(out)

	index := 0
	for i, stage := range def.Stages {
		name := stage.Name
		if name == "" {
			name = fmt.Sprintf("stage %d", i+1)
		}
		fmt.Fprintln(out, p.render(p.theme.statusStyle(), name))
		if len(stage.Steps) == 0 {
			fmt.Fprintln(out, p.render(p.theme.hintStyle(), "  (no steps)"))
		}

		for _, step := range stage.Steps {
			var line string
			switch {
			case index < position:
				line = p.render(p.theme.completedStyle(), fmt.Sprintf("  ✓ %3d  %s", index+1, step))
			case index == position:
				line = p.render(p.theme.currentStyle(), fmt.Sprintf("  ▶ %3d  %s", index+1, step))
			default:
				line = fmt.Sprintf("    %3d  %s", index+1, step)
			}
			fmt.Fprintln(out, strings.TrimRight(line, " "))
			index++
		}
	}
	return nil
}
