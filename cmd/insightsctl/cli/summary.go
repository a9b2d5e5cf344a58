package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/agentic-platform/insights/internal/dashboard/ui"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var timeRange string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the KPI cards and highlights as a table",
		Example: `  insightsctl summary
  insightsctl summary --range 1Y --no-color`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, state, err := opts.build(cmd, timeRange)
			if err != nil {
				return err
			}
			vm, err := svc.Build(commandContext(cmd), state)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), vm, !opts.noColor)
		},
	}
	cmd.Flags().StringVar(&timeRange, "range", "6M", "time range: 3M, 6M or 1Y")
	return cmd
}

func writeSummary(w io.Writer, vm ui.DashboardViewModel, useColors bool) error {
	green, red := fmt.Sprint, fmt.Sprint
	if useColors {
		green = color.New(color.FgGreen).SprintFunc()
		red = color.New(color.FgRed).SprintFunc()
	}

	if _, err := fmt.Fprintf(w, "%s - %s (%s)\n", vm.Heading, vm.Subheading, vm.TimeRange); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value", "Change"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var rows [][]string
	for _, card := range vm.Cards {
		change := card.Glyph + " " + card.ChangeLabel
		if card.Direction == ui.DirectionDown {
			change = red(change)
		} else {
			change = green(change)
		}
		rows = append(rows, []string{card.Title, card.Value, change})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, h := range vm.Highlights {
		if _, err := fmt.Fprintf(w, "  %-8s %s\n", h.Value, h.Caption); err != nil {
			return err
		}
	}
	for _, warning := range vm.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
