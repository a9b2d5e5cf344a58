package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-platform/insights/internal/dashboard"
	"github.com/agentic-platform/insights/internal/view"
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	var timeRange, out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard to a self-contained HTML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, state, err := opts.build(cmd, timeRange)
			if err != nil {
				return err
			}
			vm, err := svc.Build(commandContext(cmd), state)
			if err != nil {
				return err
			}
			engine, err := view.NewEngine()
			if err != nil {
				return err
			}
			return withOutput(cmd, out, func(w io.Writer) error {
				return engine.Execute(w, "pages/export.html", view.TemplateData{
					Title:       dashboard.Heading + " " + dashboard.Subheading,
					GeneratedAt: time.Now(),
					Data:        vm,
				})
			})
		},
	}
	cmd.Flags().StringVar(&timeRange, "range", "6M", "time range: 3M, 6M or 1Y")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}
