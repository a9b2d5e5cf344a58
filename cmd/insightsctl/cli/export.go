package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-platform/insights/internal/dashboard/export"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export dashboard data as CSV or Parquet",
	}

	var csvRange, csvOut string
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Write every card, chart point and highlight as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, state, err := opts.build(cmd, csvRange)
			if err != nil {
				return err
			}
			vm, err := svc.Build(commandContext(cmd), state)
			if err != nil {
				return err
			}
			return withOutput(cmd, csvOut, func(w io.Writer) error {
				return export.WriteDashboardCSV(w, vm)
			})
		},
	}
	csvCmd.Flags().StringVar(&csvRange, "range", "6M", "time range: 3M, 6M or 1Y")
	csvCmd.Flags().StringVarP(&csvOut, "out", "o", "", "output file, stdout when empty")

	var series, parquetOut string
	parquetCmd := &cobra.Command{
		Use:   "parquet",
		Short: "Write one raw dataset series as Parquet",
		Example: fmt.Sprintf("  insightsctl export parquet --series revenue -o revenue.parquet\n\nSeries: %s",
			strings.Join(export.SeriesNames(), ", ")),
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			ds, err := svc.Dataset(commandContext(cmd))
			if err != nil {
				return err
			}
			return withOutput(cmd, parquetOut, func(w io.Writer) error {
				return export.WriteSeriesParquet(w, ds, series)
			})
		},
	}
	parquetCmd.Flags().StringVar(&series, "series", "", "series to export")
	parquetCmd.Flags().StringVarP(&parquetOut, "out", "o", "", "output file, stdout when empty")
	_ = parquetCmd.MarkFlagRequired("series")

	cmd.AddCommand(csvCmd, parquetCmd)
	return cmd
}

// withOutput writes to path, or to the command's stdout when path is empty.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return err
}
