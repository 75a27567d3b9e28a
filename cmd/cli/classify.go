package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"dsemotion/adapters/report"
	"dsemotion/domain/run"
	"dsemotion/internal/config"
	"dsemotion/internal/container"
	"dsemotion/ports"

	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	var (
		engine    engineFlags
		format    string
		output    string
		layout    string
		delimiter string
		sheet     string
	)

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Label every frame of a measurement file with an emotion",
		Long: `Classify reads a .xlsx or .csv measurement export, discretizes every feature over the
whole batch, fuses the per-feature evidence of each frame with Dempster's rule and prints
the most plausible emotion per second.

Example: dsemotion classify export.csv --format markdown --workers 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := engine.loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("layout") {
				cfg.Input.Layout = strings.ToLower(layout)
			}
			if flags.Changed("delimiter") {
				if cfg.Input.Delimiter, err = config.ParseDelimiter(delimiter); err != nil {
					return err
				}
			}
			if flags.Changed("sheet") {
				cfg.Input.Sheet = sheet
			}

			c, err := container.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			writer, err := c.ReportWriter(format)
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			source, err := c.Source(path)
			if err != nil {
				return err
			}

			r, err := c.Service.Classify(cmd.Context(), source)
			if err != nil {
				return err
			}
			if n := len(r.Failures()); n > 0 {
				c.Logger.Warn("%d of %d frames were in total conflict and have no label", n, len(r.Results))
			}

			if output == "" {
				return writeReport(cmd.OutOrStdout(), writer, r)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := writeReport(f, writer, r); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", output, err)
			}
			return nil
		},
	}

	engine.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: "+strings.Join(report.Formats(), ", ")+" (default: REPORT_FORMAT or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&layout, "layout", "", "column layout: header or positional (or COLUMN_LAYOUT)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV delimiter, a single character or tab (or CSV_DELIMITER)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "spreadsheet sheet name (default: first sheet, or INPUT_SHEET)")

	return cmd
}

func writeReport(w io.Writer, writer ports.ReportWriter, r *run.Run) error {
	bw := bufio.NewWriter(w)
	if err := writer.Write(bw, r); err != nil {
		return err
	}
	return bw.Flush()
}
