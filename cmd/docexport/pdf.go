package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newPDFCmd() *cobra.Command {
	var input, output, title string

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Export a report as PDF",
		Long: `Load a report from an HTML, JSON, YAML or text file, a URL or a data URL,
paginate it and write a PDF.`,
		Example: `  docexport pdf --input report.html
  docexport pdf -i https://example.com/report.json -o report.pdf --title "Status"
  docexport pdf -i notes.txt -o - > notes.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = defaultOutput(input, ".pdf", "report.pdf")
			}

			doc, err := c.exporter.LoadDocument(cmd.Context(), input, title)
			if err != nil {
				return err
			}
			data, err := c.exporter.ExportPDFBytes(*doc)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, data); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}

			c.logger.Info("exported report",
				"input", input,
				"output", output,
				"title", doc.Title,
				"blocks", len(doc.Blocks),
				"bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input file, URL or data URL (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path, - for stdout (default: input name with .pdf)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "report title (overrides the title found in the input)")
	cmd.Flags().String("page-size", "", "paper size: A3|A4|A5|Letter|Legal")
	cmd.Flags().String("font", "", "core font family: Times|Helvetica|Courier")
	cmd.Flags().String("author", "", "author written into the PDF metadata")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
