package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		pretty     bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a package and print its model",
		Long: `Parse a .docx or .xlsx file and print the editable model as JSON.
When stdout is a terminal and no output file is given a summary table is
printed instead; --json forces JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := ooxmledit.ParseFile(args[0], ctx.parseOptions())
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			if outputPath == "" && !asJSON && isTerminal(cmd.OutOrStdout()) {
				fmt.Fprintln(cmd.OutOrStdout(), summarize(m))
				return nil
			}

			data, err := encodeJSON(m, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON even when stdout is a terminal")
	return cmd
}

func summarize(m *ooxmledit.Model) string {
	header := fmt.Sprintf("%s %s", strings.ToUpper(string(m.Format)), m.ID)
	switch {
	case m.Document != nil:
		return header + "\n" + summarizeDocument(m.Document)
	case m.Workbook != nil:
		return header + "\n" + summarizeWorkbook(m.Workbook)
	}
	return header
}

func summarizeDocument(doc *models.Document) string {
	counts := map[models.BlockKind]int{}
	for _, b := range doc.Blocks {
		counts[b.Kind]++
	}
	rows := [][]string{}
	for _, kind := range []models.BlockKind{models.BlockParagraph, models.BlockTable, models.BlockDrawing} {
		rows = append(rows, []string{title(string(kind)), strconv.Itoa(counts[kind])})
	}
	rows = append(rows,
		[]string{"Checkbox", strconv.Itoa(len(doc.Checkboxes))},
		[]string{"Dropdown", strconv.Itoa(len(doc.Dropdowns))},
	)
	out := renderTable([]string{"Unit", "Count"}, rows, []columnAlignment{alignLeft, alignRight})

	if len(doc.Checkboxes)+len(doc.Dropdowns) == 0 {
		return out
	}
	controls := [][]string{}
	for _, cb := range doc.Checkboxes {
		state := "unchecked"
		if cb.Checked {
			state = "checked"
		}
		controls = append(controls, []string{cb.Ref, "Checkbox", cb.Label, state})
	}
	for _, dd := range doc.Dropdowns {
		controls = append(controls, []string{dd.Ref, "Dropdown", dd.Label, dd.Selected})
	}
	return out + "\n" + renderTable([]string{"Ref", "Kind", "Label", "State"}, controls, nil)
}

func summarizeWorkbook(wb *models.Workbook) string {
	rows := make([][]string, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		rows = append(rows, []string{
			s.Name,
			title(s.State),
			s.Dimension,
			strconv.Itoa(len(s.Cells)),
			strconv.Itoa(len(s.Merges)),
			strconv.Itoa(len(s.DataValidations)),
			strconv.Itoa(len(s.FormControls)),
			strconv.Itoa(len(s.Shapes) + len(s.Charts)),
		})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	return renderTable(
		[]string{"Sheet", "State", "Dimension", "Cells", "Merges", "Validations", "Controls", "Drawings"},
		rows, aligns)
}
