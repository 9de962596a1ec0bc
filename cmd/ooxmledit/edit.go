package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xlsx"
)

type editFlags struct {
	texts    []string
	cells    []string
	controls []string
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "edit <input> <output>",
		Short: "Apply edits to a package and write the result",
		Long: `Apply text, cell and control edits to a package in one step.

  --text p[0]/r[1]=Hello       replace the text of a run, paragraph or cell
  --cell 'Sheet1!B2=Approved'  set a cell value (a leading ' keeps text literal)
  --control p[3]/sdt[0]=true   check, uncheck or select a content control

Nothing is written when any edit fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := ctx.parseOptions()
			m, original, err := ooxmledit.ParseFile(args[0], opts)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			warnings, err := applyEdits(m, flags)
			if err != nil {
				return err
			}

			res, err := ooxmledit.Export(m, original, opts)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if err := os.WriteFile(args[1], res.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			out := cmd.OutOrStdout()
			printWarnings(out, warnings)
			printStale(out, res.Stale)
			fmt.Fprintf(out, "wrote %s (%d parts changed)\n", args[1], len(res.Parts))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&flags.texts, "text", nil, "Text edit REF=TEXT (repeatable)")
	cmd.Flags().StringArrayVar(&flags.cells, "cell", nil, "Cell edit SHEET!CELL=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&flags.controls, "control", nil, "Control edit REF=STATE (repeatable)")
	return cmd
}

func splitAssignment(flag, s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("--%s %q: expected KEY=VALUE", flag, s)
	}
	return strings.TrimSpace(key), value, nil
}

// applyEdits applies the edits in flag order: text, controls, then cells as
// one batch.
func applyEdits(m *ooxmledit.Model, flags editFlags) ([]models.Warning, error) {
	for _, t := range flags.texts {
		ref, text, err := splitAssignment("text", t)
		if err != nil {
			return nil, err
		}
		if err := ooxmledit.PatchText(m, ref, text); err != nil {
			return nil, fmt.Errorf("--text %s: %w", ref, err)
		}
	}
	for _, c := range flags.controls {
		ref, state, err := splitAssignment("control", c)
		if err != nil {
			return nil, err
		}
		if err := ooxmledit.ToggleControl(m, ref, state); err != nil {
			return nil, fmt.Errorf("--control %s: %w", ref, err)
		}
	}
	if len(flags.cells) == 0 {
		return nil, nil
	}

	edits := make([]xlsx.CellEdit, 0, len(flags.cells))
	for _, c := range flags.cells {
		target, value, err := splitAssignment("cell", c)
		if err != nil {
			return nil, err
		}
		sheet, cell := xlsx.SplitSheetRef(target)
		if sheet == "" && m.Workbook != nil && len(m.Workbook.Sheets) > 0 {
			sheet = m.Workbook.Sheets[0].Name
		}
		edits = append(edits, xlsx.CellEdit{Sheet: sheet, Cell: cell, Value: xlsx.ParseCellInput(value)})
	}
	res, err := ooxmledit.SetCellValues(m, edits)
	if err != nil {
		return nil, err
	}
	if len(res.Failures) > 0 {
		msgs := make([]string, 0, len(res.Failures))
		for _, f := range res.Failures {
			msgs = append(msgs, fmt.Sprintf("%s!%s: %s", f.Edit.Sheet, f.Edit.Cell, f.Message))
		}
		return nil, fmt.Errorf("%d cell edits failed: %s", len(res.Failures), strings.Join(msgs, "; "))
	}
	return res.Warnings, nil
}
