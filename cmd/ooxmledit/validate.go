package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
)

// errValidationFailed makes the command exit non-zero after the report has
// been printed.
var errValidationFailed = errors.New("validation failed")

type fileReport struct {
	Path   string                   `json:"path"`
	Format ooxmledit.Format         `json:"format,omitempty"`
	Report *models.ValidationReport `json:"report,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func (r fileReport) failed() bool {
	return r.Error != "" || r.Report == nil || !r.Report.Valid
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON   bool
		jobs     int
		basePath string
	)

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check the structural consistency of packages",
		Long: `Check the structural consistency of packages.

With --base the arguments are models as printed by inspect, possibly
edited, and each is also checked against the base package: every
document reference must resolve in it, and an export into it must parse
back to the same content.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var base []byte
			if basePath != "" {
				data, err := os.ReadFile(basePath)
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("%w: %s", ooxmledit.ErrFileNotFound, basePath)
				}
				if err != nil {
					return fmt.Errorf("read base package: %w", err)
				}
				base = data
			}
			reports := validateFiles(args, jobs, base, ctx.parseOptions())

			if asJSON {
				if err := writeJSON(cmd, reports); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderReports(reports))
			}

			for _, r := range reports {
				if r.failed() {
					return errValidationFailed
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the reports as JSON")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Number of files validated in parallel")
	cmd.Flags().StringVar(&basePath, "base", "", "Package the model files apply to")
	return cmd
}

// validateFiles parses and validates each file on its own goroutine, at most
// jobs at a time. Reports keep the order of paths. A non-nil base makes the
// paths model files checked against it.
func validateFiles(paths []string, jobs int, base []byte, opts ooxmledit.Options) []fileReport {
	if jobs < 1 {
		jobs = 1
	}
	reports := make([]fileReport, len(paths))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if base != nil {
				reports[i] = validateModelFile(path, base, opts)
				return
			}
			reports[i] = validateFile(path, opts)
		}(i, path)
	}
	wg.Wait()
	return reports
}

func validateFile(path string, opts ooxmledit.Options) fileReport {
	m, _, err := ooxmledit.ParseFile(path, opts)
	if err != nil {
		return fileReport{Path: path, Error: err.Error()}
	}
	report := ooxmledit.Validate(m)
	opts.Logger.Debug("validated package", "path", path, "valid", report.Valid, "issues", len(report.Issues))
	return fileReport{Path: path, Format: m.Format, Report: &report}
}

func validateModelFile(path string, base []byte, opts ooxmledit.Options) fileReport {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileReport{Path: path, Error: err.Error()}
	}
	m, err := ooxmledit.Unmarshal(data)
	if err != nil {
		return fileReport{Path: path, Error: err.Error()}
	}
	report := ooxmledit.ValidateAgainst(m, base)
	opts.Logger.Debug("validated model against base", "path", path, "valid", report.Valid, "issues", len(report.Issues))
	return fileReport{Path: path, Format: m.Format, Report: &report}
}

func renderReports(reports []fileReport) string {
	var rows [][]string
	for _, r := range reports {
		switch {
		case r.Error != "":
			rows = append(rows, []string{r.Path, "Error", "parse_failed", "", r.Error})
		case len(r.Report.Issues) == 0:
			rows = append(rows, []string{r.Path, "OK", "", "", ""})
		default:
			for _, is := range r.Report.Issues {
				rows = append(rows, []string{r.Path, title(string(is.Severity)), is.Code, is.Ref, is.Message})
			}
		}
	}
	return renderTable([]string{"File", "Severity", "Code", "Ref", "Message"}, rows, nil)
}
