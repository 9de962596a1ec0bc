package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ukaji3/ooxmledit-go/internal/store"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xlsx"
)

const sessionLockTimeout = 10 * time.Second

var errInvalidSessionID = errors.New("invalid session id")

// checkSessionID accepts only ids in the form open prints them. The id ends
// up in file names, so anything else is rejected before the store is used.
func checkSessionID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return fmt.Errorf("%w: %q", errInvalidSessionID, id)
	}
	return nil
}

func newSessionCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Edit a package across several invocations",
		Long: `Sessions keep a parsed model in the snapshot store so edits can be
applied one command at a time and exported later. Every edit saves a new
snapshot version.`,
	}
	cmd.AddCommand(
		newSessionOpenCommand(ctx),
		newSessionPatchTextCommand(ctx),
		newSessionSetCellCommand(ctx),
		newSessionToggleCommand(ctx),
		newSessionExportCommand(ctx),
		newSessionShowCommand(ctx),
		newSessionListCommand(ctx),
		newSessionCloseCommand(ctx),
	)
	return cmd
}

// session is a loaded snapshot with its decoded model.
type session struct {
	store *store.Store
	snap  *models.Snapshot
	model *ooxmledit.Model
}

func (s *session) save(ctx context.Context) error {
	data, err := ooxmledit.Marshal(s.model)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	s.snap.SerializedModel = data
	return s.store.Save(ctx, s.snap)
}

// withSession locks the session, loads it and runs fn. The snapshot is
// saved when fn reports a change.
func (c *commandContext) withSession(cmd *cobra.Command, id string, fn func(*session) (bool, error)) error {
	if err := checkSessionID(id); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	lockCtx, cancel := context.WithTimeout(ctx, sessionLockTimeout)
	defer cancel()
	lock, err := st.Lock(lockCtx, id)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	snap, err := st.Load(ctx, id)
	if err != nil {
		return err
	}
	m, err := ooxmledit.Unmarshal(snap.SerializedModel)
	if err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}

	s := &session{store: st, snap: snap, model: m}
	changed, err := fn(s)
	if err != nil || !changed {
		return err
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	c.log().Debug("saved session", "id", id, "version", snap.Version)
	return nil
}

func newSessionOpenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "open <file>",
		Short: "Parse a package and start a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, data, err := ooxmledit.ParseFile(args[0], ctx.parseOptions())
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			encoded, err := ooxmledit.Marshal(m)
			if err != nil {
				return fmt.Errorf("encode model: %w", err)
			}

			st, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			base, err := st.PutContainer(m.ID, string(m.Format), data)
			if err != nil {
				return err
			}
			snap := &models.Snapshot{
				DocumentID:        m.ID,
				Format:            string(m.Format),
				BaseContainerPath: base,
				SerializedModel:   encoded,
			}
			if err := st.Create(cmd.Context(), snap); err != nil {
				return err
			}
			ctx.log().Info("opened session", "id", snap.DocumentID, "source", args[0], "format", snap.Format)
			fmt.Fprintln(cmd.OutOrStdout(), snap.DocumentID)
			return nil
		},
	}
}

func newSessionPatchTextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "patch-text <id> <ref> <text>",
		Short: "Replace the text of a run, paragraph or table cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, args[0], func(s *session) (bool, error) {
				return true, ooxmledit.PatchText(s.model, args[1], args[2])
			})
		},
	}
}

func newSessionSetCellCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-cell <id> <sheet> <cell> <value>",
		Short: "Set a cell value",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, args[0], func(s *session) (bool, error) {
				warnings, err := ooxmledit.SetCellValue(s.model, args[1], args[2], xlsx.ParseCellInput(args[3]))
				if err != nil {
					return false, err
				}
				printWarnings(cmd.OutOrStdout(), warnings)
				return true, nil
			})
		},
	}
}

func newSessionToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <ref> <state>",
		Short: "Check, uncheck or select a content control",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, args[0], func(s *session) (bool, error) {
				return true, ooxmledit.ToggleControl(s.model, args[1], args[2])
			})
		},
	}
}

func newSessionExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <output>",
		Short: "Write the session's edits into a package",
		Long: `Write the session's edits into the package the session applies to and
save the result to output. A bare file name is placed in the configured
export directory. The written package becomes the session's new base.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[1]
			if filepath.Base(out) == out && ctx.config != nil && ctx.config.Export.Dir != "" {
				out = filepath.Join(ctx.config.Export.Dir, out)
			}
			return ctx.withSession(cmd, args[0], func(s *session) (bool, error) {
				original, err := os.ReadFile(s.snap.BaseContainerPath)
				if err != nil {
					return false, fmt.Errorf("read base package: %w", err)
				}
				res, err := ooxmledit.Export(s.model, original, ctx.parseOptions())
				if err != nil {
					return false, fmt.Errorf("export failed: %w", err)
				}
				if err := os.WriteFile(out, res.Data, 0o644); err != nil {
					return false, fmt.Errorf("failed to write output: %w", err)
				}
				base, err := s.store.PutContainer(s.snap.DocumentID, s.snap.Format, res.Data)
				if err != nil {
					return false, err
				}
				s.snap.BaseContainerPath = base
				s.snap.LatestExportPath = out

				w := cmd.OutOrStdout()
				printStale(w, res.Stale)
				fmt.Fprintf(w, "wrote %s (%d parts changed)\n", out, len(res.Parts))
				return true, nil
			})
		},
	}
}

type sessionView struct {
	DocumentID        string                  `json:"document_id"`
	Format            string                  `json:"format"`
	Version           int                     `json:"version"`
	BaseContainerPath string                  `json:"base_container_path"`
	LatestExportPath  string                  `json:"latest_export_path,omitempty"`
	Validation        models.ValidationReport `json:"validation"`
	Model             *ooxmledit.Model        `json:"model,omitempty"`
}

func newSessionShowCommand(ctx *commandContext) *cobra.Command {
	var withModel bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a session's snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, args[0], func(s *session) (bool, error) {
				view := sessionView{
					DocumentID:        s.snap.DocumentID,
					Format:            s.snap.Format,
					Version:           s.snap.Version,
					BaseContainerPath: s.snap.BaseContainerPath,
					LatestExportPath:  s.snap.LatestExportPath,
					Validation:        ooxmledit.Validate(s.model),
				}
				if withModel {
					view.Model = s.model
				}
				return false, writeJSON(cmd, view)
			})
		},
	}
	cmd.Flags().BoolVar(&withModel, "model", false, "Include the serialized model")
	return cmd
}

func newSessionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			sessions, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					s.DocumentID,
					s.Format,
					strconv.Itoa(s.Version),
					s.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
					s.LatestExportPath,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Format", "Version", "Updated", "Last Export"},
				rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
}

func newSessionCloseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Delete a session and its stored package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkSessionID(args[0]); err != nil {
				return err
			}
			st, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(cmd.Context(), args[0])
		},
	}
}
