package datacron

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/liliang-cn/datacron/pkg/log"
	"github.com/liliang-cn/datacron/pkg/schedule"
	"github.com/spf13/cobra"
)

// withService opens the schedule database for the duration of fn.
func (c *cli) withService(fn func(*schedule.Service) error) error {
	catalog, err := c.catalog()
	if err != nil {
		return err
	}
	storage, err := schedule.NewStorage(c.cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Warn("failed to close schedule storage", "error", err)
		}
	}()
	return fn(schedule.NewService(storage, catalog))
}

func newScheduleCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"schedules", "sch"},
		Short:   "Manage stored schedules",
	}

	cmd.AddCommand(
		newScheduleAddCmd(c),
		newScheduleListCmd(c),
		newScheduleGetCmd(c),
		newScheduleUpdateCmd(c),
		newScheduleToggleCmd(c, true),
		newScheduleToggleCmd(c, false),
		newScheduleRemoveCmd(c),
		newScheduleNextCmd(c),
		newScheduleExportCmd(c),
		newScheduleImportCmd(c),
	)
	return cmd
}

type inputFlags struct {
	name       string
	kind       string
	taskID     string
	expression string
	disabled   bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "schedule name")
	cmd.Flags().StringVarP(&f.kind, "kind", "k", "", "task kind: annotation, synthesis, evaluation, knowledge_base, ratio or dataset")
	cmd.Flags().StringVar(&f.taskID, "task", "", "id of the triggered task")
	cmd.Flags().StringVarP(&f.expression, "cron", "c", "", "cron expression")
	cmd.Flags().BoolVar(&f.disabled, "disabled", false, "store the schedule disabled")
}

func (f *inputFlags) input() schedule.Input {
	return schedule.Input{
		Name:       f.name,
		TaskKind:   schedule.TaskKind(f.kind),
		TaskID:     f.taskID,
		Expression: f.expression,
	}
}

func newScheduleAddCmd(c *cli) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a schedule",
		Example: `  datacron schedule add --name nightly-eval --kind evaluation --task ev-42 --cron "0 0 2 * * ?"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := flags.input()
			enabled := !flags.disabled
			in.Enabled = &enabled
			return c.withService(func(svc *schedule.Service) error {
				sch, err := svc.Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s created %s\n", checkMark, sch.ID)
				printSchedule(cmd.OutOrStdout(), sch)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newScheduleListCmd(c *cli) *cobra.Command {
	var (
		kind   string
		taskID string
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List schedules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := schedule.Filter{
				TaskKind:        schedule.TaskKind(kind),
				TaskID:          taskID,
				IncludeDisabled: all,
			}
			return c.withService(func(svc *schedule.Service) error {
				list, err := svc.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(list)
				}
				if len(list) == 0 {
					fmt.Fprintln(out, dimStyle.Render("no schedules"))
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, sch := range list {
					rows = append(rows, []string{
						sch.ID, sch.Name, string(sch.TaskKind), sch.TaskID,
						sch.Expression, sch.Description, mark(sch.Enabled),
					})
				}
				renderTable(out, []string{"ID", "NAME", "KIND", "TASK", "CRON", "DESCRIPTION", "ON"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only this task kind")
	cmd.Flags().StringVar(&taskID, "task", "", "only schedules of this task")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include disabled schedules")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newScheduleGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(func(svc *schedule.Service) error {
				sch, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSchedule(cmd.OutOrStdout(), sch)
				return nil
			})
		},
	}
}

func newScheduleUpdateCmd(c *cli) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a schedule; omitted flags keep their stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(func(svc *schedule.Service) error {
				current, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				in := schedule.Input{
					Name:       current.Name,
					TaskKind:   current.TaskKind,
					TaskID:     current.TaskID,
					Expression: current.Expression,
				}
				changed := cmd.Flags().Changed
				if changed("name") {
					in.Name = flags.name
				}
				if changed("kind") {
					in.TaskKind = schedule.TaskKind(flags.kind)
				}
				if changed("task") {
					in.TaskID = flags.taskID
				}
				if changed("cron") {
					in.Expression = flags.expression
				}
				if changed("disabled") {
					enabled := !flags.disabled
					in.Enabled = &enabled
				}

				sch, err := svc.Update(cmd.Context(), args[0], in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s updated %s\n", checkMark, sch.ID)
				printSchedule(cmd.OutOrStdout(), sch)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newScheduleToggleCmd(c *cli, enabled bool) *cobra.Command {
	use, verb := "disable", "disabled"
	if enabled {
		use, verb = "enable", "enabled"
	}
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: "Mark schedules " + verb,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(func(svc *schedule.Service) error {
				for _, id := range args {
					if _, err := svc.SetEnabled(cmd.Context(), id, enabled); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", checkMark, verb, id)
				}
				return nil
			})
		},
	}
}

func newScheduleRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete schedules",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(func(svc *schedule.Service) error {
				for _, id := range args {
					if err := svc.Delete(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", checkMark, id)
				}
				return nil
			})
		},
	}
}

func newScheduleNextCmd(c *cli) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "next <id>",
		Short: "Preview the next run times of a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				count = c.cfg.Cron.PreviewCount
			}
			return c.withService(func(svc *schedule.Service) error {
				runs, err := svc.Preview(cmd.Context(), args[0], time.Now(), count)
				if err != nil {
					return err
				}
				for _, t := range runs {
					fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of runs (default cron.preview_count)")
	return cmd
}

func newScheduleExportCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every schedule as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(func(svc *schedule.Service) error {
				list, err := svc.List(cmd.Context(), schedule.Filter{IncludeDisabled: true})
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer f.Close()
					w = f
				}
				if err := schedule.Export(w, list, time.Now()); err != nil {
					return err
				}
				if output != "" && output != "-" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s exported %d schedules to %s\n", checkMark, len(list), output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newScheduleImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create or update schedules from an export file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}
			doc, err := schedule.ReadExport(r)
			if err != nil {
				return err
			}
			return c.withService(func(svc *schedule.Service) error {
				res, err := svc.Import(cmd.Context(), doc.Schedules)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s imported: %d created, %d updated\n", checkMark, res.Created, res.Updated)
				return nil
			})
		},
	}
}

func printSchedule(w io.Writer, sch *schedule.Schedule) {
	rows := [][]string{
		{"id", sch.ID},
		{"name", sch.Name},
		{"kind", string(sch.TaskKind)},
		{"task", sch.TaskID},
		{"cron", sch.Expression},
		{"description", sch.Description},
		{"enabled", strconv.FormatBool(sch.Enabled)},
		{"created", sch.CreatedAt.Format(time.RFC3339)},
		{"updated", sch.UpdatedAt.Format(time.RFC3339)},
	}
	renderTable(w, []string{"FIELD", "VALUE"}, rows)
}
