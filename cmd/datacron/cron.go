package datacron

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/liliang-cn/datacron/internal/tui"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newCronCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cron",
		Short: "Inspect, build and describe cron expressions",
		Long: `Expressions have six or seven space separated fields:

  second minute hour day month weekday [year]

An expression may be passed quoted as one argument or as separate arguments.`,
	}

	cmd.AddCommand(
		newCronFieldsCmd(c),
		newCronOptionsCmd(c),
		newCronValidateCmd(c),
		newCronComposeCmd(c),
		newCronDecomposeCmd(c),
		newCronDescribeCmd(c),
		newCronNextCmd(c),
		newCronBuildCmd(c),
	)
	return cmd
}

func expressionArg(args []string) string { return strings.Join(args, " ") }

func newCronFieldsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields with their ranges and examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.catalog()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, spec := range catalog.Specs() {
				rows = append(rows, []string{
					string(spec.Name),
					spec.Label,
					fmt.Sprintf("%d-%d", spec.Range.Min, spec.Range.Max),
					strings.Join(spec.Examples, "  "),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"FIELD", "LABEL", "RANGE", "EXAMPLES"}, rows)
			return nil
		},
	}
}

func newCronOptionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "options <field>",
		Short: "List the picker options of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.catalog()
			if err != nil {
				return err
			}
			name, err := cronexpr.ParseFieldName(args[0])
			if err != nil {
				return err
			}
			opts, err := catalog.Options(name)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(opts))
			for _, o := range opts {
				rows = append(rows, []string{o.Value, o.Label})
			}
			renderTable(cmd.OutOrStdout(), []string{"VALUE", "LABEL"}, rows)
			return nil
		},
	}
}

func newCronValidateCmd(c *cli) *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "validate <expression> | --field <name> <value>",
		Short: "Validate an expression or a single field value",
		Example: `  datacron cron validate "0 30 8 ? * 1-5"
  datacron cron validate --field hour 24`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if field != "" {
				name, err := cronexpr.ParseFieldName(field)
				if err != nil {
					return err
				}
				value := expressionArg(args)
				if !cronexpr.ValidateField(value, name) {
					spec, _ := cronexpr.Spec(name)
					return fmt.Errorf("%s is not a valid %s value (range %d-%d)", strconv.Quote(value), name, spec.Range.Min, spec.Range.Max)
				}
				fmt.Fprintf(out, "%s %s = %s\n", checkMark, name, value)
				return nil
			}

			expr := expressionArg(args)
			fields, err := cronexpr.Parse(expr)
			if err != nil {
				var invalid *cronexpr.InvalidExpressionError
				if errors.As(err, &invalid) && len(invalid.Fields) > 0 {
					printFieldTable(out, fields, invalid.Fields, expr)
				}
				return err
			}
			printFieldTable(out, fields, nil, expr)
			fmt.Fprintf(out, "%s %s\n", checkMark, cronexpr.Compose(fields))
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "validate a single value of this field")
	return cmd
}

// printFieldTable shows each field with a validity mark. When f is the zero
// value (Parse failed) the fields are decomposed from expr instead.
func printFieldTable(w io.Writer, f cronexpr.Fields, bad []cronexpr.FieldName, expr string) {
	if f == (cronexpr.Fields{}) {
		f, _ = cronexpr.Decompose(strings.Join(strings.Fields(expr), " "))
	}
	isBad := make(map[cronexpr.FieldName]bool, len(bad))
	for _, name := range bad {
		isBad[name] = true
	}
	var rows [][]string
	for _, name := range cronexpr.FieldNames() {
		rows = append(rows, []string{string(name), f.Get(name), mark(!isBad[name])})
	}
	renderTable(w, []string{"FIELD", "VALUE", ""}, rows)
}

func newCronComposeCmd(c *cli) *cobra.Command {
	values := make(map[cronexpr.FieldName]*string)

	cmd := &cobra.Command{
		Use:     "compose",
		Short:   "Build an expression from field values",
		Long:    "Fields that are not given keep their defaults (0 0 0 * * ? with year *).",
		Example: `  datacron cron compose --hour 8 --minute 30 --weekday 1-5 --day "?"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.catalog()
			if err != nil {
				return err
			}
			cfg := cronexpr.NewConfig()
			for _, name := range cronexpr.FieldNames() {
				if !cmd.Flags().Changed(string(name)) {
					continue
				}
				value := *values[name]
				if !catalog.ValidateField(value, name) {
					return fmt.Errorf("%s is not a valid %s value", strconv.Quote(value), name)
				}
				if err := cfg.SetField(name, value); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cfg.Expression)
			fmt.Fprintln(out, dimStyle.Render(catalog.Describe(cfg.Expression)))
			return nil
		},
	}

	defaults := cronexpr.DefaultFields()
	for _, name := range cronexpr.FieldNames() {
		spec, _ := cronexpr.Spec(name)
		values[name] = cmd.Flags().String(string(name), defaults.Get(name),
			fmt.Sprintf("%s field (%d-%d)", name, spec.Range.Min, spec.Range.Max))
	}
	return cmd
}

func newCronDecomposeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "decompose <expression>",
		Short: "Split an expression into its fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := expressionArg(args)
			f, ok := cronexpr.Decompose(expr)
			if !ok {
				return fmt.Errorf("%s has fewer than 6 fields", strconv.Quote(expr))
			}
			printFieldTable(cmd.OutOrStdout(), f, f.Invalid(), expr)
			return nil
		},
	}
}

func newCronDescribeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <expression>",
		Short: "Print a one-line summary of an expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.catalog()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), catalog.Describe(expressionArg(args)))
			return nil
		},
	}
}

func newCronNextCmd(c *cli) *cobra.Command {
	var (
		count int
		from  string
	)

	cmd := &cobra.Command{
		Use:   "next <expression>",
		Short: "Preview the next run times of an expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				count = c.cfg.Cron.PreviewCount
			}
			start := time.Now()
			if from != "" {
				t, err := time.Parse(time.RFC3339, from)
				if err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
				start = t
			}

			runs, err := cronexpr.NextRuns(expressionArg(args), start, count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, dimStyle.Render("no upcoming runs"))
				return nil
			}
			for _, t := range runs {
				fmt.Fprintln(out, t.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of runs (default cron.preview_count)")
	cmd.Flags().StringVar(&from, "from", "", "start time in RFC 3339 (default now)")
	return cmd
}

func newCronBuildCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "build [expression]",
		Short: "Build an expression interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("build needs an interactive terminal; use 'datacron cron compose' instead")
			}
			catalog, err := c.catalog()
			if err != nil {
				return err
			}
			m, err := tui.Run(catalog, expressionArg(args))
			if err != nil {
				return err
			}
			if m.Cancelled() {
				return errors.New("cancelled")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, m.Expression())
			if !m.Valid() {
				return fmt.Errorf("%s has invalid fields", strconv.Quote(m.Expression()))
			}
			return nil
		},
	}
}
