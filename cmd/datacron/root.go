// Package datacron is the datacron command line.
package datacron

import (
	"fmt"
	"os"

	"github.com/liliang-cn/datacron/pkg/config"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
	"github.com/liliang-cn/datacron/pkg/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion sets the version reported by "datacron version" and the API
// health check.
func SetVersion(v string) { version = v }

// cli is the state shared by every subcommand of one root.
type cli struct {
	cfgFile string
	dbPath  string
	locale  string
	verbose bool

	cfg *config.Config
}

// catalog returns the catalog for --locale, or the configured one.
func (c *cli) catalog() (*cronexpr.Catalog, error) {
	if c.locale != "" {
		locale, err := cronexpr.ParseLocale(c.locale)
		if err != nil {
			return nil, err
		}
		return cronexpr.NewCatalog(locale)
	}
	return c.cfg.Catalog()
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "datacron",
		Short: "Cron expressions and schedules for dataset tasks",
		Long: `datacron builds, validates and describes six- and seven-field cron
expressions (second minute hour day month weekday [year]) and stores the
schedules that trigger dataset tasks.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// init and version must work without a readable config
			if cmd.Name() == "version" || cmd.Name() == "init" {
				return nil
			}

			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if c.dbPath != "" {
				cfg.Storage.DBPath = c.dbPath
			}
			c.cfg = cfg

			level, err := log.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			log.SetOutput(cmd.ErrOrStderr(), cfg.Log.JSON)
			log.SetLevel(level)
			if c.verbose {
				log.SetDebug(true)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "configuration file (default: ./datacron.toml or ~/.datacron/datacron.toml)")
	flags.StringVar(&c.dbPath, "db", "", "schedule database path (overrides storage.db_path)")
	flags.StringVar(&c.locale, "locale", "", "description and label language: zh or en (overrides cron.locale)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newServeCmd(c),
		newCronCmd(c),
		newScheduleCmd(c),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "datacron version %s\n", version)
		},
	}
}

// Execute runs the command line and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
