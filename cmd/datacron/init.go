package datacron

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/liliang-cn/datacron/pkg/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		force  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `init writes datacron.toml with every default value so it can be
customized. Environment variables DATACRON_<SECTION>_<KEY> still override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := output
			if path == "" {
				path = config.FileName
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
				}
			}

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			content, err := config.Default().TOML()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, content, 0644); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s configuration written to %s\n", checkMark, path)
			fmt.Fprintf(out, "%s\n", dimStyle.Render("start the API with: datacron --config "+path+" serve"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default ./datacron.toml)")
	return cmd
}
