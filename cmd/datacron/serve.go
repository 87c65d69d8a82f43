package datacron

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/liliang-cn/datacron/api"
	"github.com/liliang-cn/datacron/pkg/log"
	"github.com/liliang-cn/datacron/pkg/schedule"
	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  `serve exposes the cron field catalog, expression tools and schedule CRUD over HTTP.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				c.cfg.Server.Port = port
			}
			if host != "" {
				c.cfg.Server.Host = host
			}

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

			server := api.NewServer(api.ConfigFrom(c.cfg, version), api.Deps{
				Catalog: catalog,
				Service: schedule.NewService(storage, catalog),
				Store:   storage,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "%s datacron API on http://%s (db %s)\n",
				titleStyle.Render("▶"), server.Addr(), c.cfg.Storage.DBPath)
			if err := server.Start(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	return cmd
}
