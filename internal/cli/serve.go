package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kustodian/sunburst/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noLookup bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host navigation views over HTTP",
		Long: `Serve the view API. Clients create a view for a container, activate
nodes by child-index path, and fetch the breadcrumb trail, info panel and
rendered sunburst for the current focus.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noLookup)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noLookup, "no-lookup", false, "do not fetch item details from the API")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noLookup bool) error {
	runner, client, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	if addr == "" {
		addr = c.Config.Server.Addr
	}
	width, height := c.renderSize()
	cfg := server.Config{
		Addr:          addr,
		ViewTTL:       c.Config.Server.ViewTTL,
		LookupTimeout: c.Config.API.Timeout,
		Width:         width,
		Height:        height,
	}

	var srv *server.Server
	if noLookup {
		srv = server.New(cfg, runner, nil, c.Logger)
	} else {
		srv = server.New(cfg, runner, client, c.Logger)
	}
	printInfo("Serving views")
	printKeyValue("Address", addr)
	printKeyValue("API", c.Config.API.BaseURL)
	printKeyValue("View TTL", cfg.ViewTTL.String())
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	printNextStep("Create a view", `curl -X POST -d '{"containerId": 1}' http://`+host+"/views")
	return srv.Run(ctx)
}
