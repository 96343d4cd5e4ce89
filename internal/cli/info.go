package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kustodian/sunburst/pkg/pipeline"
	"github.com/kustodian/sunburst/pkg/view"
)

type infoOpts struct {
	path     string
	noLookup bool
	asJSON   bool
	refresh  bool
	noCache  bool
}

func (c *CLI) infoCommand() *cobra.Command {
	var opts infoOpts

	cmd := &cobra.Command{
		Use:   "info <container-id|file>",
		Short: "Print the breadcrumb trail and info panel for a node",
		Example: `  sunburst info 42 --path "Rack A/Straw 7"
  sunburst info store.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", "", `node as "/"-separated labels below the root`)
	cmd.Flags().BoolVar(&opts.noLookup, "no-lookup", false, "do not fetch item details from the API")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the update as JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached API responses")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

func (c *CLI) runInfo(ctx context.Context, source string, opts infoOpts) error {
	src, err := pipeline.ParseSource(source)
	if err != nil {
		return err
	}
	runner, client, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading "+src.String()+"...")
	spinner.Start()
	defer spinner.Stop()

	tree, err := runner.Load(ctx, src, opts.refresh)
	if err != nil {
		return err
	}
	focus, err := pipeline.Focus(tree, opts.path)
	if err != nil {
		return err
	}

	vopts := []view.Option{view.WithLogger(c.Logger), view.WithContext(ctx)}
	if !opts.noLookup {
		vopts = append(vopts, view.WithLookup(client), view.WithLookupTimeout(c.Config.API.Timeout))
	}
	v := view.New(tree, vopts...)
	defer v.Close()
	if v.HandleNodeActivated(focus) && focus.IsItem() && !opts.noLookup {
		spinner.SetMessage(fmt.Sprintf("Looking up item %d...", focus.ItemID))
	}
	v.Wait()
	spinner.Stop()
	u := v.Snapshot()

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(u)
	}

	fmt.Println(formatTrail(u.Trail))
	fmt.Println()
	fmt.Print(formatSummary(u.Summary))
	if u.LookupError != "" {
		printWarning("item details unavailable: %s", u.LookupError)
	}
	return nil
}
