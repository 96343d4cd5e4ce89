package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kustodian/sunburst/pkg/pipeline"
	"github.com/kustodian/sunburst/pkg/view"
)

func (c *CLI) browseCommand() *cobra.Command {
	var (
		refresh  bool
		noLookup bool
	)

	cmd := &cobra.Command{
		Use:   "browse <container-id|file>",
		Short: "Navigate a capacity tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], refresh, noLookup)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached API responses")
	cmd.Flags().BoolVar(&noLookup, "no-lookup", false, "do not fetch item details from the API")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, source string, refresh, noLookup bool) error {
	src, err := pipeline.ParseSource(source)
	if err != nil {
		return err
	}
	runner, client, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading "+src.String()+"...")
	spinner.Start()
	tree, err := runner.Load(ctx, src, refresh)
	spinner.Stop()
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen; keep only errors.
	quiet := c.Logger.With()
	quiet.SetLevel(log.ErrorLevel)

	vopts := []view.Option{view.WithLogger(quiet), view.WithContext(ctx)}
	if !noLookup {
		vopts = append(vopts, view.WithLookup(client), view.WithLookupTimeout(c.Config.API.Timeout))
	}
	v := view.New(tree, vopts...)
	defer v.Close()

	model := NewBrowseModel(v)
	defer model.Close()

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
