package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func (c *CLI) overviewCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		width   float64
		height  float64
	)

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Render all containers as fill gauges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOverview(cmd.Context(), output, refresh, width, height)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "overview.svg", `output file ("-" for stdout)`)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached API responses")
	cmd.Flags().Float64Var(&width, "width", 0, "frame width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "frame height (default from config)")
	return cmd
}

func (c *CLI) runOverview(ctx context.Context, output string, refresh bool, width, height float64) error {
	runner, _, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	w, h := c.renderSize()
	if width > 0 {
		w = width
	}
	if height > 0 {
		h = height
	}

	spinner := newSpinnerWithContext(ctx, "Fetching containers...")
	spinner.Start()
	svg, err := runner.Overview(ctx, refresh, w, h)
	spinner.Stop()
	if err != nil {
		return err
	}
	if err := writeOutput(output, svg); err != nil {
		return err
	}
	if output != "-" {
		printFile(output)
	}
	return nil
}
