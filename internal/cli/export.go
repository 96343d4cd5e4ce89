package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	errs "github.com/kustodian/sunburst/pkg/errors"
	treeio "github.com/kustodian/sunburst/pkg/io"
	"github.com/kustodian/sunburst/pkg/pipeline"
)

type exportOpts struct {
	output  string
	refresh bool
	noCache bool
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <container-id|file>",
		Short: "Save a container report as a JSON or YAML tree document",
		Long: `Export fetches a container report, validates it and writes the tree
document. The format follows the output extension (.yaml/.yml or .json).
The written file can be passed back to render, info and browse.`,
		Example: `  sunburst export 42 -o dewar-42.yaml
  sunburst export 42 -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file ("-" for JSON on stdout)`)
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached API responses")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, stdout io.Writer, source string, opts exportOpts) error {
	src, err := pipeline.ParseSource(source)
	if err != nil {
		return err
	}
	if src.File != "" && filepath.Clean(src.File) == filepath.Clean(opts.output) {
		return errs.New(errs.ErrCodeInvalidInput, "refusing to overwrite the input file %s", src.File)
	}
	runner, _, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading "+src.String()+"...")
	spinner.Start()
	tree, err := runner.Load(ctx, src, opts.refresh)
	spinner.Stop()
	if err != nil {
		return err
	}

	if opts.output == "-" {
		return treeio.WriteTree(stdout, tree, treeio.FormatJSON)
	}
	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := treeio.ExportTree(tree, opts.output); err != nil {
		return err
	}
	printFile(opts.output)
	printDetail("%d nodes, %d levels", tree.Len(), tree.MaxDepth()+1)
	printNextStep("Render it", "sunburst render "+opts.output)
	return nil
}
