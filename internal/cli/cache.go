package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kustodian/sunburst/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the API response and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry from the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	backend, err := c.openCache(ctx, false)
	if err != nil {
		return err
	}
	defer backend.Close()

	cleared, err := cache.Clear(ctx, backend)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if !cleared {
		printInfo("The %s backend keeps nothing to clear", c.Config.Cache.Backend)
		return nil
	}
	printSuccess("Cleared the %s cache", c.Config.Cache.Backend)
	if fc, ok := backend.(*cache.FileCache); ok {
		printDetail("Directory: %s", fc.Dir())
	}
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheDir returns the configured file cache directory, or the default
// one ($XDG_CACHE_HOME/sunburst).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
