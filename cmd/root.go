// Package cmd defines and implements the CLI commands for the moviescraper executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// newApp is the application factory. Tests replace it to inject fakes.
var newApp = func(ctx context.Context, configPath string) (*App, error) {
	return NewApp(ctx, configPath)
}

// cli owns the root command and the App built for the running subcommand.
type cli struct {
	root *cobra.Command
	app  *App
}

func newCLI() *cli {
	c := &cli{}
	c.root = newRootCmd(c)
	return c
}

// run executes the command tree and always closes the App, including when
// the subcommand fails.
func (c *cli) run(ctx context.Context) error {
	err := c.root.ExecuteContext(ctx)
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moviescraper",
		Short: "Concurrent scraper for a paginated movie catalog.",
		Long: `moviescraper walks listing pages of a movie catalog site, scrapes every
detail page concurrently, enriches records with canonical artwork and serves
or stores the resulting catalog.`,
		SilenceUsage: true,

		// Builds the application once flags are parsed and before the
		// subcommand runs. cli.run closes it.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			c.app = appInstance
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env SCRAPER_* overrides apply either way")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newSnapshotCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*App, error) {
	appInstance, ok := ctx.Value(appKey).(*App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCLI().run(ctx); err != nil {
		zap.L().Error("command execution failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
