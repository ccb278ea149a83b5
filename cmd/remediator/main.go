package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/remediator/internal/app"
	"github.com/tildaslashalef/remediator/internal/remediation"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "remediator",
		Usage: "LLM-backed remediation relay for ABAP static-analysis findings",
		Description: "Remediator receives batches of static-analysis findings over HTTP,\n" +
			"builds a remediation prompt per source unit, relays it to an\n" +
			"OpenAI-compatible completion endpoint, and returns the model's\n" +
			"assessment and remediation prompt for each unit.\n\n" +
			"When run without subcommands, the HTTP server is started (default action).",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Before: func(c *cli.Context) error {
			// Initialize the application
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Store the app instance in the context for later use
			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			// Gracefully shutdown the application
			if application, ok := c.App.Metadata["app"].(*app.App); ok {
				return application.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			stylesCommand(),
		},
		Action: func(c *cli.Context) error {
			// Default action is to run the serve command
			return serveCommand().Action(c)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// serveCommand starts the HTTP server
func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the remediation HTTP server",
		Action: func(c *cli.Context) error {
			application, err := app.FromContext(c)
			if err != nil {
				return err
			}
			return application.Serve()
		},
	}
}

// stylesCommand lists the registered prompt styles
func stylesCommand() *cli.Command {
	return &cli.Command{
		Name:  "styles",
		Usage: "List available prompt styles",
		Action: func(c *cli.Context) error {
			for _, name := range remediation.StyleNames() {
				fmt.Fprintln(c.App.Writer, name)
			}
			return nil
		},
	}
}
