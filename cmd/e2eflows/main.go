package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"

	internalcli "github.com/themizzi/e2eflows/internal/cli"
	"github.com/themizzi/e2eflows/internal/config"
	"github.com/themizzi/e2eflows/internal/handlers"
	"github.com/themizzi/e2eflows/internal/logging"
	"github.com/themizzi/e2eflows/internal/services"
)

var version = "0.1.0"

// buildServerDependencies wires the backing server from its configuration
func buildServerDependencies(cfg config.ServerConfig, logger *log.Logger) internalcli.ServerDependencies {
	deps := internalcli.ServerDependencies{
		ServerConfig:  cfg,
		StaticHandler: handlers.NewStaticHandler(cfg.StaticDir),
		Logger:        logger,
	}

	if cfg.StubAPI {
		service := services.NewTransferService(cfg.StubBalance)
		deps.TransferHandler = handlers.NewTransferHandler(service, logger.WithPrefix("api"))
	}

	return deps
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the transfer form and other pages under test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "port to listen on", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "dir", Usage: "directory of static pages", EnvVars: []string{"STATIC_DIR"}},
			&cli.BoolFlag{Name: "stub-api", Usage: "answer POST /api/transfer from an in-memory ledger", EnvVars: []string{"STUB_API"}},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadServerConfig(os.Getenv)
			if err != nil {
				return err
			}
			if c.IsSet("port") {
				cfg.Port = c.String("port")
			}
			if c.IsSet("dir") {
				cfg.StaticDir = c.String("dir")
			}
			cfg.StubAPI = c.Bool("stub-api")

			logger := logging.New(logging.Options{Level: c.String("log-level"), Prefix: "server"})
			return internalcli.RunServe(buildServerDependencies(cfg, logger))
		},
	}
}

// ConfigCommand returns the config command
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the resolved runner configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: "e2e.yaml", Usage: "runner configuration file", EnvVars: []string{"E2E_CONFIG"}},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadRunnerConfig(c.String("file"), os.Getenv)
			if err != nil {
				return err
			}

			out, err := cfg.Marshal()
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			_, err = c.App.Writer.Write(out)
			return err
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the Playwright driver and Chromium",
		Action: func(c *cli.Context) error {
			logger := logging.New(logging.Options{Level: c.String("log-level"), Prefix: "install"})
			logger.Info("installing playwright driver", "browsers", "chromium")
			if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
				return fmt.Errorf("failed to install playwright: %w", err)
			}
			logger.Info("install complete")
			return nil
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "e2eflows",
		Usage:   "Browser end-to-end flows for the shop and the transfer form",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			ServeCommand(),
			ConfigCommand(),
			InstallCommand(),
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, using environment variables")
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal("command failed", "err", err)
	}
}
