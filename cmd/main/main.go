package main

import (
	"fmt"
	"os"

	"laximo/catalog/internal/config"
	"laximo/catalog/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type cli struct {
	configPath string
	jsonOutput bool

	app *container.Container
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "laximo",
		Short: "Query the Laximo parts catalog",
		Long: `laximo identifies vehicles, browses their parts catalogs and resolves
aftermarket cross references against the Laximo catalog services.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to config.yaml (default ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		c.newCatalogsCmd(),
		c.newCatalogInfoCmd(),
		c.newVINCmd(),
		c.newFrameCmd(),
		c.newPlateCmd(),
		c.newWizardCmd(),
		c.newVehicleCmd(),
		c.newPartCmd(),
		c.newTreeCmd(),
		c.newUnitsCmd(),
		c.newQuickDetailsCmd(),
		c.newOEMCmd(),
		c.newSearchCmd(),
		c.newUnitCmd(),
		c.newCrossCmd(),
	)

	return rootCmd
}

func (c *cli) init() error {
	cfg, err := config.LoadFrom(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.SetupLogging(cfg.Log); err != nil {
		return err
	}

	app, err := container.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.app = app

	log.Debug("Configuration loaded successfully")
	return nil
}
