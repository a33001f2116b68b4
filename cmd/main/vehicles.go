package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func (c *cli) newVINCmd() *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:     "vin <vin>",
		Short:   "Identify a vehicle by VIN",
		Example: `  laximo vin WBAFE41070LX12345 --catalog BM10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicles, err := c.app.Service.SearchByVIN(cmd.Context(), catalog, args[0])
			if err != nil {
				return err
			}
			return c.print(cmd, vehicles, vehiclesTable(vehicles))
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "Catalog code; all catalogs are searched when no match")
	return cmd
}

func (c *cli) newFrameCmd() *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:     "frame <frame> <number>",
		Short:   "Identify a vehicle by frame code and number",
		Example: `  laximo frame GX100 1234567`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicles, err := c.app.Service.SearchByFrame(cmd.Context(), catalog, args[0], args[1])
			if err != nil {
				return err
			}
			return c.print(cmd, vehicles, vehiclesTable(vehicles))
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "Catalog code; all catalogs are searched when no match")
	return cmd
}

func (c *cli) newPlateCmd() *cobra.Command {
	var catalog, country string

	cmd := &cobra.Command{
		Use:     "plate <number>",
		Short:   "Identify a vehicle by license plate",
		Example: `  laximo plate A123BC77 --country ru`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicles, err := c.app.Service.SearchByPlate(cmd.Context(), catalog, args[0], country)
			if err != nil {
				return err
			}
			return c.print(cmd, vehicles, vehiclesTable(vehicles))
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "Catalog code; all catalogs are searched when no match")
	cmd.Flags().StringVar(&country, "country", "ru", "Plate country code")
	return cmd
}

func (c *cli) newWizardCmd() *cobra.Command {
	var ssd string
	var list bool

	cmd := &cobra.Command{
		Use:   "wizard <catalog>",
		Short: "Step through parameter identification",
		Long: `Without --ssd the first wizard step is shown. Pass an option key as --ssd
to narrow the selection, and --list to resolve the vehicles of the current ssd.`,
		Example: `  laximo wizard BM10 --ssd '$*KwE...$' --list`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				vehicles, err := c.app.Service.FindVehicleByWizard(cmd.Context(), args[0], ssd)
				if err != nil {
					return err
				}
				return c.print(cmd, vehicles, vehiclesTable(vehicles))
			}

			steps, err := c.app.Service.GetWizardSteps(cmd.Context(), args[0], ssd)
			if err != nil {
				return err
			}
			return c.print(cmd, steps, wizardTable(steps))
		},
	}

	cmd.Flags().StringVar(&ssd, "ssd", "", "Wizard ssd from a previous step")
	cmd.Flags().BoolVar(&list, "list", false, "List the vehicles matching --ssd")
	return cmd
}

func (c *cli) newVehicleCmd() *cobra.Command {
	var ssd string

	cmd := &cobra.Command{
		Use:   "vehicle <catalog> <vehicle-id>",
		Short: "Show the attributes of one vehicle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicle, err := c.app.Service.GetVehicleInfo(cmd.Context(), args[0], args[1], ssd)
			if err != nil {
				return err
			}
			if vehicle == nil {
				return c.print(cmd, nil, notFound)
			}
			return c.print(cmd, vehicle, attributesTable(vehicle.Attributes))
		},
	}

	cmd.Flags().StringVar(&ssd, "ssd", "", "Vehicle ssd (required)")
	return cmd
}

func (c *cli) newPartCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "part <oem>",
		Short:   "Find the vehicles a part number fits, across catalogs",
		Example: `  laximo part 11427953129`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Service.FindVehiclesByPartNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(cmd, result, func(w io.Writer) {
				partVehiclesTable(result)(w)
				fmt.Fprintf(w, "%d vehicles in %d catalogs\n", result.TotalVehicles, len(result.Catalogs))
			})
		},
	}
}
