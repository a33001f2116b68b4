package main

import (
	"github.com/spf13/cobra"
)

type vehicleFlags struct {
	vehicleID string
	ssd       string
}

func (f *vehicleFlags) register(cmd *cobra.Command, vehicleDefault string) {
	cmd.Flags().StringVar(&f.vehicleID, "vehicle", vehicleDefault, "Vehicle id")
	cmd.Flags().StringVar(&f.ssd, "ssd", "", "Vehicle ssd")
}

func (c *cli) newCatalogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalogs",
		Short: "List the catalogs available to the login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogs, err := c.app.Service.ListCatalogs(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(cmd, catalogs, catalogsTable(catalogs))
		},
	}
}

func (c *cli) newCatalogInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog-info <catalog>",
		Short: "Show the capabilities of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := c.app.Service.GetCatalogInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if info == nil {
				return c.print(cmd, nil, notFound)
			}
			return c.print(cmd, info, catalogInfoTable(info))
		},
	}
}

func (c *cli) newTreeCmd() *cobra.Command {
	flags := &vehicleFlags{}

	cmd := &cobra.Command{
		Use:     "tree <catalog>",
		Short:   "Show the navigation tree of a vehicle",
		Example: `  laximo tree BM10 --vehicle 42 --ssd '$*KwE...$'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := c.app.Service.ListTree(cmd.Context(), args[0], flags.vehicleID, flags.ssd)
			if err != nil {
				return err
			}
			return c.print(cmd, tree, treeLines(tree))
		},
	}

	flags.register(cmd, "0")
	return cmd
}

func (c *cli) newUnitsCmd() *cobra.Command {
	flags := &vehicleFlags{}
	var category string

	cmd := &cobra.Command{
		Use:   "units <catalog>",
		Short: "List the units of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := c.app.Service.ListUnits(cmd.Context(), args[0], flags.vehicleID, flags.ssd, category)
			if err != nil {
				return err
			}
			return c.print(cmd, units, treeLines(units))
		},
	}

	flags.register(cmd, "0")
	cmd.Flags().StringVar(&category, "category", "", "Category id; all units when empty")
	return cmd
}

func (c *cli) newQuickDetailsCmd() *cobra.Command {
	flags := &vehicleFlags{}

	cmd := &cobra.Command{
		Use:   "quick-details <catalog> <quick-group-id>",
		Short: "List the units and details of a quick group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Service.ListQuickGroupDetails(cmd.Context(), args[0], flags.vehicleID, args[1], flags.ssd)
			if err != nil {
				return err
			}
			return c.print(cmd, result, unitsTable(result.Units))
		},
	}

	flags.register(cmd, "0")
	return cmd
}

func (c *cli) newOEMCmd() *cobra.Command {
	flags := &vehicleFlags{}

	cmd := &cobra.Command{
		Use:   "oem <catalog> <oem>",
		Short: "Find where a part number is used on a vehicle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Service.FindByOEM(cmd.Context(), args[0], flags.vehicleID, args[1], flags.ssd)
			if err != nil {
				return err
			}
			return c.print(cmd, result, oemSearchTable(result))
		},
	}

	flags.register(cmd, "0")
	return cmd
}

func (c *cli) newSearchCmd() *cobra.Command {
	flags := &vehicleFlags{}

	cmd := &cobra.Command{
		Use:     "search <catalog> <query>",
		Short:   "Search details by name",
		Example: `  laximo search BM10 "масляный фильтр" --vehicle 42 --ssd '$*KwE...$'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Service.SearchByText(cmd.Context(), args[0], flags.vehicleID, args[1], flags.ssd)
			if err != nil {
				return err
			}
			if result == nil {
				return c.print(cmd, nil, notFound)
			}
			return c.print(cmd, result, detailsTable(result.Details, nil))
		},
	}

	flags.register(cmd, "0")
	return cmd
}

func (c *cli) newUnitCmd() *cobra.Command {
	var ssd string

	cmd := &cobra.Command{
		Use:   "unit <catalog> <unit-id>",
		Short: "Show a unit with its details and diagram hot-spots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := c.app.Service.UnitBundle(cmd.Context(), args[0], args[1], ssd)
			if err != nil {
				return err
			}
			return c.print(cmd, bundle, detailsTable(bundle.Details, bundle))
		},
	}

	cmd.Flags().StringVar(&ssd, "ssd", "", "Unit ssd")
	return cmd
}
