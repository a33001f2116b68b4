package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) newCrossCmd() *cobra.Command {
	var brand, types string

	cmd := &cobra.Command{
		Use:     "cross <oem>",
		Short:   "Find aftermarket replacements of a part number",
		Example: `  laximo cross 0986452041 --brand BOSCH --types Analog,Original`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var replacementTypes []string
			if types != "" {
				replacementTypes = strings.Split(types, ",")
			}

			result, err := c.app.Service.FindCrossReferences(cmd.Context(), args[0], brand, replacementTypes)
			if err != nil {
				return err
			}
			if result == nil {
				return c.print(cmd, nil, notFound)
			}
			return c.print(cmd, result, crossTable(result))
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "Manufacturer of the part number")
	cmd.Flags().StringVar(&types, "types", "", "Comma separated replacement types")
	return cmd
}
