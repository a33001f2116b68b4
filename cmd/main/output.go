package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"laximo/catalog/internal/domain"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type renderer func(w io.Writer)

func (c *cli) print(cmd *cobra.Command, v any, render renderer) error {
	out := cmd.OutOrStdout()
	if c.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	render(out)
	return nil
}

func notFound(w io.Writer) {
	fmt.Fprintln(w, "Nothing found")
}

func table(w io.Writer, header []string, rows [][]string) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.AppendBulk(rows)
	t.Render()
}

func vehiclesTable(vehicles []domain.Vehicle) renderer {
	return func(w io.Writer) {
		if len(vehicles) == 0 {
			notFound(w)
			return
		}
		rows := make([][]string, 0, len(vehicles))
		for _, v := range vehicles {
			rows = append(rows, []string{v.Catalog, v.VehicleID, v.Brand, v.Name, v.Attributes.Get("date"), v.SSD})
		}
		table(w, []string{"Catalog", "Vehicle", "Brand", "Name", "Date", "SSD"}, rows)
	}
}

func attributesTable(attrs domain.Attributes) renderer {
	return func(w io.Writer) {
		rows := make([][]string, 0, len(attrs))
		for _, a := range attrs {
			rows = append(rows, []string{a.Key, a.Name, a.Value})
		}
		table(w, []string{"Key", "Name", "Value"}, rows)
	}
}

func wizardTable(steps []domain.WizardStep) renderer {
	return func(w io.Writer) {
		rows := make([][]string, 0)
		for _, s := range steps {
			if s.Determined {
				rows = append(rows, []string{s.Name, s.Value, s.SSD})
				continue
			}
			for _, o := range s.Options {
				rows = append(rows, []string{s.Name, o.Value, o.Key})
			}
		}
		table(w, []string{"Step", "Value", "SSD"}, rows)
	}
}

func partVehiclesTable(result *domain.PartVehicleSearch) renderer {
	return func(w io.Writer) {
		rows := make([][]string, 0, result.TotalVehicles)
		for _, pv := range result.Catalogs {
			for _, v := range pv.Vehicles {
				rows = append(rows, []string{pv.Catalog, pv.Brand, v.VehicleID, v.Name})
			}
		}
		table(w, []string{"Catalog", "Brand", "Vehicle", "Name"}, rows)
	}
}

func catalogsTable(catalogs []domain.CatalogInfo) renderer {
	return func(w io.Writer) {
		rows := make([][]string, 0, len(catalogs))
		for _, c := range catalogs {
			rows = append(rows, []string{c.Code, c.Brand, c.Name, capabilities(&c)})
		}
		table(w, []string{"Code", "Brand", "Name", "Capabilities"}, rows)
	}
}

func catalogInfoTable(info *domain.CatalogInfo) renderer {
	return func(w io.Writer) {
		rows := [][]string{
			{"Code", info.Code},
			{"Brand", info.Brand},
			{"Name", info.Name},
			{"Capabilities", capabilities(info)},
			{"VIN example", info.VINExample},
			{"Frame example", info.FrameExample},
			{"Permissions", strings.Join(info.Permissions, ", ")},
		}
		table(w, []string{"Field", "Value"}, rows)
	}
}

func capabilities(info *domain.CatalogInfo) string {
	var caps []string
	for _, c := range []struct {
		name string
		on   bool
	}{
		{"vin", info.SupportVINSearch},
		{"frame", info.SupportFrameSearch},
		{"plate", info.SupportPlateSearch},
		{"quickgroups", info.SupportQuickGroups},
		{"wizard", info.SupportParameterIdentification},
		{"applicability", info.SupportDetailApplicability},
	} {
		if c.on {
			caps = append(caps, c.name)
		}
	}
	return strings.Join(caps, ",")
}

// treeLines prints one node per line, indented by depth.
func treeLines(nodes []*domain.TreeNode) renderer {
	return func(w io.Writer) {
		if len(nodes) == 0 {
			notFound(w)
			return
		}
		var walk func(nodes []*domain.TreeNode, depth int)
		walk = func(nodes []*domain.TreeNode, depth int) {
			for _, n := range nodes {
				marker := ""
				if n.Link {
					marker = " *"
				}
				fmt.Fprintf(w, "%s%s [%s %s]%s\n", strings.Repeat("  ", depth), n.Name, n.Kind, n.ID, marker)
				walk(n.Children, depth+1)
			}
		}
		walk(nodes, 0)
	}
}

func unitsTable(units []domain.Unit) renderer {
	return func(w io.Writer) {
		rows := make([][]string, 0)
		for _, u := range units {
			for _, d := range u.Details {
				rows = append(rows, []string{u.UnitID, u.Name, d.CodeOnImage, d.OEM, d.Name})
			}
		}
		table(w, []string{"Unit", "Unit name", "Code", "OEM", "Name"}, rows)
	}
}

func oemSearchTable(result *domain.OEMSearchResult) renderer {
	return func(w io.Writer) {
		rows := make([][]string, 0)
		for _, c := range result.Categories {
			for _, u := range c.Units {
				for _, d := range u.Details {
					rows = append(rows, []string{c.Name, u.UnitID, u.Name, d.CodeOnImage, d.OEM, d.Name})
				}
			}
		}
		table(w, []string{"Category", "Unit", "Unit name", "Code", "OEM", "Name"}, rows)
	}
}

// detailsTable lists details; with a bundle it also counts the diagram
// hot-spots of each detail.
func detailsTable(details []domain.Detail, bundle *domain.UnitBundle) renderer {
	return func(w io.Writer) {
		header := []string{"Code", "OEM", "Name", "Brand"}
		if bundle != nil {
			if bundle.Unit != nil {
				fmt.Fprintf(w, "%s %s\n", bundle.Unit.Code, bundle.Unit.Name)
			}
			header = append(header, "Hot-spots")
		}

		rows := make([][]string, 0, len(details))
		for _, d := range details {
			row := []string{d.CodeOnImage, d.OEM, d.Name, d.Brand}
			if bundle != nil {
				row = append(row, strconv.Itoa(len(bundle.Hotspots(d.CodeOnImage))))
			}
			rows = append(rows, row)
		}
		table(w, header, rows)
	}
}

func crossTable(result *domain.CrossReferenceResult) renderer {
	return func(w io.Writer) {
		rows := make([][]string, 0)
		for _, ref := range result.Details {
			for _, r := range ref.Replacements {
				rate := ""
				if r.Rate != nil {
					rate = strconv.FormatFloat(*r.Rate, 'f', -1, 64)
				}
				rows = append(rows, []string{
					ref.Detail.Manufacturer, ref.Detail.OEM,
					r.Type, r.Way, rate,
					r.Detail.Manufacturer, r.Detail.OEM, r.Detail.Name,
				})
			}
		}
		table(w, []string{"Brand", "OEM", "Type", "Way", "Rate", "Replacement brand", "Replacement OEM", "Name"}, rows)
	}
}
