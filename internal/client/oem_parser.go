package client

import (
	"sort"
	"strconv"
	"strings"

	"laximo/catalog/internal/domain"
	"laximo/catalog/internal/protocol"
)

// Attributes promoted to record fields; everything else on a row goes into
// the record's attribute bag.
var (
	vehicleFields = map[string]bool{"catalog": true, "vehicleid": true, "brand": true, "name": true, "ssd": true}
	detailFields  = map[string]bool{"oem": true, "name": true, "brand": true, "codeonimage": true, "ssd": true}
	unitFields    = map[string]bool{"unitid": true, "code": true, "name": true, "imageurl": true, "largeimageurl": true, "ssd": true}
)

const imageSizePlaceholder = "%size%"

func sectionOrPayload(payload, name string) string {
	if section, ok := protocol.Section(payload, name); ok {
		return section
	}
	return payload
}

// attributesOf collects <attribute key name value/> children followed by the
// row's own attributes that are not promoted to fields, sorted by key.
func attributesOf(row protocol.Row, promoted map[string]bool) domain.Attributes {
	var attrs domain.Attributes
	for _, a := range protocol.Rows(row.Inner, "attribute") {
		key := a.Attr("key")
		if key == "" {
			key = a.Attr("name")
		}
		attrs = append(attrs, domain.Attribute{Key: key, Name: a.Attr("name"), Value: a.Attr("value")})
	}

	extra := make([]string, 0, len(row.Attrs))
	for key := range row.Attrs {
		if !promoted[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		attrs = append(attrs, domain.Attribute{Key: key, Value: row.Attrs[key]})
	}

	return attrs
}

func parseVehicles(section, catalog string) []domain.Vehicle {
	rows := protocol.Rows(section, "row")
	vehicles := make([]domain.Vehicle, 0, len(rows))
	for _, row := range rows {
		vehicles = append(vehicles, vehicleFromRow(row, catalog))
	}
	return vehicles
}

func vehicleFromRow(row protocol.Row, catalog string) domain.Vehicle {
	v := domain.Vehicle{
		Catalog:    row.Attr("catalog"),
		VehicleID:  row.Attr("vehicleid"),
		Brand:      row.Attr("brand"),
		Name:       row.Attr("name"),
		SSD:        row.Attr("ssd"),
		Attributes: attributesOf(row, vehicleFields),
	}
	if v.Catalog == "" {
		v.Catalog = catalog
	}
	return v
}

func parseCatalogList(section string) []domain.CatalogInfo {
	rows := protocol.Rows(section, "row")
	catalogs := make([]domain.CatalogInfo, 0, len(rows))
	for _, row := range rows {
		catalogs = append(catalogs, catalogFromRow(row))
	}
	return catalogs
}

// parseCatalogInfo returns nil when the answer has no catalog row.
func parseCatalogInfo(section string) *domain.CatalogInfo {
	rows := protocol.Rows(section, "row")
	if len(rows) == 0 {
		return nil
	}
	info := catalogFromRow(rows[0])
	if info.Code == "" && info.Name == "" {
		return nil
	}
	return &info
}

func catalogFromRow(row protocol.Row) domain.CatalogInfo {
	info := domain.CatalogInfo{
		Code:         row.Attr("code"),
		Brand:        row.Attr("brand"),
		Name:         row.Attr("name"),
		Icon:         row.Attr("icon"),
		VINExample:   row.Attr("vinexample"),
		FrameExample: row.Attr("frameexample"),
	}

	if features, ok := protocol.Section(row.Inner, "features"); ok {
		for _, f := range protocol.Rows(features, "feature") {
			info.Features = append(info.Features, domain.CatalogFeature{Name: f.Attr("name"), Example: f.Attr("example")})
		}
	}

	if permissions, ok := protocol.Section(row.Inner, "permissions"); ok {
		for _, p := range protocol.Rows(permissions, "permission") {
			name := p.Attr("name")
			if name == "" {
				name = strings.TrimSpace(p.Inner)
			}
			if name != "" {
				info.Permissions = append(info.Permissions, name)
			}
		}
	}

	if info.VINExample == "" {
		info.VINExample = featureExample(info.Features, domain.FeatureVINSearch)
	}
	if info.FrameExample == "" {
		info.FrameExample = featureExample(info.Features, domain.FeatureFrameSearch)
	}

	info.SupportVINSearch = row.Bool("supportvinsearch") || info.HasFeature(domain.FeatureVINSearch)
	info.SupportFrameSearch = row.Bool("supportframesearch") || info.HasFeature(domain.FeatureFrameSearch)
	info.SupportPlateSearch = row.Bool("supportplatesearch") || info.HasFeature(domain.FeaturePlateSearch)
	info.SupportQuickGroups = row.Bool("supportquickgroups") || info.HasFeature(domain.FeatureQuickGroups)
	info.SupportParameterIdentification = row.Bool("supportparameteridentification2") ||
		row.Bool("supportparameteridentification") || info.HasFeature(domain.FeatureWizardSearch)
	info.SupportDetailApplicability = row.Bool("supportdetailapplicability") || info.HasFeature(domain.FeatureApplicable)

	return info
}

func featureExample(features []domain.CatalogFeature, name string) string {
	for _, f := range features {
		if f.Name == name {
			return f.Example
		}
	}
	return ""
}

func parseWizardSteps(section string) []domain.WizardStep {
	rows := protocol.Rows(section, "row")
	steps := make([]domain.WizardStep, 0, len(rows))
	for _, row := range rows {
		step := domain.WizardStep{
			ConditionID:       row.Attr("conditionid"),
			Name:              row.Attr("name"),
			Type:              row.Attr("type"),
			Determined:        row.Bool("determined"),
			Automatic:         row.Bool("automatic"),
			AllowListVehicles: row.Bool("allowlistvehicles"),
			Value:             row.Attr("value"),
			SSD:               row.Attr("ssd"),
		}
		if options, ok := protocol.Section(row.Inner, "options"); ok {
			for _, o := range protocol.Rows(options, "row") {
				step.Options = append(step.Options, domain.WizardOption{Key: o.Attr("key"), Value: o.Attr("value")})
			}
		}
		steps = append(steps, step)
	}
	return steps
}

func parseCatalogReferences(section string) []string {
	rows := protocol.Rows(section, "CatalogReference")
	if len(rows) == 0 {
		rows = protocol.Rows(section, "row")
	}

	seen := make(map[string]bool, len(rows))
	catalogs := make([]string, 0, len(rows))
	for _, row := range rows {
		code := row.Attr("code")
		if code == "" {
			code = row.Attr("catalog")
		}
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		catalogs = append(catalogs, code)
	}
	return catalogs
}

func parseQuickGroups(section string) []*domain.TreeNode {
	return quickGroupNodes(protocol.RowTree(section, "row"), "")
}

func quickGroupNodes(rows []*protocol.RowNode, parentID string) []*domain.TreeNode {
	nodes := make([]*domain.TreeNode, 0, len(rows))
	for _, row := range rows {
		node := &domain.TreeNode{
			ID:       row.Attr("quickgroupid"),
			ParentID: parentID,
			Name:     row.Attr("name"),
			Kind:     domain.NodeKindQuickGroup,
			Link:     row.Bool("link"),
		}
		node.Children = quickGroupNodes(row.Children, node.ID)
		nodes = append(nodes, node)
	}
	return nodes
}

// parseCategories rebuilds the category tree. Rows may be nested or flat with
// parentcategoryid links; a row whose parent is unknown becomes a root.
func parseCategories(section string) []*domain.TreeNode {
	var flat []*domain.TreeNode
	var flatten func(rows []*protocol.RowNode, parentID string)
	flatten = func(rows []*protocol.RowNode, parentID string) {
		for _, row := range rows {
			node := &domain.TreeNode{
				ID:       row.Attr("categoryid"),
				ParentID: row.Attr("parentcategoryid"),
				Name:     row.Attr("name"),
				Code:     row.Attr("code"),
				Kind:     domain.NodeKindCategory,
				SSD:      row.Attr("ssd"),
			}
			if node.ParentID == "" {
				node.ParentID = parentID
			}
			flat = append(flat, node)
			flatten(row.Children, node.ID)
		}
	}
	flatten(protocol.RowTree(section, "row"), "")

	return buildTree(flat)
}

func buildTree(flat []*domain.TreeNode) []*domain.TreeNode {
	byID := make(map[string]*domain.TreeNode, len(flat))
	for _, n := range flat {
		if n.ID != "" {
			if _, dup := byID[n.ID]; !dup {
				byID[n.ID] = n
			}
		}
	}

	attached := make(map[*domain.TreeNode]bool, len(flat))
	roots := make([]*domain.TreeNode, 0)
	for _, n := range flat {
		parent, ok := byID[n.ParentID]
		if ok && parent != n && !isAncestor(n, parent, byID) {
			parent.Children = append(parent.Children, n)
			attached[n] = true
		}
	}
	for _, n := range flat {
		if !attached[n] {
			roots = append(roots, n)
		}
		n.Link = len(n.Children) == 0
	}
	return roots
}

// isAncestor reports whether node already sits above candidate, which would
// make attaching node under candidate a cycle.
func isAncestor(node, candidate *domain.TreeNode, byID map[string]*domain.TreeNode) bool {
	cur := candidate
	for steps := 0; cur != nil && steps <= len(byID); steps++ {
		if cur == node {
			return true
		}
		next, ok := byID[cur.ParentID]
		if !ok || next == cur {
			return false
		}
		cur = next
	}
	return false
}

func parseUnitNodes(section string) []*domain.TreeNode {
	units := parseUnitRows(section)
	nodes := make([]*domain.TreeNode, 0, len(units))
	for _, u := range units {
		nodes = append(nodes, &domain.TreeNode{
			ID:       u.UnitID,
			ParentID: u.CategoryID,
			Name:     u.Name,
			Code:     u.Code,
			Kind:     domain.NodeKindUnit,
			Link:     true,
			ImageURL: u.ImageURL,
			SSD:      u.SSD,
		})
	}
	return nodes
}

func parseUnitRows(section string) []domain.Unit {
	rows := protocol.Rows(section, "row")
	units := make([]domain.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, unitFromRow(row))
	}
	return units
}

func parseUnitInfo(section string) *domain.Unit {
	rows := protocol.Rows(section, "row")
	if len(rows) == 0 {
		return nil
	}
	unit := unitFromRow(rows[0])
	return &unit
}

func unitFromRow(row protocol.Row) domain.Unit {
	unit := domain.Unit{
		UnitID:        row.Attr("unitid"),
		Code:          row.Attr("code"),
		Name:          row.Attr("name"),
		ImageURL:      imageURL(row.Attr("imageurl")),
		LargeImageURL: imageURL(row.Attr("largeimageurl")),
		SSD:           row.Attr("ssd"),
		CategoryID:    row.Attr("categoryid"),
		Attributes:    attributesOf(row, unitFields),
	}
	if unit.LargeImageURL == "" {
		unit.LargeImageURL = unit.ImageURL
	}
	return unit
}

// imageURL resolves the size placeholder the upstream leaves in image links.
func imageURL(raw string) string {
	return strings.ReplaceAll(raw, imageSizePlaceholder, "source")
}

func detailFromRow(row protocol.Row) domain.Detail {
	return domain.Detail{
		OEM:         row.Attr("oem"),
		Name:        row.Attr("name"),
		Brand:       row.Attr("brand"),
		CodeOnImage: row.Attr("codeonimage"),
		SSD:         row.Attr("ssd"),
		Attributes:  attributesOf(row, detailFields),
	}
}

func parseDetailRows(section string) []domain.Detail {
	rows := protocol.Rows(section, "row")
	if len(rows) == 0 {
		rows = protocol.Rows(section, "Detail")
	}
	details := make([]domain.Detail, 0, len(rows))
	for _, row := range rows {
		details = append(details, detailFromRow(row))
	}
	return details
}

func parseTextSearch(section string) []domain.Detail {
	return parseDetailRows(section)
}

// categoryUnitDetails decodes the Category > Unit > Detail nesting used by
// quick group details and OEM search.
func categoryUnitDetails(section string) []domain.Category {
	rows := protocol.Rows(section, "Category")
	categories := make([]domain.Category, 0, len(rows))
	for _, c := range rows {
		category := domain.Category{
			CategoryID: c.Attr("categoryid"),
			Name:       c.Attr("name"),
			SSD:        c.Attr("ssd"),
		}
		for _, u := range protocol.Rows(c.Inner, "Unit") {
			unit := unitFromRow(u)
			unit.CategoryID = category.CategoryID
			unit.Attributes = attributesOfUnitOnly(u)
			for _, d := range protocol.Rows(u.Inner, "Detail") {
				unit.Details = append(unit.Details, detailFromRow(d))
			}
			category.Units = append(category.Units, unit)
		}
		categories = append(categories, category)
	}
	return categories
}

// attributesOfUnitOnly keeps a unit's own attribute children, skipping the
// ones that belong to its nested details.
func attributesOfUnitOnly(u protocol.Row) domain.Attributes {
	own := u
	own.Inner = stripRows(u.Inner, "Detail")
	return attributesOf(own, unitFields)
}

func stripRows(inner, tagName string) string {
	for _, r := range protocol.Rows(inner, tagName) {
		if r.Inner != "" {
			inner = strings.Replace(inner, r.Inner, "", 1)
		}
	}
	return inner
}

func parseQuickDetailUnits(section string) []domain.Unit {
	var units []domain.Unit
	for _, category := range categoryUnitDetails(section) {
		units = append(units, category.Units...)
	}
	return units
}

type oemDecodeStrategy func(section string) []domain.Category

// parseOEMSearch tries the typed Category > Unit > Detail shape first and
// falls back to the flat row shape some catalogs answer with.
func parseOEMSearch(section string) []domain.Category {
	for _, decode := range []oemDecodeStrategy{categoryUnitDetails, flatOEMRows} {
		if categories := decode(section); len(categories) > 0 {
			return categories
		}
	}
	return []domain.Category{}
}

func flatOEMRows(section string) []domain.Category {
	rows := protocol.Rows(section, "row")
	if len(rows) == 0 {
		return nil
	}

	var units []domain.Unit
	index := make(map[string]int)
	for _, row := range rows {
		unitID := row.Attr("unitid")
		i, ok := index[unitID]
		if !ok {
			i = len(units)
			index[unitID] = i
			units = append(units, domain.Unit{
				UnitID:   unitID,
				Code:     row.Attr("unitcode"),
				Name:     row.Attr("unitname"),
				ImageURL: imageURL(row.Attr("imageurl")),
				SSD:      row.Attr("unitssd"),
			})
		}
		units[i].Details = append(units[i].Details, detailFromRow(row))
	}

	return []domain.Category{{Units: units}}
}

func parseImageMap(section string) []domain.ImageCoordinate {
	rows := protocol.Rows(section, "row")
	coords := make([]domain.ImageCoordinate, 0, len(rows))
	for _, row := range rows {
		coord := domain.ImageCoordinate{
			Code:  row.Attr("code"),
			Shape: domain.ShapeRect,
		}
		if strings.Contains(strings.ToLower(row.Attr("type")), "circle") {
			coord.Shape = domain.ShapeCircle
		}

		if _, hasWidth := row.Attrs["width"]; hasWidth {
			coord.X = atoi(row.Attr("x"))
			coord.Y = atoi(row.Attr("y"))
			coord.Width = atoi(row.Attr("width"))
			coord.Height = atoi(row.Attr("height"))
		} else {
			x1, y1 := atoi(row.Attr("x1")), atoi(row.Attr("y1"))
			x2, y2 := atoi(row.Attr("x2")), atoi(row.Attr("y2"))
			coord.X, coord.Y = min(x1, x2), min(y1, y2)
			coord.Width, coord.Height = abs(x2-x1), abs(y2-y1)
		}
		coords = append(coords, coord)
	}
	return coords
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
