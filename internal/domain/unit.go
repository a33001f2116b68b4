package domain

type Detail struct {
	OEM         string     `json:"oem"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand,omitempty"`
	CodeOnImage string     `json:"code_on_image,omitempty"`
	SSD         string     `json:"ssd,omitempty"`
	Attributes  Attributes `json:"attributes,omitempty"`
}

type Unit struct {
	UnitID        string     `json:"unit_id"`
	Code          string     `json:"code,omitempty"`
	Name          string     `json:"name"`
	ImageURL      string     `json:"image_url,omitempty"`
	LargeImageURL string     `json:"large_image_url,omitempty"`
	SSD           string     `json:"ssd,omitempty"`
	CategoryID    string     `json:"category_id,omitempty"`
	Attributes    Attributes `json:"attributes,omitempty"`
	Details       []Detail   `json:"details,omitempty"`
}

type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	SSD        string `json:"ssd,omitempty"`
	Units      []Unit `json:"units"`
}

type QuickGroupDetails struct {
	Units []Unit `json:"units"`
}

type OEMSearchResult struct {
	Categories []Category `json:"categories"`
}

// TextSearchResult carries the query variant that produced the hits.
type TextSearchResult struct {
	Query       string   `json:"query"`
	CatalogWide bool     `json:"catalog_wide"`
	Details     []Detail `json:"details"`
}

type ShapeKind string

const (
	ShapeRect   ShapeKind = "rect"
	ShapeCircle ShapeKind = "circle"
)

// ImageCoordinate is a diagram hot-spot for the detail printed as Code on the unit image.
type ImageCoordinate struct {
	Code   string    `json:"code"`
	Shape  ShapeKind `json:"shape"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// UnitBundle is a unit with its details and diagram overlay. Any part may be missing.
type UnitBundle struct {
	Unit     *Unit             `json:"unit,omitempty"`
	Details  []Detail          `json:"details,omitempty"`
	ImageMap []ImageCoordinate `json:"image_map,omitempty"`
}

// Hotspots returns the image map regions drawn for the detail printed as code.
func (b *UnitBundle) Hotspots(code string) []ImageCoordinate {
	var regions []ImageCoordinate
	for _, c := range b.ImageMap {
		if c.Code == code {
			regions = append(regions, c)
		}
	}
	return regions
}
