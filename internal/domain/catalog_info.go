package domain

type CatalogFeature struct {
	Name    string `json:"name"`
	Example string `json:"example,omitempty"`
}

// Feature names reported by GetCatalogInfo.
const (
	FeatureVINSearch    = "vinsearch"
	FeatureFrameSearch  = "framesearch"
	FeaturePlateSearch  = "platesearch"
	FeatureQuickGroups  = "quickgroups"
	FeatureWizardSearch = "wizardsearch2"
	FeatureApplicable   = "detailapplicability"
)

// CatalogInfo is per-brand metadata of one catalog.
type CatalogInfo struct {
	Code         string           `json:"code"`
	Brand        string           `json:"brand"`
	Name         string           `json:"name"`
	Icon         string           `json:"icon,omitempty"`
	VINExample   string           `json:"vin_example,omitempty"`
	FrameExample string           `json:"frame_example,omitempty"`
	Features     []CatalogFeature `json:"features,omitempty"`
	Permissions  []string         `json:"permissions,omitempty"`

	SupportVINSearch               bool `json:"support_vin_search"`
	SupportFrameSearch             bool `json:"support_frame_search"`
	SupportPlateSearch             bool `json:"support_plate_search"`
	SupportQuickGroups             bool `json:"support_quick_groups"`
	SupportParameterIdentification bool `json:"support_parameter_identification"`
	SupportDetailApplicability     bool `json:"support_detail_applicability"`
}

// HasFeature reports whether the catalog lists the named feature.
func (c *CatalogInfo) HasFeature(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}
