package domain

// Attribute is a single named value attached to a vehicle, unit or detail.
// The upstream key set is open, so records keep them as an ordered bag.
type Attribute struct {
	Key   string `json:"key"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// Attributes is an ordered attribute bag with tolerant lookup.
type Attributes []Attribute

// Get returns the value stored under key, or "" when it is missing.
func (a Attributes) Get(key string) string {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

type Vehicle struct {
	Catalog    string     `json:"catalog"`
	VehicleID  string     `json:"vehicle_id"`
	Brand      string     `json:"brand,omitempty"`
	Name       string     `json:"name"`
	SSD        string     `json:"ssd,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// WizardOption is one selectable value of a wizard step. Key is the ssd to
// replay when the option is chosen.
type WizardOption struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type WizardStep struct {
	ConditionID       string         `json:"condition_id"`
	Name              string         `json:"name"`
	Type              string         `json:"type"`
	Determined        bool           `json:"determined"`
	Automatic         bool           `json:"automatic"`
	AllowListVehicles bool           `json:"allow_list_vehicles"`
	Value             string         `json:"value,omitempty"`
	SSD               string         `json:"ssd,omitempty"`
	Options           []WizardOption `json:"options,omitempty"`
}

// PartVehicles groups the vehicles of one catalog that a part number applies to.
type PartVehicles struct {
	Catalog  string    `json:"catalog"`
	Brand    string    `json:"brand,omitempty"`
	Name     string    `json:"name,omitempty"`
	Vehicles []Vehicle `json:"vehicles"`
}

type PartVehicleSearch struct {
	OEM           string         `json:"oem"`
	Catalogs      []PartVehicles `json:"catalogs"`
	TotalVehicles int            `json:"total_vehicles"`
}
