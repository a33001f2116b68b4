package domain

type AftermarketDetail struct {
	DetailID       string     `json:"detail_id"`
	ManufacturerID string     `json:"manufacturer_id,omitempty"`
	Manufacturer   string     `json:"manufacturer"`
	OEM            string     `json:"oem"`
	FormattedOEM   string     `json:"formatted_oem,omitempty"`
	Name           string     `json:"name"`
	Weight         string     `json:"weight,omitempty"`
	Volume         string     `json:"volume,omitempty"`
	Dimensions     string     `json:"dimensions,omitempty"`
	Properties     Attributes `json:"properties,omitempty"`
}

// Replacement is one edge of the cross-reference graph. Rate is nil when
// the upstream did not report one.
type Replacement struct {
	Type   string            `json:"type"`
	Way    string            `json:"way"`
	Rate   *float64          `json:"rate,omitempty"`
	Detail AftermarketDetail `json:"detail"`
}

type CrossReference struct {
	Detail       AftermarketDetail `json:"detail"`
	Replacements []Replacement     `json:"replacements"`
}

type CrossReferenceResult struct {
	Details []CrossReference `json:"details"`
}
