// Package record defines the catalog records loaded from data collections.
package record

// Report is a dated medical document (imaging study, pathology result,
// letter). IDs are unique across every category.
type Report struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Date        string   `json:"date"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	Body        string   `json:"body,omitempty"`
	Facility    string   `json:"facility,omitempty"`
	Physician   string   `json:"physician,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Label returns the title, falling back to the id.
func (r Report) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

// LabPanel is one blood draw with its results.
type LabPanel struct {
	Date    string      `json:"date"`
	Name    string      `json:"name"`
	Results []LabResult `json:"results"`
}

// LabResult is a single analyte within a panel.
type LabResult struct {
	Test  string  `json:"test"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Range string  `json:"range,omitempty"`
	Flag  string  `json:"flag,omitempty"`
}

// Flagged reports whether the lab marked the value out of range.
func (r LabResult) Flagged() bool {
	switch r.Flag {
	case "", "N", "n", "normal":
		return false
	default:
		return true
	}
}

// Reading is a blood pressure and weight measurement.
type Reading struct {
	Date      string  `json:"date"`
	Systolic  int     `json:"systolic,omitempty"`
	Diastolic int     `json:"diastolic,omitempty"`
	Pulse     int     `json:"pulse,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// HasPressure reports whether both pressure values were recorded.
func (r Reading) HasPressure() bool {
	return r.Systolic > 0 && r.Diastolic > 0
}

// Medication actions.
const (
	ActionStart  = "start"
	ActionChange = "change"
	ActionStop   = "stop"
)

// MedicationEvent records a medication being started, changed or stopped.
type MedicationEvent struct {
	Date   string `json:"date"`
	Drug   string `json:"drug"`
	Dose   string `json:"dose,omitempty"`
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

// Patient holds the summary shown on the overview.
type Patient struct {
	Name       string   `json:"name"`
	Born       string   `json:"born,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	Allergies  []string `json:"allergies,omitempty"`
}
