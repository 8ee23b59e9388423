package domain

// RecordType discriminates the rows of the unified data table
type RecordType string

const (
	RecordTypeObservation RecordType = "observation"
	RecordTypeEvent       RecordType = "event"
)

// Pillar is the thematic category of an indicator
type Pillar string

const (
	PillarAccess        Pillar = "ACCESS"
	PillarUsage         Pillar = "USAGE"
	PillarGender        Pillar = "GENDER"
	PillarAffordability Pillar = "AFFORDABILITY"
)

// AllPillars lists the pillars in display order
var AllPillars = []Pillar{PillarAccess, PillarUsage, PillarGender, PillarAffordability}

// Valid reports whether p is one of the known pillars
func (p Pillar) Valid() bool {
	switch p {
	case PillarAccess, PillarUsage, PillarGender, PillarAffordability:
		return true
	}
	return false
}

// Gender is the demographic disaggregation of an observation
type Gender string

const (
	GenderAll    Gender = "all"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// UnitPercent is the only unit the dashboard charts
const UnitPercent = "%"

// Record is one row of the unified data table. Fields keeps the original
// cells in header order so a record can be written back unchanged.
type Record struct {
	RecordType      RecordType `json:"record_type"`
	ObservationDate string     `json:"observation_date"`
	IndicatorCode   string     `json:"indicator_code"`
	Indicator       string     `json:"indicator,omitempty"`
	Pillar          Pillar     `json:"pillar"`
	Gender          Gender     `json:"gender"`
	Unit            string     `json:"unit"`
	Value           *float64   `json:"value_numeric"`
	Year            *int       `json:"year"`
	Fields          []string   `json:"-"`
}

// HasYear reports whether the observation date could be parsed
func (r Record) HasYear() bool {
	return r.Year != nil
}

// DisplayName returns the indicator name, falling back to the code
func (r Record) DisplayName() string {
	if r.Indicator != "" {
		return r.Indicator
	}
	return r.IndicatorCode
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int) *int {
	return &v
}
