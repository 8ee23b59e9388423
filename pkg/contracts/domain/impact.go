package domain

// ImpactMatrix is the event-to-indicator impact table. The first header cell
// names the event column; the rest are indicator codes.
type ImpactMatrix struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Indicators returns the indicator columns of the matrix
func (m ImpactMatrix) Indicators() []string {
	if len(m.Header) < 2 {
		return nil
	}
	return m.Header[1:]
}

// EventImpact is an event ranked by the summed magnitude of its impacts
type EventImpact struct {
	Event string  `json:"event"`
	Total float64 `json:"total"`
}
