package services

import (
	"fmt"

	"fidash/internal/analytics"
	"fidash/pkg/contracts/domain"
)

// MetricCard is one headline figure of the overview page
type MetricCard struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta"`
	// Inverse marks cards where a falling value is good news
	Inverse bool `json:"inverse"`
	// FromData is false when the value is the built-in fallback
	FromData bool `json:"from_data"`
}

// cardDef describes how a card is filled from the observations. When
// previous is set the delta is computed as a change in percentage points
// against the year of the previous row, or previousYear for the fallback;
// otherwise note is shown as is.
type cardDef struct {
	key          string
	label        string
	code         string
	format       string
	fallback     float64
	previous     *float64
	previousYear int
	delta        string
	note         string
}

var cardDefs = []cardDef{
	{key: "ownership", label: "Account Ownership", code: OwnershipCode, format: "%.0f%%", fallback: 49, previous: domain.Float(46), previousYear: 2021, delta: "%+.0fpp"},
	{key: "digital_payment", label: "Digital Payment Usage", code: "USG_DIGITAL_PAYMENT", format: "%.0f%%", fallback: 35, previous: domain.Float(28), previousYear: 2021, delta: "%+.0fpp"},
	{key: "p2p_atm_ratio", label: "P2P/ATM Crossover Ratio", code: "USG_P2P_ATM_RATIO", format: "%.2fx", fallback: 1.08, note: "Historic First!"},
	{key: "telebirr_users", label: "Telebirr Users", code: "USG_TELEBIRR_USERS", format: "%.1fM", fallback: 54.8, note: "+45% YoY"},
	{key: "mpesa_users", label: "M-Pesa Users", code: "USG_MPESA_USERS", format: "%.1fM", fallback: 10.8, note: "2+ years in market"},
	{key: "4g_coverage", label: "4G Coverage", code: "ACC_4G_COVERAGE", format: "%.1f%%", fallback: 70.8, previous: domain.Float(37.5), previousYear: 2023, delta: "%+.1fpp"},
}

// gender gap fallback: male and female ownership of the latest survey
const (
	fallbackMale   = 56.0
	fallbackFemale = 36.0
)

func (s *DashboardService) cards(observations []domain.Record) []MetricCard {
	cards := make([]MetricCard, 0, len(cardDefs)+2)
	for _, def := range cardDefs {
		cards = append(cards, def.build(observations))
	}
	cards = append(cards, genderGapCard(observations), s.targetCard(observations))
	return cards
}

func (d cardDef) build(observations []domain.Record) MetricCard {
	card := MetricCard{Key: d.key, Label: d.label, Delta: d.note}

	latest, earlier := analytics.LatestPair(observations, d.code, domain.GenderAll)
	value := d.fallback
	if latest != nil && latest.Value != nil {
		value = *latest.Value
		card.FromData = true
	}
	card.Value = fmt.Sprintf(d.format, value)

	if d.previous == nil {
		return card
	}
	prev, year := *d.previous, d.previousYear
	if earlier != nil && earlier.Value != nil {
		prev, year = *earlier.Value, 0
		if earlier.Year != nil {
			year = *earlier.Year
		}
	}
	card.Delta = fmt.Sprintf(d.delta, value-prev)
	if year != 0 {
		card.Delta += fmt.Sprintf(" vs %d", year)
	}
	return card
}

func genderGapCard(observations []domain.Record) MetricCard {
	male, female := fallbackMale, fallbackFemale
	fromData := false
	if gap := analytics.GenderGap(observations, OwnershipCode); len(gap) > 0 {
		last := gap[len(gap)-1]
		male, female = last.Male, last.Female
		fromData = true
	}
	return MetricCard{
		Key:      "gender_gap",
		Label:    "Gender Gap",
		Value:    fmt.Sprintf("%.0fpp", male-female),
		Delta:    fmt.Sprintf("%.0f%% M vs %.0f%% F", male, female),
		Inverse:  true,
		FromData: fromData,
	}
}

func (s *DashboardService) targetCard(observations []domain.Record) MetricCard {
	ownership := cardDefs[0].fallback
	current, _ := analytics.LatestAndPrevious(observations, OwnershipCode, domain.GenderAll)
	if current != nil {
		ownership = *current
	}
	return MetricCard{
		Key:      "nfis_target",
		Label:    "NFIS-II Target",
		Value:    fmt.Sprintf("%.0f%%", s.cfg.Target),
		Delta:    fmt.Sprintf("%+.0fpp gap", ownership-s.cfg.Target),
		Inverse:  true,
		FromData: current != nil,
	}
}
