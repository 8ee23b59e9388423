package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fidash/pkg/contracts/domain"
)

func event(name string, year int) domain.Record {
	r := domain.Record{RecordType: domain.RecordTypeEvent, Indicator: name, Pillar: domain.PillarUsage}
	if year != 0 {
		r.Year = domain.Int(year)
	}
	return r
}

func TestCountRecordTypes(t *testing.T) {
	counts := CountRecordTypes([]string{"observation", "event", "Observation", "target", "event", "observation"})
	assert.Equal(t, []TypeCount{
		{RecordType: "observation", Count: 3},
		{RecordType: "event", Count: 2},
		{RecordType: "target", Count: 1},
	}, counts)
}

func TestRecentEvents(t *testing.T) {
	events := []domain.Record{
		event("Telebirr Launch", 2021),
		event("Undated", 0),
		event("", 2025),
		event("M-Pesa Launch", 2023),
		event("Fayda Rollout", 2024),
		event("CBE Birr", 2017),
	}

	assert.Equal(t, []EventItem{
		{Indicator: "Fayda Rollout", Year: 2024},
		{Indicator: "M-Pesa Launch", Year: 2023},
		{Indicator: "Telebirr Launch", Year: 2021},
	}, RecentEvents(events, 3))

	assert.Len(t, RecentEvents(events, 8), 4)
}

func TestYearRange(t *testing.T) {
	first, last, ok := YearRange(
		[]domain.Record{obs("A", domain.PillarAccess, 2014, nil), obs("A", domain.PillarAccess, 0, nil)},
		[]domain.Record{event("x", 2011), event("y", 2025)},
	)
	assert.True(t, ok)
	assert.Equal(t, 2011, first)
	assert.Equal(t, 2025, last)

	_, _, ok = YearRange(nil)
	assert.False(t, ok)
}

func TestPillars(t *testing.T) {
	records := []domain.Record{
		obs("A", domain.PillarUsage, 2014, nil),
		obs("B", domain.PillarAffordability, 2014, nil),
		obs("C", domain.PillarUsage, 2014, nil),
		obs("D", "OTHER", 2014, nil),
	}
	assert.Equal(t, []domain.Pillar{domain.PillarUsage, domain.PillarAffordability}, Pillars(records))
}

func TestGenderGap(t *testing.T) {
	var records []domain.Record
	for _, row := range []struct {
		year         int
		male, female float64
	}{{2017, 40, 30}, {2021, 56, 36}, {2024, 58, 38}} {
		records = append(records, ownership(row.year, row.male, domain.GenderMale), ownership(row.year, row.female, domain.GenderFemale))
	}
	records = append(records, ownership(2011, 20, domain.GenderMale))

	assert.Equal(t, []GenderPoint{
		{Year: 2017, Male: 40, Female: 30, Gap: 10},
		{Year: 2021, Male: 56, Female: 36, Gap: 20},
		{Year: 2024, Male: 58, Female: 38, Gap: 20},
	}, GenderGap(records, "ACC_OWNERSHIP"))
}

func TestSeries(t *testing.T) {
	records := []domain.Record{
		ownership(2024, 49, domain.GenderAll),
		ownership(2011, 14, domain.GenderAll),
		ownership(2011, 16, domain.GenderAll),
		ownership(0, 99, domain.GenderAll),
	}
	assert.Equal(t, []SeriesPoint{{Year: 2011, Value: 15}, {Year: 2024, Value: 49}},
		Series(records, "ACC_OWNERSHIP", domain.GenderAll))
}
