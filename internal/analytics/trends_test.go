package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fidash/pkg/contracts/domain"
)

// obs builds a dated observation; year 0 means undated and a nil value means blank
func obs(code string, pillar domain.Pillar, year int, value *float64) domain.Record {
	r := domain.Record{
		RecordType:    domain.RecordTypeObservation,
		IndicatorCode: code,
		Pillar:        pillar,
		Gender:        domain.GenderAll,
		Unit:          domain.UnitPercent,
		Value:         value,
	}
	if year != 0 {
		r.Year = domain.Int(year)
	}
	return r
}

func defaultQuery() TrendQuery {
	return TrendQuery{
		Pillars: NewPillarSet(domain.PillarAccess, domain.PillarUsage),
		MinYear: 2011,
		MaxYear: 2025,
		Unit:    domain.UnitPercent,
	}
}

func TestFilter(t *testing.T) {
	ratio := obs("USG_P2P_ATM_RATIO", domain.PillarUsage, 2024, domain.Float(1.08))
	ratio.Unit = "ratio"

	records := []domain.Record{
		obs("ACC_OWNERSHIP", domain.PillarAccess, 2011, domain.Float(14)),
		obs("ACC_OWNERSHIP", domain.PillarAccess, 2010, domain.Float(10)),
		obs("ACC_OWNERSHIP", domain.PillarAccess, 2026, domain.Float(70)),
		obs("ACC_OWNERSHIP", domain.PillarAccess, 0, domain.Float(9)),
		obs("AFF_DATA_SHARE", domain.PillarAffordability, 2022, domain.Float(4.2)),
		obs("USG_DIGITAL_PAYMENT", domain.PillarUsage, 2025, domain.Float(35)),
		ratio,
	}

	filtered := Filter(records, defaultQuery())
	require.Len(t, filtered, 2)
	assert.Equal(t, 2011, *filtered[0].Year)
	assert.Equal(t, 2025, *filtered[1].Year)

	for _, r := range filtered {
		require.NotNil(t, r.Year)
		assert.GreaterOrEqual(t, *r.Year, 2011)
		assert.LessOrEqual(t, *r.Year, 2025)
		assert.Equal(t, domain.UnitPercent, r.Unit)
	}
}

func TestFilterAndAggregate(t *testing.T) {
	records := []domain.Record{
		obs("USG_DIGITAL_PAYMENT", domain.PillarUsage, 2024, domain.Float(10)),
		obs("ACC_OWNERSHIP", domain.PillarAccess, 2021, domain.Float(46)),
		obs("USG_DIGITAL_PAYMENT", domain.PillarUsage, 2024, domain.Float(20)),
		obs("USG_DIGITAL_PAYMENT", domain.PillarUsage, 2024, nil),
		obs("ACC_MM_ACCOUNT", domain.PillarAccess, 2021, nil),
		obs("ACC_OWNERSHIP", domain.PillarGender, 2021, domain.Float(56)),
	}

	tests := []struct {
		name  string
		query TrendQuery
		want  []TrendPoint
	}{
		{
			name:  "mean excludes blank values and groups in first appearance order",
			query: defaultQuery(),
			want: []TrendPoint{
				{IndicatorCode: "USG_DIGITAL_PAYMENT", Year: 2024, Pillar: domain.PillarUsage, Mean: 15, Count: 2},
				{IndicatorCode: "ACC_OWNERSHIP", Year: 2021, Pillar: domain.PillarAccess, Mean: 46, Count: 1},
			},
		},
		{
			name: "pillar is part of the group key",
			query: TrendQuery{
				Pillars: NewPillarSet(domain.PillarAccess, domain.PillarGender),
				MinYear: 2021, MaxYear: 2021, Unit: domain.UnitPercent,
			},
			want: []TrendPoint{
				{IndicatorCode: "ACC_OWNERSHIP", Year: 2021, Pillar: domain.PillarAccess, Mean: 46, Count: 1},
				{IndicatorCode: "ACC_OWNERSHIP", Year: 2021, Pillar: domain.PillarGender, Mean: 56, Count: 1},
			},
		},
		{
			name:  "empty pillar set",
			query: TrendQuery{Pillars: NewPillarSet(), MinYear: 2011, MaxYear: 2025, Unit: domain.UnitPercent},
			want:  []TrendPoint{},
		},
		{
			name:  "unit mismatch",
			query: TrendQuery{Pillars: NewPillarSet(domain.PillarUsage), MinYear: 2011, MaxYear: 2025, Unit: "millions"},
			want:  []TrendPoint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndAggregate(records, tt.query)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterAndAggregateGroupsPartitionInput(t *testing.T) {
	records := []domain.Record{
		obs("A", domain.PillarAccess, 2015, domain.Float(1)),
		obs("A", domain.PillarAccess, 2015, domain.Float(3)),
		obs("A", domain.PillarAccess, 2016, domain.Float(5)),
		obs("B", domain.PillarUsage, 2015, domain.Float(7)),
		obs("B", domain.PillarUsage, 2015, domain.Float(9)),
	}

	points := FilterAndAggregate(records, defaultQuery())

	total := 0
	seen := make(map[groupKey]bool)
	for _, p := range points {
		k := groupKey{code: p.IndicatorCode, year: p.Year, pillar: p.Pillar}
		assert.False(t, seen[k], "duplicate group %+v", k)
		seen[k] = true
		total += p.Count
	}
	assert.Equal(t, len(Filter(records, defaultQuery())), total)
}

func TestFilterAndAggregateIdempotent(t *testing.T) {
	records := []domain.Record{
		obs("A", domain.PillarAccess, 2015, domain.Float(1)),
		obs("B", domain.PillarUsage, 2018, domain.Float(2)),
		obs("A", domain.PillarAccess, 2015, domain.Float(4)),
	}
	snapshot := append([]domain.Record(nil), records...)

	first := FilterAndAggregate(records, defaultQuery())
	second := FilterAndAggregate(records, defaultQuery())

	assert.ElementsMatch(t, first, second)
	assert.Equal(t, snapshot, records)
}

func TestSortPoints(t *testing.T) {
	points := []TrendPoint{
		{IndicatorCode: "B", Year: 2015, Pillar: domain.PillarUsage},
		{IndicatorCode: "A", Year: 2017, Pillar: domain.PillarAccess},
		{IndicatorCode: "A", Year: 2015, Pillar: domain.PillarUsage},
		{IndicatorCode: "A", Year: 2015, Pillar: domain.PillarAccess},
	}

	SortPoints(points)

	assert.Equal(t, []TrendPoint{
		{IndicatorCode: "A", Year: 2015, Pillar: domain.PillarAccess},
		{IndicatorCode: "A", Year: 2015, Pillar: domain.PillarUsage},
		{IndicatorCode: "A", Year: 2017, Pillar: domain.PillarAccess},
		{IndicatorCode: "B", Year: 2015, Pillar: domain.PillarUsage},
	}, points)
	assert.Equal(t, []string{"A", "B"}, Indicators(points))
}
