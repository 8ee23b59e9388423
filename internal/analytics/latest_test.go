package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fidash/pkg/contracts/domain"
)

func ownership(year int, value float64, gender domain.Gender) domain.Record {
	r := obs("ACC_OWNERSHIP", domain.PillarAccess, year, domain.Float(value))
	r.Gender = gender
	return r
}

func TestLatestAndPrevious(t *testing.T) {
	// deliberately out of order
	records := []domain.Record{
		ownership(2017, 35, domain.GenderAll),
		ownership(2024, 49, domain.GenderAll),
		ownership(2011, 14, domain.GenderAll),
		ownership(2021, 46, domain.GenderAll),
		ownership(2014, 22, domain.GenderAll),
		ownership(2024, 58, domain.GenderMale),
	}

	current, previous := LatestAndPrevious(records, "ACC_OWNERSHIP", domain.GenderAll)
	require.NotNil(t, current)
	require.NotNil(t, previous)
	assert.Equal(t, 49.0, *current)
	assert.Equal(t, 46.0, *previous)
}

func TestLatestAndPreviousEdgeCases(t *testing.T) {
	undated := ownership(0, 99, domain.GenderAll)

	tests := []struct {
		name         string
		records      []domain.Record
		wantCurrent  *float64
		wantPrevious *float64
	}{
		{"no rows", nil, nil, nil},
		{"single row", []domain.Record{ownership(2021, 46, domain.GenderAll)}, domain.Float(46), nil},
		{"undated row never latest", []domain.Record{ownership(2021, 46, domain.GenderAll), undated}, domain.Float(46), domain.Float(99)},
		{"other gender ignored", []domain.Record{ownership(2024, 38, domain.GenderFemale)}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, previous := LatestAndPrevious(tt.records, "ACC_OWNERSHIP", domain.GenderAll)
			assert.Equal(t, tt.wantCurrent, current)
			assert.Equal(t, tt.wantPrevious, previous)
		})
	}
}

func TestLatestAndPreviousDoesNotAliasInput(t *testing.T) {
	records := []domain.Record{ownership(2024, 49, domain.GenderAll)}

	current, _ := LatestAndPrevious(records, "ACC_OWNERSHIP", domain.GenderAll)
	*current = 0

	assert.Equal(t, 49.0, *records[0].Value)
}

func TestLatestPair(t *testing.T) {
	records := []domain.Record{
		ownership(2021, 46, domain.GenderAll),
		ownership(2024, 47, domain.GenderAll),
		ownership(2024, 49, domain.GenderAll),
	}

	latest, previous := LatestPair(records, "ACC_OWNERSHIP", domain.GenderAll)
	require.NotNil(t, latest)
	require.NotNil(t, previous)
	assert.Equal(t, 49.0, *latest.Value)
	assert.Equal(t, 47.0, *previous.Value)
	assert.Equal(t, 2024, *previous.Year, "both values come from the same survey year")

	latest, previous = LatestPair(records, "USG_DIGITAL_PAYMENT", domain.GenderAll)
	assert.Nil(t, latest)
	assert.Nil(t, previous)
}
