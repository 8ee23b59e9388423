package dataset

import (
	"strconv"
	"strings"

	"fidash/pkg/contracts/domain"
)

// Column names of the unified table
const (
	ColRecordType      = "record_type"
	ColObservationDate = "observation_date"
	ColIndicatorCode   = "indicator_code"
	ColIndicator       = "indicator"
	ColPillar          = "pillar"
	ColGender          = "gender"
	ColUnit            = "unit"
	ColValueNumeric    = "value_numeric"
)

// UnifiedColumns must be present in the unified table
var UnifiedColumns = []string{
	ColRecordType,
	ColObservationDate,
	ColIndicatorCode,
	ColPillar,
	ColGender,
	ColUnit,
	ColValueNumeric,
}

// Partition splits the unified table into observations and events. Rows with
// any other record_type belong to neither slice. The table is not modified;
// each record keeps its own copy of the original cells.
func Partition(t Table) (observations, events []domain.Record) {
	idx := newColumnIndex(t)
	for _, row := range t.Rows {
		rec := idx.record(row)
		switch rec.RecordType {
		case domain.RecordTypeObservation:
			observations = append(observations, rec)
		case domain.RecordTypeEvent:
			events = append(events, rec)
		}
	}
	return observations, events
}

type columnIndex struct {
	recordType, date, code, name, pillar, gender, unit, value int
}

func newColumnIndex(t Table) columnIndex {
	return columnIndex{
		recordType: t.Index(ColRecordType),
		date:       t.Index(ColObservationDate),
		code:       t.Index(ColIndicatorCode),
		name:       t.Index(ColIndicator),
		pillar:     t.Index(ColPillar),
		gender:     t.Index(ColGender),
		unit:       t.Index(ColUnit),
		value:      t.Index(ColValueNumeric),
	}
}

func (c columnIndex) record(row []string) domain.Record {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	fields := make([]string, len(row))
	copy(fields, row)

	rec := domain.Record{
		RecordType:      domain.RecordType(strings.ToLower(cell(c.recordType))),
		ObservationDate: cell(c.date),
		IndicatorCode:   cell(c.code),
		Indicator:       cell(c.name),
		Pillar:          domain.Pillar(strings.ToUpper(cell(c.pillar))),
		Gender:          domain.Gender(strings.ToLower(cell(c.gender))),
		Unit:            cell(c.unit),
		Value:           parseValue(cell(c.value)),
		Fields:          fields,
	}
	if y, ok := ParseYear(rec.ObservationDate); ok {
		rec.Year = &y
	}
	return rec
}

// parseValue returns nil for blank and placeholder cells
func parseValue(s string) *float64 {
	switch strings.ToLower(s) {
	case "", "-", "n/a", "na", "nan", "null":
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}
