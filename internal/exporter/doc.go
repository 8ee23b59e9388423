// Package exporter writes the dashboard tables back out as CSV or Excel.
//
// Table is the shared shape: a header row plus string records. The loaded
// observation, forecast and impact tables keep their original cells, so a
// CSV export of them can be read again by the dataset loader unchanged.
//
// Example usage:
//
//	table := exporter.ObservationsTable(snap.Unified.Header, records)
//	err := exporter.NewCSVWriter().WriteCSV(w, exporter.WriteOptions{
//	    Headers: table.Headers,
//	    Records: table.Records,
//	})
//
//	err = exporter.WriteXLSX(w, table)
package exporter
