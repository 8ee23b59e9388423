package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fidash/internal/config"
	"fidash/internal/dataset"
	"fidash/internal/dataset/testutil"
	"fidash/pkg/contracts/domain"
)

// run executes fictl against the fixture tables
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := filepath.Dir(testutil.WriteFixtures(t).Unified)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSummary(t *testing.T) {
	out, err := run(t, "summary")
	require.NoError(t, err)

	assert.Regexp(t, `records\s+33`, out)
	assert.Regexp(t, `observations\s+22`, out)
	assert.Regexp(t, `events\s+10`, out)
	assert.Regexp(t, `years\s+2011-2025`, out)
	assert.Contains(t, out, "ACCESS, USAGE, GENDER, AFFORDABILITY")
}

func TestSummary_MissingData(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data-dir", t.TempDir(), "summary"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestTrends(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		rows    int
		wantErr string
	}{
		{name: "defaults", args: []string{"trends"}, rows: 9},
		{name: "narrow", args: []string{"trends", "--pillar", "access", "--from", "2021", "--to", "2024"}, rows: 3},
		{name: "unknown pillar", args: []string{"trends", "--pillar", "WEALTH"}, wantErr: "unknown pillar"},
		{name: "inverted range", args: []string{"trends", "--from", "2024", "--to", "2014"}, wantErr: "is after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			table, err := dataset.ReadTable(strings.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, []string{"indicator_code", "year", "pillar", "value", "count"}, table.Header)
			assert.Len(t, table.Rows, tt.rows)
		})
	}
}

func TestTrendsQuery(t *testing.T) {
	defaults := config.Default().Dashboard

	q, err := trendsQuery(defaults, []string{" gender "}, 0, 2020, false, true)
	require.NoError(t, err)
	assert.Equal(t, []domain.Pillar{domain.PillarGender}, q.Pillars)
	assert.Equal(t, 2011, q.From)
	assert.Equal(t, 2020, q.To)
}

func TestExport(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		file    string
		wantErr bool
	}{
		{name: "observations csv", args: []string{"--table", "observations"}, file: "obs.csv"},
		{name: "forecast xlsx", args: []string{"--table", "forecast", "--format", "XLSX"}, file: "forecast.xlsx"},
		{name: "workbook", args: []string{"--table", "all", "--format", "xlsx"}, file: "all.xlsx"},
		{name: "unknown table", args: []string{"--table", "prices"}, file: "prices.csv", wantErr: true},
		{name: "workbook as csv", args: []string{"--table", "all"}, file: "all.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			out, err := run(t, append([]string{"export", "--out", path}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.NoFileExists(t, path)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "wrote "+path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			if strings.HasSuffix(tt.file, ".xlsx") {
				f, err := excelize.OpenReader(bytes.NewReader(data))
				require.NoError(t, err)
				defer f.Close()
				assert.NotEmpty(t, f.GetSheetList())
				return
			}
			table, err := dataset.ReadTable(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Len(t, table.Rows, 22)
		})
	}
}
