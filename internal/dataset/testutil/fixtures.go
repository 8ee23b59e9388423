// Package testutil writes small but realistic source tables for tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fidash/internal/dataset"
)

// UnifiedCSV is a unified table with observations, events, one undated row
// and one row of an unknown record type.
const UnifiedCSV = `record_type,observation_date,indicator_code,indicator,pillar,gender,unit,value_numeric,source_name
observation,2011-12-31,ACC_OWNERSHIP,Account Ownership Rate,ACCESS,all,%,14,Global Findex
observation,2014-12-31,ACC_OWNERSHIP,Account Ownership Rate,ACCESS,all,%,22,Global Findex
observation,2017-12-31,ACC_OWNERSHIP,Account Ownership Rate,ACCESS,all,%,35,Global Findex
observation,2021-12-31,ACC_OWNERSHIP,Account Ownership Rate,ACCESS,all,%,46,Global Findex
observation,2024-11-29,ACC_OWNERSHIP,Account Ownership Rate,ACCESS,all,%,49,Global Findex
observation,2017-12-31,ACC_OWNERSHIP,Account Ownership Rate,GENDER,male,%,40,Global Findex
observation,2021-12-31,ACC_OWNERSHIP,Account Ownership Rate,GENDER,male,%,56,Global Findex
observation,2024-11-29,ACC_OWNERSHIP,Account Ownership Rate,GENDER,male,%,58,Global Findex
observation,2017-12-31,ACC_OWNERSHIP,Account Ownership Rate,GENDER,female,%,30,Global Findex
observation,2021-12-31,ACC_OWNERSHIP,Account Ownership Rate,GENDER,female,%,36,Global Findex
observation,2024-11-29,ACC_OWNERSHIP,Account Ownership Rate,GENDER,female,%,38,Global Findex
observation,2021-12-31,USG_DIGITAL_PAYMENT,Made or Received Digital Payment,USAGE,all,%,28,Global Findex
observation,2024-11-29,USG_DIGITAL_PAYMENT,Made or Received Digital Payment,USAGE,all,%,35,Global Findex
observation,2019-06-30,USG_DIGITAL_PAYMENT,Made or Received Digital Payment,USAGE,all,%,,Operator Report
observation,2023-06-30,ACC_4G_COVERAGE,4G Population Coverage,ACCESS,all,%,37.5,Ethio Telecom
observation,2025-06-30,ACC_4G_COVERAGE,4G Population Coverage,ACCESS,all,%,70.8,Ethio Telecom
observation,2024-07-07,USG_P2P_ATM_RATIO,P2P to ATM Transaction Ratio,USAGE,all,ratio,1.08,NBE
observation,2025-06-30,USG_TELEBIRR_USERS,Telebirr Registered Users,USAGE,all,millions,54.8,Ethio Telecom
observation,2025-06-30,USG_MPESA_USERS,M-Pesa Registered Users,USAGE,all,millions,10.8,Safaricom Ethiopia
observation,2024-12-31,AFF_DATA_COST,Mobile Data Cost per GB,AFFORDABILITY,all,ETB,120,ITU
observation,2022-12-31,AFF_DATA_SHARE,Data Cost Share of Income,AFFORDABILITY,all,%,4.2,ITU
observation,not recorded,ACC_MM_ACCOUNT,Mobile Money Account Rate,ACCESS,all,%,9.5,Survey
event,2017-11-01,EVT_CBE_BIRR,CBE Birr Launch,USAGE,all,,, Commercial Bank of Ethiopia
event,2020-04-15,EVT_NFIS_I_END,NFIS-I Period Ends,ACCESS,all,,,NBE
event,2021-05-11,EVT_TELEBIRR,Telebirr Launch,USAGE,all,,,Ethio Telecom
event,2021-09-01,EVT_NFIS_II,NFIS-II Strategy Adopted,ACCESS,all,,,NBE
event,2022-08-01,EVT_SAFARICOM_LICENSE,Safaricom Licence Granted,ACCESS,all,,,ECA
event,2023-08-16,EVT_MPESA,M-Pesa Ethiopia Launch,USAGE,all,,,Safaricom Ethiopia
event,2024-01-15,EVT_FAYDA,Fayda Digital ID Rollout,ACCESS,all,,,NIDP
event,2024-07-29,EVT_FX_REFORM,FX Liberalization,AFFORDABILITY,all,,,NBE
event,2025-03-01,EVT_INTEROP,Interoperability Full Launch,USAGE,all,,,EthSwitch
event,2025-10-01,EVT_ETHIOPAY,EthioPay Instant Payment,USAGE,all,,,EthSwitch
target,2025-12-31,ACC_OWNERSHIP,NFIS-II Account Ownership Target,ACCESS,all,%,70,NBE
`

// ForecastCSV holds the account ownership and digital payment scenarios
const ForecastCSV = `indicator_code,year,scenario,value,ci_lower,ci_upper
ACC_OWNERSHIP,2025,base,61.8,42.9,80.8
ACC_OWNERSHIP,2026,base,73.7,53.9,93.4
ACC_OWNERSHIP,2027,base,82.5,61.9,103.1
ACC_OWNERSHIP,2025,trend,54.8,,
ACC_OWNERSHIP,2026,trend,57.7,,
ACC_OWNERSHIP,2027,trend,60.5,,
ACC_OWNERSHIP,2025,pessimistic,57.8,,
ACC_OWNERSHIP,2026,pessimistic,64.7,,
ACC_OWNERSHIP,2027,pessimistic,70.0,,
ACC_OWNERSHIP,2025,optimistic,64.4,,
ACC_OWNERSHIP,2026,optimistic,79.5,,
ACC_OWNERSHIP,2027,optimistic,90.6,,
USG_DIGITAL_PAYMENT,2025,base,59.6,35.8,83.4
USG_DIGITAL_PAYMENT,2026,base,82.9,59.1,100.0
USG_DIGITAL_PAYMENT,2027,base,100.0,79.1,100.0
USG_DIGITAL_PAYMENT,2025,trend,48.6,,
USG_DIGITAL_PAYMENT,2026,trend,52.9,,
USG_DIGITAL_PAYMENT,2027,trend,57.3,,
USG_DIGITAL_PAYMENT,2025,pessimistic,53.3,,
USG_DIGITAL_PAYMENT,2026,pessimistic,66.4,,
USG_DIGITAL_PAYMENT,2027,pessimistic,79.1,,
USG_DIGITAL_PAYMENT,2025,optimistic,63.6,,
USG_DIGITAL_PAYMENT,2026,optimistic,93.4,,
USG_DIGITAL_PAYMENT,2027,optimistic,100.0,,
`

// ImpactCSV maps events to their estimated effect in percentage points
const ImpactCSV = `event,ACC_OWNERSHIP,USG_DIGITAL_PAYMENT
Interoperability Full Launch (2026),4,16
EthioPay Instant Payment (2025),3,15
Telebirr Continued Growth,6,9
Fayda Digital ID Rollout,6,2
M-Pesa Market Penetration,3,6
FX Liberalization,-2,1
`

// File names used by WriteFixtures
const (
	UnifiedFile  = "ethiopia_fi_unified_data_enriched.csv"
	ForecastFile = "forecast_2025_2027.csv"
	ImpactFile   = "event_indicator_matrix_refined.csv"
)

// WriteFixtures writes the three tables into a temporary directory
func WriteFixtures(t testing.TB) dataset.Files {
	t.Helper()
	return WriteTables(t, UnifiedCSV, ForecastCSV, ImpactCSV)
}

// WriteTables writes the given table contents into a temporary directory.
// An empty string leaves that file absent.
func WriteTables(t testing.TB, unified, forecast, impact string) dataset.Files {
	t.Helper()

	dir := t.TempDir()
	files := dataset.Files{
		Unified:  filepath.Join(dir, UnifiedFile),
		Forecast: filepath.Join(dir, ForecastFile),
		Impact:   filepath.Join(dir, ImpactFile),
	}

	for path, content := range map[string]string{
		files.Unified:  unified,
		files.Forecast: forecast,
		files.Impact:   impact,
	} {
		if content == "" {
			continue
		}
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return files
}

// MustLoad loads the standard fixtures
func MustLoad(t testing.TB) *dataset.Snapshot {
	t.Helper()

	snap, err := dataset.NewLoader(WriteFixtures(t), nil, nil).Load(context.Background())
	require.NoError(t, err)
	return snap
}
