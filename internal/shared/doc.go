// Package shared holds helpers used by the tests of several packages.
//
// testutil captures slog output so tests can assert on what a component
// logged:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewDashboardService(store, cfg, nil, logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelError, "dataset unavailable")
//
// Domain fixtures live next to their package, for example
// internal/dataset/testutil.
package shared
