// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the loaded dataset, turning the
// immutable snapshot into the view models of the report pages.
//
// # Services
//
//	- DashboardService builds the overview, trends, forecasts and projections
//	  views and renders their charts as SVG
//	- ExportService writes the loaded tables as CSV or Excel downloads
//	- HealthService answers the health, readiness and version checks
//
// # Common Service Pattern
//
// Every service receives the snapshot provider, its metrics and a logger:
//
//	svc := services.NewDashboardService(store, cfg.Dashboard, metrics, logger)
//	view, err := svc.Trends(ctx, services.TrendsQuery{
//	    Pillars: []domain.Pillar{domain.PillarAccess},
//	    From:    2011,
//	    To:      2025,
//	})
//
// A failed load surfaces as an error wrapping dataset.ErrDataUnavailable from
// every view; nothing is rendered from a partial dataset.
package services
