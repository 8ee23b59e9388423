// Package http implements the HTTP handlers of the dashboard. Handlers are a
// thin layer over the services: they decode and validate the page controls,
// call the service and format the response.
//
// # Surfaces
//
//	GET /, /trends, /forecasts, /projections   HTML pages (PageHandler)
//	GET /api/data/...                          JSON view models (DataHandler)
//	GET /api/export/{table}.{csv|xlsx}         downloads (ExportHandler)
//	GET /charts/{name}.svg                     charts (ChartHandler)
//	GET /api/health, /api/version              health and version (HealthHandler)
//
// # Query Parameters
//
// QueryParser decodes pillar (repeatable), from, to, model, ci and scenario
// into structs validated with go-playground/validator. Invalid values are
// answered with a 400 problem; HTML pages show the same problem as an error
// page.
//
// # Error Handling
//
// All JSON errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/data/unavailable",
//	    "title": "Data Unavailable",
//	    "status": 503,
//	    "detail": "forecast table: data unavailable",
//	    "instance": "/api/data/forecasts",
//	    "trace_id": "4bf92f3577b34da6a3ce929d0e0e4736"
//	}
package http
