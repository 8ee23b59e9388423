// Package app wires the dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from environment and config file
//	2. Initialize logging and OpenTelemetry
//	3. Resolve the data file paths and create the snapshot store
//	4. Initialize services over the store
//	5. Set up the router, middleware and handlers
//	6. Create the HTTP server
//
// The dataset is read at most once per process. Start warms the store in the
// background; until then the first request triggers the load. A failed load
// is memoized and every data page answers 503 until the process restarts.
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// the configured shutdown timeout and flushes telemetry. Initialization
// errors are returned to the caller; the package never calls os.Exit.
package app
