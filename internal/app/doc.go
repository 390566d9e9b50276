// Package app wires the Employee Hours Report server together.
//
// New takes a loaded configuration and a logger and builds, in order:
//
//  1. OpenTelemetry providers and the report instruments
//  2. the WebSocket hub and the report and health services
//  3. the chi router with its middleware chain and handlers
//  4. the HTTP server
//
// Serve runs the hub and the server under one errgroup and shuts both down
// when the context ends. Run adds SIGINT/SIGTERM handling and listens on the
// configured address:
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return a.Run(context.Background())
//
// The /ws route sits in front of the logging, timeout and compression
// middleware so the upgrade can hijack the connection.
package app
