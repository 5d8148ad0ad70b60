// Package app wires configuration, logging, telemetry and the ETL steps
// together for the command-line entry points.
//
// Example usage:
//
//	application, err := app.NewApplication(*configPath)
//	if err != nil {
//	    os.Exit(1)
//	}
//	defer application.Stop(context.Background())
//	state, err := application.Run(context.Background(), app.ModeFull)
package app
