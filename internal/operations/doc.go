// Package operations sequences the ETL run.
//
// Transformer is the core state machine:
//
//	idle → discovering → processing → done
//	                  ↘            ↘
//	                    failed       failed
//
// It creates the staging directory, opens the consolidated output, lists the
// staged archives and processes them one at a time. Each archive goes through
// period extraction, parsing, filtering and writing; an archive that fails is
// logged with its file name and skipped. The output handle is passed to each
// archive explicitly and stays open for the whole run.
//
// Pipeline wraps the full program as steps:
//
//	extract (optional) → transform → package → publish (optional)
//
// Step state and results are kept in an OperationState. Optional steps may
// fail without stopping the run.
//
// Example usage:
//
//	transformer := operations.NewTransformer(paths, cfg.Filter, telemetry, logger)
//	pipeline := operations.NewPipeline(telemetry, logger,
//	    operations.NewExtractStep(fetcher),
//	    operations.NewTransformStep(transformer),
//	    operations.NewPackageStep(exporter.NewZipPackager(), paths.OutputCSV, paths.OutputZip),
//	    operations.NewPublishStep(publisher.New(cfg.Publish, logger)),
//	)
//	state, err := pipeline.Run(ctx)
package operations
