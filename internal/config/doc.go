// Package config provides centralized configuration for the expense ETL.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file (-config flag, config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// Fields left empty in the YAML file are filled from Default() before the
// environment is applied, so a partial file is always valid.
//
// # Environment Variables
//
// All environment variables use the ETL_ prefix and the section name:
//
//	ETL_LOGGING_LEVEL=debug
//	ETL_PATHS_STAGING_DIR=/var/lib/etl/downloads
//	ETL_SOURCE_YEARS=2025,2024
//	ETL_SOURCE_MAX_DOWNLOADS=0
//	ETL_FILTER_KEYWORDS=EVENTO,SINISTRO
//	ETL_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/etl.prom
//	ETL_PUBLISH_BUCKET=my-bucket
//
// # Paths
//
// ResolvePaths turns PathsConfig into absolute locations. Relative paths are
// resolved against Paths.BaseDir, which defaults to the working directory.
package config
