// Package shared groups helpers used across the ETL packages that do not
// belong to any single stage.
//
// The testutil subpackage builds source archives in the regulator's format
// (Latin-1, semicolon separated, quoted fields) and captures slog output so
// tests can assert on what a stage logged:
//
//	dir := t.TempDir()
//	testutil.WriteSourceArchive(t, dir, "1T2025.zip",
//	    `"";"123456";"X";"DESPESAS COM EVENTOS/SINISTROS";"Y";"1.234,56"`)
//
//	logger, handler := testutil.NewTestLogger(t)
//	// ... run the stage with logger ...
//	testutil.AssertLogContains(t, handler, slog.LevelDebug, "Archive processed")
package shared
