// Package files provides file system operations and discovery utilities
// for the expense ETL.
//
// Discovery enumerates staged archives. FindArchives returns entries sorted
// by name and fails with ErrDirectoryNotFound when the staging directory is
// missing; callers are expected to create it beforehand.
//
// Manager provides directory creation, existence checks and atomic writes
// used when downloading archives into the staging directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/srv/etl")
//	archives, err := discovery.FindArchives("downloads", ".zip")
//
//	manager := files.NewManager(logger)
//	if !manager.FileExists(dst) {
//	    _, err = manager.WriteAtomic(dst, resp.Body)
//	}
package files
