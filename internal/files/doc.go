// Package files provides file system discovery and management.
//
// Discovery globs a directory for data files and returns them in lexical
// order, which fixes the order of the patient tables a source produces.
// Fingerprint condenses a discovered set into a cache key.
//
// Manager writes output files atomically relative to a base directory.
//
//	discovery := files.NewDiscovery("")
//	found, err := discovery.FindFilesByPattern("data", "inflammation*.csv")
package files
