// Package registry implements the application layer for the rule and recipe
// registry.
//
// It bridges the pure snapshot type in internal/domain/registry to the
// outside world:
//   - yaml_loader.go parses registry.yaml from any fs.FS into a snapshot
//   - yaml_store.go marshals snapshots back and writes them atomically
//   - diff.go renders the line diff between two snapshots
//   - RegistryService caches the loaded snapshot, persists console changes
//     and publishes every new snapshot on a pubsub broker
//
// # Save boundary
//
// RegistryService.Save persists the After snapshot of an admin.Change. When
// the write fails the service keeps the last persisted snapshot, publishes a
// FailedEvent carrying it and returns the error, so the caller can roll its
// optimistic state back with admin.Console.Rollback.
//
// # Import Aliasing
//
// This package has the same name as the domain registry package. When
// importing both, alias one of them:
//
//	import (
//	    domainreg "github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
//	    appreg "github.com/javierhbr/test-inventory-sub000/internal/application/registry"
//	)
package registry
