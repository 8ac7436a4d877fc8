// Package registry implements the domain layer for the semantic rule and recipe registry.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code (no file I/O, YAML parsing or databases)
//   - Defines value types (SemanticRule, RuleGroup, Recipe, RecipeGroup)
//   - Implements the registry invariants (shared group namespace, delete-only-when-empty,
//     guarded renames) as pure functions over immutable snapshots
//
// # Snapshots
//
// Registry is an immutable snapshot. Every administrative operation (CreateGroup,
// RenameGroup, DeleteGroup, SaveRule, DeleteRule, SaveRecipe, DeleteRecipe) returns a new
// snapshot and leaves its receiver untouched, so callers can keep the previous value around
// for rollback or diffing.
//
// Failed operations return the receiver unchanged together with a sentinel error
// (ErrBlankName, ErrNameUnchanged, ErrNameTaken, ErrGroupNotEmpty, ...). Whether to surface
// that error is the caller's decision.
//
// # Group Namespace
//
// Rule groups and recipe groups are different kinds of containers but share one naming
// namespace: a key used by a rule group can never be used by a recipe group and vice versa.
//
// # Import Aliasing
//
// The application layer (internal/application/registry) uses the same package name. When
// importing both, alias the domain package:
//
//	import (
//	    domainreg "github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
//	    appreg "github.com/javierhbr/test-inventory-sub000/internal/application/registry"
//	)
package registry
