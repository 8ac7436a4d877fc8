// Package admin implements the registry administration console as a pure
// state machine over a registry.Registry snapshot.
//
// The console tracks one selected group and at most one draft rule or recipe:
//
//	Empty -> Viewing <-> EditingField
//	Viewing -> CreatingField -> Viewing
//
// Every committed mutation returns a Change holding the snapshot before and
// after it. The console never persists anything; the caller hands each Change
// to the registry service and calls Rollback when the save fails.
package admin
