// Package classification implements the tag grammar, the suggestion engine and
// the editing rules for the classification set attached to one entity.
//
// A tag is either a plain label ("smoke") or a semantic tag made of
// ':'-delimited segments ("customer-type:vip", "schedule:month:3"). Values
// cannot contain ':' since no escaping exists.
//
// Everything here is pure: sets and input states are values, and every
// operation returns a new value. Rules and recipes come from a
// registry.Registry snapshot.
package classification
