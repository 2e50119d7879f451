// Package types defines the state document, its entity records, the list
// update value type, result envelopes and the standard errors shared by
// every waypoint component.
//
// A project has exactly one state document (currentstate.json). Entities
// live in ordered lists keyed by a unique id and are never physically
// deleted; editors only create them or update their fields.
package types
