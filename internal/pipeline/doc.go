// Package pipeline runs the listing → detail → embed → enrich → rehost flow
// for one listing page across a bounded pool of workers.
//
// Records are numbered in the order their pipelines finish, not the order
// their URLs appeared on the listing page. Identifiers are unique and
// contiguous from 1 within a run, but the mapping from URL to identifier
// can differ between runs.
package pipeline
