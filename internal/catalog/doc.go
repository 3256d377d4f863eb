// Package catalog defines the movie record model and the collaborator
// interfaces shared by the scraping pipeline.
//
// Optional fields are pointers: nil means the value was not present in the
// source, which is distinct from a present-but-empty value.
package catalog
