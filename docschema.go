// Package docschema maps parsed web documents onto the flat field schema of a
// full-text search index. It decides which index fields exist, how they are
// named and typed, and how structural HTML data (headings, emphasis, embedded
// resources, links) is flattened into indexable values.
//
// This package contains domain types, interfaces and the pure mapping logic,
// following Ben Johnson's Standard Package Layout. Implementations of external
// collaborators live in subdirectories named after their primary dependency
// (e.g., sqlite/, goquery/, trafilatura/).
package docschema
