// Package core defines the shared language of modeldoc.
//
// This package contains:
//   - Domain values (Column, Property, Relation, ModelTarget)
//   - Run policies (SortPolicy) and results (Result, Report)
//   - Connection configuration (ConnConfig)
//   - The error taxonomy shared by every stage of a run
//
// pkg/core imports only the standard library.
// All other packages depend on core, not the reverse.
package core
